package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a Socio account. Credentials normally live in the external auth
// service; PasswordHash is only populated when the local JWT fallback is in
// use.
type User struct {
	ID       string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`

	PasswordHash *string `gorm:"type:text" json:"-"`

	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Gender      string `json:"gender"`
	Bio         string `gorm:"type:text" json:"bio"`

	// S3 URLs
	Image      string `json:"image"`
	CoverImage string `json:"cover_image"`

	// Topics the user follows, denormalized for the home feed query
	Topics StringList `gorm:"type:jsonb;serializer:json" json:"topics"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// PublicProfile is the author shape embedded in assembled posts and comments.
type PublicProfile struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Gender      string `json:"gender"`
	Image       string `json:"image"`
	CoverImage  string `json:"cover_image"`
	Bio         string `json:"bio"`
}

// Public strips the private fields for embedding in feed responses.
func (u *User) Public() *PublicProfile {
	if u == nil {
		return nil
	}
	return &PublicProfile{
		ID:          u.ID,
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
		Gender:      u.Gender,
		Image:       u.Image,
		CoverImage:  u.CoverImage,
		Bio:         u.Bio,
	}
}

// DisplayName is used when composing notification text.
func (u *User) DisplayName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		name = u.Username
	}
	return name
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = generateUUID()
	}
	return nil
}

// Helper function for UUID generation
func generateUUID() string {
	return uuid.New().String()
}
