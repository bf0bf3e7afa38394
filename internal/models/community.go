package models

import (
	"time"

	"gorm.io/gorm"
)

// CommunityVisibility controls how members join.
type CommunityVisibility string

const (
	// CommunityOpen lets anyone join themselves.
	CommunityOpen CommunityVisibility = "all"
	// CommunityManual means admins add members.
	CommunityManual CommunityVisibility = "manual"
)

// Community is a named group posts can be scoped to.
type Community struct {
	ID          string              `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name        string              `gorm:"uniqueIndex;not null" json:"name"`
	Description string              `gorm:"type:text" json:"description"`
	Visibility  CommunityVisibility `gorm:"default:all" json:"visibility"`
	CreatedBy   string              `gorm:"not null;index" json:"created_by"`

	Topics StringList `gorm:"type:jsonb;serializer:json" json:"topics"`

	Image      string `json:"image"`
	CoverImage string `json:"cover_image"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Community) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = generateUUID()
	}
	if c.Visibility == "" {
		c.Visibility = CommunityOpen
	}
	return nil
}

// MemberRole orders community privileges.
type MemberRole string

const (
	RoleMember     MemberRole = "member"
	RoleAdmin      MemberRole = "admin"
	RoleSuperAdmin MemberRole = "super_admin"
)

// CommunityMember links a user to a community with a role. The creator is
// the community's super_admin and cannot leave.
type CommunityMember struct {
	ID          string     `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	CommunityID string     `gorm:"not null;index;uniqueIndex:idx_member_pair" json:"community_id"`
	Community   Community  `gorm:"foreignKey:CommunityID" json:"-"`
	UserID      string     `gorm:"not null;index;uniqueIndex:idx_member_pair" json:"user_id"`
	User        User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role        MemberRole `gorm:"default:member" json:"role"`

	CreatedAt time.Time `json:"created_at"`
}

func (m *CommunityMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = generateUUID()
	}
	if m.Role == "" {
		m.Role = RoleMember
	}
	return nil
}

// Topic is a global interest tag users and communities can subscribe to.
// TopicRef is the slug form of the name and is the deduplication key.
type Topic struct {
	ID       string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	TopicRef string `gorm:"uniqueIndex;not null" json:"topic_ref"`

	CreatedAt time.Time `json:"created_at"`
}

func (t *Topic) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = generateUUID()
	}
	return nil
}
