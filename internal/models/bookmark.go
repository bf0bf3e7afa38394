package models

import (
	"time"

	"gorm.io/gorm"
)

// Bookmark saves a post or a comment for one user. Exactly one of PostID and
// CommentID is set; the partial unique indexes created at migration time keep
// at most one bookmark per (user, target).
type Bookmark struct {
	ID     string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID string `gorm:"not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`

	PostID    *string  `gorm:"type:uuid;index" json:"post_id,omitempty"`
	Post      *Post    `gorm:"foreignKey:PostID" json:"post,omitempty"`
	CommentID *string  `gorm:"type:uuid;index" json:"comment_id,omitempty"`
	Comment   *Comment `gorm:"foreignKey:CommentID" json:"comment,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (b *Bookmark) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = generateUUID()
	}
	return nil
}
