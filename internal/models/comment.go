package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment belongs to a post. Threading is two levels deep: a comment with
// ParentCommentID set is a reply and never has replies of its own. ReplyTo
// names the user being answered inside a reply chain.
type Comment struct {
	ID     string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	PostID string `gorm:"not null;index" json:"post_id"`
	Post   Post   `gorm:"foreignKey:PostID" json:"-"`
	UserID string `gorm:"not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Content string `gorm:"type:text;not null" json:"content"`

	ParentCommentID *string `gorm:"type:uuid;index" json:"parent_comment_id,omitempty"`
	ReplyTo         *string `gorm:"type:uuid" json:"reply_to,omitempty"`

	Reactions ReactionList `gorm:"type:jsonb;serializer:json" json:"reactions"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsReply reports whether the comment is a second-level reply.
func (c *Comment) IsReply() bool {
	return c.ParentCommentID != nil
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = generateUUID()
	}
	return nil
}
