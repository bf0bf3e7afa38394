package models

import (
	"time"

	"gorm.io/gorm"
)

// NotificationMode tells clients what a notification points at.
type NotificationMode string

const (
	NotifyPost     NotificationMode = "post"
	NotifyComment  NotificationMode = "comment"
	NotifyReaction NotificationMode = "reaction"
	NotifyFollow   NotificationMode = "follow"
)

// NotificationRef is the embedded pointer back to the triggering entity.
// PostID is set when the target lives under a post (comments, reactions on
// comments) so clients can deep-link.
type NotificationRef struct {
	Mode   NotificationMode `json:"mode"`
	RefID  string           `json:"ref_id"`
	PostID string           `json:"post_id,omitempty"`
}

// Notification is a persisted in-app notification. Rows are written by the
// background dispatcher, never inside a request handler.
type Notification struct {
	ID     string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID string `gorm:"not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`

	InitiatedBy string `gorm:"not null;index" json:"initiated_by"`
	Initiator   User   `gorm:"foreignKey:InitiatedBy" json:"initiator,omitempty"`

	Content string `gorm:"type:text;not null" json:"content"`
	URL     string `json:"url"`
	Read    bool   `gorm:"default:false;index" json:"read"`

	Ref NotificationRef `gorm:"type:jsonb;serializer:json" json:"ref"`

	CreatedAt time.Time `json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = generateUUID()
	}
	return nil
}
