package models

import (
	"time"

	"gorm.io/gorm"
)

// Follow is a directed edge: FollowerID follows FollowingID.
type Follow struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	FollowerID  string `gorm:"not null;index;uniqueIndex:idx_follow_pair" json:"follower_id"`
	Follower    User   `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	FollowingID string `gorm:"not null;index;uniqueIndex:idx_follow_pair" json:"following_id"`
	Following   User   `gorm:"foreignKey:FollowingID" json:"following,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = generateUUID()
	}
	return nil
}
