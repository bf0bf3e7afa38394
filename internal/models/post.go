package models

import (
	"time"

	"gorm.io/gorm"
)

// StringList is stored as a jsonb array so the same model works on both
// postgres and the sqlite test driver.
type StringList []string

// ReactionKind is a mutually exclusive reaction on a post or comment.
type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

// Valid reports whether k is one of the supported kinds.
func (k ReactionKind) Valid() bool {
	return k == ReactionLike || k == ReactionDislike
}

// Opposite returns the kind that k excludes for the same user.
func (k ReactionKind) Opposite() ReactionKind {
	if k == ReactionLike {
		return ReactionDislike
	}
	return ReactionLike
}

// Reaction is one user's reaction entry inside a post's or comment's
// embedded reaction list.
type Reaction struct {
	UserID string       `json:"user_id"`
	Kind   ReactionKind `json:"reaction"`
}

// ReactionList is the embedded reaction document. At most one entry per
// (user, kind) pair; the toggle primitive in the repository maintains that.
type ReactionList []Reaction

// Has reports whether user has an entry of the given kind.
func (l ReactionList) Has(userID string, kind ReactionKind) bool {
	for _, r := range l {
		if r.UserID == userID && r.Kind == kind {
			return true
		}
	}
	return false
}

// Count returns the number of entries of the given kind.
func (l ReactionList) Count(kind ReactionKind) int {
	n := 0
	for _, r := range l {
		if r.Kind == kind {
			n++
		}
	}
	return n
}

// VisibilityMode controls where a post surfaces.
type VisibilityMode string

const (
	VisibilityAll       VisibilityMode = "all"
	VisibilityCommunity VisibilityMode = "community"
	VisibilityPrivate   VisibilityMode = "private"
)

// Visibility is the embedded audience document on a post.
type Visibility struct {
	Mode        VisibilityMode `json:"mode"`
	CommunityID string         `json:"community_id,omitempty"`
}

// Post is either an original post or a share pointer. A share pointer has
// ParentPostID and SharedBy set and carries no content of its own; the feed
// assembler resolves it to the source post before returning it to clients.
type Post struct {
	ID     string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID string `gorm:"not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Content  string     `gorm:"type:text" json:"content"`
	FileURLs StringList `gorm:"type:jsonb;serializer:json" json:"file_urls"`
	Topic    string     `gorm:"index" json:"topic"`

	Visibility Visibility `gorm:"type:jsonb;serializer:json" json:"visibility"`

	Reactions ReactionList `gorm:"type:jsonb;serializer:json" json:"reactions"`

	// Share pointer fields
	ParentPostID *string `gorm:"type:uuid;index" json:"parent_post_id,omitempty"`
	SharedBy     *string `gorm:"type:uuid;index" json:"shared_by,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsShare reports whether the record is a share pointer rather than an
// original post.
func (p *Post) IsShare() bool {
	return p.ParentPostID != nil && p.SharedBy != nil
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = generateUUID()
	}
	if p.Visibility.Mode == "" {
		p.Visibility.Mode = VisibilityAll
	}
	return nil
}
