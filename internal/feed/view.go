package feed

import (
	"time"

	"github.com/socio-africa/backend/internal/models"
)

// PostView is the fully assembled client shape of a post. For share pointers
// the displayable payload comes from the resolved source post while the
// pointer's own identity and share fields are preserved.
type PostView struct {
	ID        string                `json:"id"`
	Author    *models.PublicProfile `json:"user"`
	Content   string                `json:"content"`
	FileURLs  []string              `json:"file_urls"`
	Topic     string                `json:"topic"`
	CreatedAt time.Time             `json:"created_at"`

	Visibility models.Visibility `json:"visibility"`

	ParentPostID *string `json:"parent_post_id,omitempty"`
	SharedBy     *string `json:"shared_by,omitempty"`

	Reactions     ReactionSummary `json:"reactions"`
	Bookmarked    bool            `json:"bookmarked"`
	Shares        ShareSummary    `json:"shares"`
	CommentsCount int64           `json:"comments_count"`

	// Comments carries the two-level tree on single-post assembly; feed
	// pages leave it nil.
	Comments []*CommentView `json:"comments,omitempty"`
}

// CommentView is the assembled client shape of a comment. Replies are only
// populated on top-level comments.
type CommentView struct {
	ID        string                `json:"id"`
	PostID    string                `json:"post_id"`
	Author    *models.PublicProfile `json:"user"`
	Content   string                `json:"content"`
	CreatedAt time.Time             `json:"created_at"`

	ParentCommentID *string `json:"parent_comment_id,omitempty"`
	ReplyTo         *string `json:"reply_to,omitempty"`

	Reactions  ReactionSummary `json:"reactions"`
	Bookmarked bool            `json:"bookmarked"`

	Replies []*CommentView `json:"replies,omitempty"`
}
