package notify

import (
	"github.com/socio-africa/backend/internal/models"
)

type eventKind string

const (
	eventPost     eventKind = "post"
	eventComment  eventKind = "comment"
	eventReaction eventKind = "reaction"
	eventFollow   eventKind = "follow"
)

// event is one unit of fan-out work. Exactly the fields for its kind are set.
type event struct {
	kind        eventKind
	initiatorID string

	post    *models.Post
	comment *models.Comment

	// reaction events
	reaction     models.ReactionKind
	targetUserID string
	postID       string
	commentID    string

	// follow events
	followingID string
}
