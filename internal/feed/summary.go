package feed

import "github.com/socio-africa/backend/internal/models"

// LikeSummary is the aggregated like bucket, relative to the viewer.
type LikeSummary struct {
	Count int  `json:"count"`
	Liked bool `json:"liked"`
}

// DislikeSummary is the aggregated dislike bucket, relative to the viewer.
type DislikeSummary struct {
	Count    int  `json:"count"`
	Disliked bool `json:"disliked"`
}

// ReactionSummary is the viewer-relative aggregation of an embedded reaction
// list. Raw per-user entries never leave the backend.
type ReactionSummary struct {
	Like    LikeSummary    `json:"like"`
	Dislike DislikeSummary `json:"dislike"`
}

// ShareSummary aggregates the share pointers at a post.
type ShareSummary struct {
	Count  int64 `json:"count"`
	Shared bool  `json:"shared"`
}

// SummarizeReactions folds a reaction list into per-kind counts plus the
// viewer's own flags. An empty viewerID yields an anonymous summary with both
// flags false.
func SummarizeReactions(list models.ReactionList, viewerID string) ReactionSummary {
	var s ReactionSummary
	for _, r := range list {
		switch r.Kind {
		case models.ReactionLike:
			s.Like.Count++
			if viewerID != "" && r.UserID == viewerID {
				s.Like.Liked = true
			}
		case models.ReactionDislike:
			s.Dislike.Count++
			if viewerID != "" && r.UserID == viewerID {
				s.Dislike.Disliked = true
			}
		}
	}
	return s
}
