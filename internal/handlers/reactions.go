package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socio-africa/backend/internal/feed"
	"github.com/socio-africa/backend/internal/models"
	"github.com/socio-africa/backend/internal/repository"
	"github.com/socio-africa/backend/internal/util"
)

// ReactionRequest is the body for reaction toggles
type ReactionRequest struct {
	Reaction models.ReactionKind `json:"reaction" binding:"required"`
}

// TogglePostReaction flips the caller's like or dislike on a post. Setting
// one kind clears the other; repeating a kind removes it.
// POST /api/v1/posts/:id/reaction
func (h *Handlers) TogglePostReaction(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Reaction.Valid() {
		util.RespondValidationError(c, "reaction", "Reaction must be 'like' or 'dislike'")
		return
	}

	post, err := h.posts.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			util.RespondNotFound(c, "Post")
			return
		}
		util.RespondInternalError(c)
		return
	}

	// Reactions live on the source post, never on a share pointer
	postID := post.ID
	if post.IsShare() {
		postID = *post.ParentPostID
	}

	added, authorID, err := h.posts.ToggleReaction(c.Request.Context(), postID, userID, req.Reaction)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			util.RespondNotFound(c, "Post")
			return
		}
		util.RespondInternalError(c, "Failed to toggle reaction")
		return
	}

	if added {
		h.dispatcher.PostReaction(postID, authorID, userID, req.Reaction)
	}

	updated, err := h.posts.GetPost(c.Request.Context(), postID)
	if err != nil {
		util.RespondInternalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"added":     added,
		"reactions": feed.SummarizeReactions(updated.Reactions, userID),
	})
}

// ToggleCommentReaction flips the caller's like or dislike on a comment
// POST /api/v1/comments/:id/reaction
func (h *Handlers) ToggleCommentReaction(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Reaction.Valid() {
		util.RespondValidationError(c, "reaction", "Reaction must be 'like' or 'dislike'")
		return
	}

	added, comment, err := h.comments.ToggleReaction(c.Request.Context(), c.Param("id"), userID, req.Reaction)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			util.RespondNotFound(c, "Comment")
			return
		}
		util.RespondInternalError(c, "Failed to toggle reaction")
		return
	}

	if added {
		h.dispatcher.CommentReaction(comment.ID, comment.PostID, comment.UserID, userID, req.Reaction)
	}

	c.JSON(http.StatusOK, gin.H{
		"added":     added,
		"reactions": feed.SummarizeReactions(comment.Reactions, userID),
	})
}
