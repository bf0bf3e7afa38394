package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socio-africa/backend/internal/models"
	"github.com/socio-africa/backend/internal/repository"
	"github.com/socio-africa/backend/internal/util"
)

// CreateCommentRequest is the body for POST /api/v1/posts/:id/comments
type CreateCommentRequest struct {
	Content         string  `json:"content" binding:"required"`
	ParentCommentID *string `json:"parent_comment_id"`
	ReplyTo         *string `json:"reply_to"`
}

// CreateComment adds a comment (or reply) to a post. Replies to replies are
// flattened onto the top-level thread.
// POST /api/v1/posts/:id/comments
func (h *Handlers) CreateComment(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondValidationError(c, "content", "Comment content is required")
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

	// Comments live on the source post, never on a share pointer
	if post.IsShare() {
		post, err = h.posts.GetPost(c.Request.Context(), *post.ParentPostID)
		if err != nil {
			if errors.Is(err, repository.ErrPostNotFound) {
				util.RespondNotFound(c, "Post")
				return
			}
			util.RespondInternalError(c)
			return
		}
	}

	comment := &models.Comment{
		PostID:          post.ID,
		UserID:          userID,
		Content:         req.Content,
		ParentCommentID: req.ParentCommentID,
		ReplyTo:         req.ReplyTo,
	}

	if err := h.comments.CreateComment(c.Request.Context(), comment); err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			util.RespondNotFound(c, "Parent comment")
			return
		}
		util.RespondInternalError(c, "Failed to create comment")
		return
	}

	h.dispatcher.CommentCreated(comment, post)

	created, err := h.comments.GetComment(c.Request.Context(), comment.ID)
	if err != nil {
		util.RespondInternalError(c)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": h.assembler.AssembleComment(c.Request.Context(), created, userID)})
}

// GetComments returns the two-level comment tree for a post
// GET /api/v1/posts/:id/comments
func (h *Handlers) GetComments(c *gin.Context) {
	viewerID := util.ViewerID(c)

	post, err := h.posts.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			util.RespondNotFound(c, "Post")
			return
		}
		util.RespondInternalError(c)
		return
	}

	postID := post.ID
	if post.IsShare() {
		postID = *post.ParentPostID
	}

	flat, err := h.comments.ListByPost(c.Request.Context(), postID)
	if err != nil {
		util.RespondInternalError(c)
		return
	}

	tree := h.assembler.AssembleCommentTree(c.Request.Context(), flat, viewerID)
	c.JSON(http.StatusOK, gin.H{"comments": tree})
}

// GetComment returns one comment with its replies
// GET /api/v1/comments/:id
func (h *Handlers) GetComment(c *gin.Context) {
	viewerID := util.ViewerID(c)

	comment, err := h.comments.GetComment(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			util.RespondNotFound(c, "Comment")
			return
		}
		util.RespondInternalError(c)
		return
	}

	view := h.assembler.AssembleComment(c.Request.Context(), comment, viewerID)

	replies, err := h.comments.ListReplies(c.Request.Context(), comment.ID)
	if err != nil {
		util.RespondInternalError(c)
		return
	}
	for i := range replies {
		view.Replies = append(view.Replies, h.assembler.AssembleComment(c.Request.Context(), &replies[i], viewerID))
	}

	c.JSON(http.StatusOK, gin.H{"comment": view})
}

// UpdateCommentRequest is the body for PATCH /api/v1/comments/:id
type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// UpdateComment edits the caller's own comment
// PATCH /api/v1/comments/:id
func (h *Handlers) UpdateComment(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondValidationError(c, "content", "Comment content is required")
		return
	}

	comment, err := h.comments.GetComment(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			util.RespondNotFound(c, "Comment")
			return
		}
		util.RespondInternalError(c)
		return
	}

	if comment.UserID != userID {
		util.RespondForbidden(c, "You can only edit your own comments")
		return
	}

	comment.Content = req.Content
	if err := h.comments.UpdateComment(c.Request.Context(), comment); err != nil {
		util.RespondInternalError(c, "Failed to update comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"comment": h.assembler.AssembleComment(c.Request.Context(), comment, userID)})
}

// DeleteComment removes the caller's own comment along with its replies
// DELETE /api/v1/comments/:id
func (h *Handlers) DeleteComment(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	comment, err := h.comments.GetComment(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			util.RespondNotFound(c, "Comment")
			return
		}
		util.RespondInternalError(c)
		return
	}

	if comment.UserID != userID {
		util.RespondForbidden(c, "You can only delete your own comments")
		return
	}

	if err := h.comments.DeleteComment(c.Request.Context(), comment.ID); err != nil {
		util.RespondInternalError(c, "Failed to delete comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}
