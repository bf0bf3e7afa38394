package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socio-africa/backend/internal/repository"
	"github.com/socio-africa/backend/internal/util"
)

// TogglePostBookmark saves or unsaves a post for the caller
// POST /api/v1/posts/:id/bookmark
func (h *Handlers) TogglePostBookmark(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
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

	// Bookmarks attach to the source post, never to a share pointer
	postID := post.ID
	if post.IsShare() {
		postID = *post.ParentPostID
	}

	bookmarked, err := h.bookmarks.TogglePostBookmark(c.Request.Context(), userID, postID)
	if err != nil {
		util.RespondInternalError(c, "Failed to toggle bookmark")
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookmarked": bookmarked})
}

// ToggleCommentBookmark saves or unsaves a comment for the caller
// POST /api/v1/comments/:id/bookmark
func (h *Handlers) ToggleCommentBookmark(c *gin.Context) {
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

	bookmarked, err := h.bookmarks.ToggleCommentBookmark(c.Request.Context(), userID, comment.ID)
	if err != nil {
		util.RespondInternalError(c, "Failed to toggle bookmark")
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookmarked": bookmarked})
}
