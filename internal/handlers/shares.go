package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socio-africa/backend/internal/repository"
	"github.com/socio-africa/backend/internal/util"
)

// SharePost toggles the caller's share pointer at a post. Sharing a share
// targets the original; sharing a post the caller already shared deletes the
// pointer instead.
// POST /api/v1/posts/:id/share
func (h *Handlers) SharePost(c *gin.Context) {
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

	postID := post.ID
	if post.IsShare() {
		postID = *post.ParentPostID
	}

	share, err := h.posts.CreateShare(c.Request.Context(), postID, userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrPostNotFound):
			util.RespondNotFound(c, "Post")
		case errors.Is(err, repository.ErrDuplicateShare):
			// Toggle off
			if err := h.posts.DeleteShare(c.Request.Context(), postID, userID); err != nil {
				util.RespondInternalError(c, "Failed to unshare post")
				return
			}
			h.invalidateFeeds(c)
			c.JSON(http.StatusOK, gin.H{"shared": false})
		default:
			util.RespondInternalError(c, "Failed to share post")
		}
		return
	}

	h.dispatcher.PostCreated(share)
	h.invalidateFeeds(c)

	c.JSON(http.StatusCreated, gin.H{"share": share, "shared": true})
}

// UnsharePost removes the caller's share pointer at a post
// DELETE /api/v1/posts/:id/share
func (h *Handlers) UnsharePost(c *gin.Context) {
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

	// Unsharing via either the pointer or the source resolves to the source
	postID := post.ID
	if post.IsShare() {
		postID = *post.ParentPostID
	}

	if err := h.posts.DeleteShare(c.Request.Context(), postID, userID); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			util.RespondNotFound(c, "Share")
			return
		}
		util.RespondInternalError(c, "Failed to unshare post")
		return
	}

	h.invalidateFeeds(c)

	c.JSON(http.StatusOK, gin.H{"shared": false})
}
