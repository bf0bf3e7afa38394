package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socio-africa/backend/internal/feed"
	"github.com/socio-africa/backend/internal/logger"
	"github.com/socio-africa/backend/internal/models"
	"github.com/socio-africa/backend/internal/repository"
	"github.com/socio-africa/backend/internal/util"
	"go.uber.org/zap"
)

const defaultPageSize = 10

// CreatePostRequest is the body for POST /api/v1/posts
type CreatePostRequest struct {
	Content    string             `json:"content"`
	FileURLs   []string           `json:"file_urls"`
	Topic      string             `json:"topic"`
	Visibility *models.Visibility `json:"visibility"`
}

// CreatePost creates a new post
// POST /api/v1/posts
func (h *Handlers) CreatePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "Invalid request body")
		return
	}

	if req.Content == "" && len(req.FileURLs) == 0 {
		util.RespondValidationError(c, "content", "Post needs content or at least one file")
		return
	}

	post := &models.Post{
		UserID:   userID,
		Content:  req.Content,
		FileURLs: req.FileURLs,
		Topic:    req.Topic,
	}
	if req.Visibility != nil {
		post.Visibility = *req.Visibility
	}

	// Posting into a community requires membership
	if post.Visibility.Mode == models.VisibilityCommunity {
		if post.Visibility.CommunityID == "" {
			util.RespondValidationError(c, "visibility.community_id", "Community ID is required for community posts")
			return
		}
		if _, err := h.communities.GetMember(c.Request.Context(), post.Visibility.CommunityID, userID); err != nil {
			if errors.Is(err, repository.ErrMemberNotFound) {
				util.RespondForbidden(c, "You are not a member of this community")
				return
			}
			util.RespondInternalError(c)
			return
		}
	}

	if post.Topic != "" {
		if _, err := h.topics.EnsureTopic(c.Request.Context(), post.Topic, util.Slugify(post.Topic)); err != nil {
			logger.Warn("topic upsert failed", zap.String("topic", post.Topic), zap.Error(err))
		}
	}

	if err := h.posts.CreatePost(c.Request.Context(), post); err != nil {
		util.RespondInternalError(c, "Failed to create post")
		return
	}

	h.dispatcher.PostCreated(post)
	h.invalidateFeeds(c)

	created, err := h.posts.GetPost(c.Request.Context(), post.ID)
	if err != nil {
		util.RespondInternalError(c)
		return
	}

	view, err := h.assembler.AssemblePost(c.Request.Context(), created, userID, false)
	if err != nil {
		util.RespondInternalError(c)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"post": view})
}

// GetPost returns one post with its comment tree
// GET /api/v1/posts/:id
func (h *Handlers) GetPost(c *gin.Context) {
	postID := c.Param("id")
	viewerID := util.ViewerID(c)

	post, err := h.posts.GetPost(c.Request.Context(), postID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			util.RespondNotFound(c, "Post")
			return
		}
		util.RespondInternalError(c)
		return
	}

	view, err := h.assembler.AssemblePost(c.Request.Context(), post, viewerID, true)
	if err != nil {
		// A share whose source is gone reads as missing
		if errors.Is(err, feed.ErrSourceMissing) {
			util.RespondNotFound(c, "Post")
			return
		}
		util.RespondInternalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": view})
}

// UpdatePostRequest is the body for PATCH /api/v1/posts/:id
type UpdatePostRequest struct {
	Content    *string            `json:"content"`
	FileURLs   []string           `json:"file_urls"`
	Topic      *string            `json:"topic"`
	Visibility *models.Visibility `json:"visibility"`
}

// UpdatePost edits the caller's own post
// PATCH /api/v1/posts/:id
func (h *Handlers) UpdatePost(c *gin.Context) {
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

	if post.UserID != userID {
		util.RespondForbidden(c, "You can only edit your own posts")
		return
	}
	if post.IsShare() {
		util.RespondBadRequest(c, "Shares carry no content to edit")
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "Invalid request body")
		return
	}

	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.FileURLs != nil {
		post.FileURLs = req.FileURLs
	}
	if req.Topic != nil {
		post.Topic = *req.Topic
		if post.Topic != "" {
			if _, err := h.topics.EnsureTopic(c.Request.Context(), post.Topic, util.Slugify(post.Topic)); err != nil {
				logger.Warn("topic upsert failed", zap.String("topic", post.Topic), zap.Error(err))
			}
		}
	}
	if req.Visibility != nil {
		post.Visibility = *req.Visibility
	}

	if err := h.posts.UpdatePost(c.Request.Context(), post); err != nil {
		util.RespondInternalError(c, "Failed to update post")
		return
	}

	h.invalidateFeeds(c)

	view, err := h.assembler.AssemblePost(c.Request.Context(), post, userID, false)
	if err != nil {
		util.RespondInternalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": view})
}

// DeletePost removes the caller's own post. Share pointers at it become
// dangling and disappear from feeds.
// DELETE /api/v1/posts/:id
func (h *Handlers) DeletePost(c *gin.Context) {
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

	if post.UserID != userID {
		util.RespondForbidden(c, "You can only delete your own posts")
		return
	}

	if err := h.posts.DeletePost(c.Request.Context(), post.ID); err != nil {
		util.RespondInternalError(c, "Failed to delete post")
		return
	}

	h.invalidateFeeds(c)

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}
