package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socio-africa/backend/internal/logger"
	"github.com/socio-africa/backend/internal/repository"
	"github.com/socio-africa/backend/internal/util"
	"go.uber.org/zap"
)

// GetProfile returns a user's public profile with follow counts
// GET /api/v1/users/:id
func (h *Handlers) GetProfile(c *gin.Context) {
	targetID := c.Param("id")
	viewerID := util.ViewerID(c)

	user, err := h.users.GetUser(c.Request.Context(), targetID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			util.RespondNotFound(c, "User")
			return
		}
		util.RespondInternalError(c)
		return
	}

	followers, err := h.follows.GetFollowerCount(c.Request.Context(), targetID)
	if err != nil {
		logger.Warn("follower count failed", logger.WithUserID(targetID), zap.Error(err))
	}
	following, err := h.follows.GetFollowingCount(c.Request.Context(), targetID)
	if err != nil {
		logger.Warn("following count failed", logger.WithUserID(targetID), zap.Error(err))
	}

	isFollowing := false
	if viewerID != "" && viewerID != targetID {
		isFollowing, err = h.follows.IsFollowing(c.Request.Context(), viewerID, targetID)
		if err != nil {
			logger.Warn("follow lookup failed", logger.WithUserID(viewerID), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"user":            user.Public(),
		"followers_count": followers,
		"following_count": following,
		"is_following":    isFollowing,
	})
}

// UpdateProfileRequest is the body for PATCH /api/v1/me
type UpdateProfileRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	PhoneNumber *string `json:"phone_number"`
	Gender      *string `json:"gender"`
	Bio         *string `json:"bio"`
}

// UpdateProfile edits the caller's profile fields
// PATCH /api/v1/me
func (h *Handlers) UpdateProfile(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "Invalid request body")
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		util.RespondInternalError(c)
		return
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}

	if err := h.users.UpdateUser(c.Request.Context(), user); err != nil {
		util.RespondInternalError(c, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UploadProfileImage uploads a profile or cover image to S3
// POST /api/v1/me/image
func (h *Handlers) UploadProfileImage(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	if h.uploader == nil {
		util.RespondInternalError(c, "Image uploads are not configured")
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		util.RespondValidationError(c, "image", "Image file is required")
		return
	}
	defer file.Close()

	kind := c.DefaultQuery("kind", "profile")
	if kind != "profile" && kind != "cover" {
		util.RespondValidationError(c, "kind", "Kind must be 'profile' or 'cover'")
		return
	}

	result, err := h.uploader.UploadImage(c.Request.Context(), file, header, "avatars", userID)
	if err != nil {
		logger.Error("profile image upload failed", logger.WithUserID(userID), zap.Error(err))
		util.RespondInternalError(c, "Failed to upload image")
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		util.RespondInternalError(c)
		return
	}

	if kind == "cover" {
		user.CoverImage = result.URL
	} else {
		user.Image = result.URL
	}

	if err := h.users.UpdateUser(c.Request.Context(), user); err != nil {
		util.RespondInternalError(c, "Failed to save image")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": result.URL, "user": user})
}

// UpdateTopicsRequest is the body for PUT /api/v1/me/topics
type UpdateTopicsRequest struct {
	Topics []string `json:"topics"`
}

// UpdateMyTopics replaces the caller's topic interests. Each topic is
// registered in the global topic list.
// PUT /api/v1/me/topics
func (h *Handlers) UpdateMyTopics(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req UpdateTopicsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "Invalid request body")
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		util.RespondInternalError(c)
		return
	}

	user.Topics = req.Topics
	if err := h.users.UpdateUser(c.Request.Context(), user); err != nil {
		util.RespondInternalError(c, "Failed to update topics")
		return
	}

	for _, topic := range req.Topics {
		if _, err := h.topics.EnsureTopic(c.Request.Context(), topic, util.Slugify(topic)); err != nil {
			logger.Warn("topic upsert failed", zap.String("topic", topic), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"topics": user.Topics})
}
