package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socio-africa/backend/internal/models"
	"github.com/socio-africa/backend/internal/repository"
	"github.com/socio-africa/backend/internal/util"
)

// FollowUser makes the caller follow another user
// POST /api/v1/users/:id/follow
func (h *Handlers) FollowUser(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	targetID := c.Param("id")
	if targetID == userID {
		util.RespondBadRequest(c, "You cannot follow yourself")
		return
	}

	if _, err := h.users.GetUser(c.Request.Context(), targetID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			util.RespondNotFound(c, "User")
			return
		}
		util.RespondInternalError(c)
		return
	}

	if err := h.follows.CreateFollow(c.Request.Context(), userID, targetID); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateFollow):
			util.RespondConflict(c, "Follow")
		case errors.Is(err, repository.ErrInvalidInput):
			util.RespondBadRequest(c, "Invalid follow target")
		default:
			util.RespondInternalError(c, "Failed to follow user")
		}
		return
	}

	h.dispatcher.FollowCreated(userID, targetID)

	c.JSON(http.StatusCreated, gin.H{"following": true})
}

// UnfollowUser removes the caller's follow edge
// DELETE /api/v1/users/:id/follow
func (h *Handlers) UnfollowUser(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	if err := h.follows.DeleteFollow(c.Request.Context(), userID, c.Param("id")); err != nil {
		util.RespondInternalError(c, "Failed to unfollow user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"following": false})
}

// GetFollowers lists a user's followers
// GET /api/v1/users/:id/followers
func (h *Handlers) GetFollowers(c *gin.Context) {
	page := util.Page(c)

	users, err := h.follows.GetFollowers(c.Request.Context(), c.Param("id"), defaultPageSize, util.PageOffset(page, defaultPageSize))
	if err != nil {
		util.RespondInternalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": publicProfiles(users), "page": page})
}

// GetFollowing lists the users someone follows
// GET /api/v1/users/:id/following
func (h *Handlers) GetFollowing(c *gin.Context) {
	page := util.Page(c)

	users, err := h.follows.GetFollowing(c.Request.Context(), c.Param("id"), defaultPageSize, util.PageOffset(page, defaultPageSize))
	if err != nil {
		util.RespondInternalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": publicProfiles(users), "page": page})
}

func publicProfiles(users []*models.User) []*models.PublicProfile {
	out := make([]*models.PublicProfile, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out
}
