package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socio-africa/backend/internal/logger"
	"github.com/socio-africa/backend/internal/models"
	"github.com/socio-africa/backend/internal/repository"
	"github.com/socio-africa/backend/internal/util"
	"go.uber.org/zap"
)

// CreateCommunityRequest is the body for POST /api/v1/communities
type CreateCommunityRequest struct {
	Name        string                     `json:"name" binding:"required,min=3,max=60"`
	Description string                     `json:"description"`
	Visibility  models.CommunityVisibility `json:"visibility"`
	Topics      []string                   `json:"topics"`
	Image       string                     `json:"image"`
	CoverImage  string                     `json:"cover_image"`
}

// CreateCommunity creates a community with the caller as super admin
// POST /api/v1/communities
func (h *Handlers) CreateCommunity(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req CreateCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "Invalid community details")
		return
	}

	community := &models.Community{
		Name:        req.Name,
		Description: req.Description,
		Visibility:  req.Visibility,
		CreatedBy:   userID,
		Topics:      req.Topics,
		Image:       req.Image,
		CoverImage:  req.CoverImage,
	}

	if err := h.communities.CreateCommunity(c.Request.Context(), community); err != nil {
		util.RespondInternalError(c, "Failed to create community")
		return
	}

	for _, topic := range req.Topics {
		if _, err := h.topics.EnsureTopic(c.Request.Context(), topic, util.Slugify(topic)); err != nil {
			logger.Warn("topic upsert failed", zap.String("topic", topic), zap.Error(err))
		}
	}

	c.JSON(http.StatusCreated, gin.H{"community": community})
}

// GetCommunity returns one community with its member count
// GET /api/v1/communities/:id
func (h *Handlers) GetCommunity(c *gin.Context) {
	communityID := c.Param("id")
	viewerID := util.ViewerID(c)

	community, err := h.communities.GetCommunity(c.Request.Context(), communityID)
	if err != nil {
		if errors.Is(err, repository.ErrCommunityNotFound) {
			util.RespondNotFound(c, "Community")
			return
		}
		util.RespondInternalError(c)
		return
	}

	memberIDs, err := h.communities.GetMemberIDs(c.Request.Context(), communityID)
	if err != nil {
		logger.Warn("member count failed", zap.String("community_id", communityID), zap.Error(err))
	}

	isMember := false
	var role models.MemberRole
	if viewerID != "" {
		if member, err := h.communities.GetMember(c.Request.Context(), communityID, viewerID); err == nil {
			isMember = true
			role = member.Role
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"community":     community,
		"members_count": len(memberIDs),
		"is_member":     isMember,
		"role":          role,
	})
}

// ListCommunities lists communities
// GET /api/v1/communities
func (h *Handlers) ListCommunities(c *gin.Context) {
	page := util.Page(c)

	communities, err := h.communities.ListCommunities(c.Request.Context(), defaultPageSize, util.PageOffset(page, defaultPageSize))
	if err != nil {
		util.RespondInternalError(c)
		return
	}
	if communities == nil {
		communities = []models.Community{}
	}

	c.JSON(http.StatusOK, gin.H{"communities": communities, "page": page})
}

// UpdateCommunityRequest is the body for PATCH /api/v1/communities/:id
type UpdateCommunityRequest struct {
	Name        *string                     `json:"name"`
	Description *string                     `json:"description"`
	Visibility  *models.CommunityVisibility `json:"visibility"`
	Topics      []string                    `json:"topics"`
	Image       *string                     `json:"image"`
	CoverImage  *string                     `json:"cover_image"`
}

// UpdateCommunity edits a community. Admins and the super admin may edit.
// PATCH /api/v1/communities/:id
func (h *Handlers) UpdateCommunity(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	communityID := c.Param("id")
	if !h.requireCommunityAdmin(c, communityID, userID) {
		return
	}

	community, err := h.communities.GetCommunity(c.Request.Context(), communityID)
	if err != nil {
		if errors.Is(err, repository.ErrCommunityNotFound) {
			util.RespondNotFound(c, "Community")
			return
		}
		util.RespondInternalError(c)
		return
	}

	var req UpdateCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "Invalid request body")
		return
	}

	if req.Name != nil {
		community.Name = *req.Name
	}
	if req.Description != nil {
		community.Description = *req.Description
	}
	if req.Visibility != nil {
		community.Visibility = *req.Visibility
	}
	if req.Topics != nil {
		community.Topics = req.Topics
	}
	if req.Image != nil {
		community.Image = *req.Image
	}
	if req.CoverImage != nil {
		community.CoverImage = *req.CoverImage
	}

	if err := h.communities.UpdateCommunity(c.Request.Context(), community); err != nil {
		util.RespondInternalError(c, "Failed to update community")
		return
	}

	c.JSON(http.StatusOK, gin.H{"community": community})
}

// DeleteCommunity removes a community. Only the super admin may delete.
// DELETE /api/v1/communities/:id
func (h *Handlers) DeleteCommunity(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	communityID := c.Param("id")

	member, err := h.communities.GetMember(c.Request.Context(), communityID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			util.RespondForbidden(c, "Only the community owner can delete it")
			return
		}
		util.RespondInternalError(c)
		return
	}
	if member.Role != models.RoleSuperAdmin {
		util.RespondForbidden(c, "Only the community owner can delete it")
		return
	}

	if err := h.communities.DeleteCommunity(c.Request.Context(), communityID); err != nil {
		util.RespondInternalError(c, "Failed to delete community")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Community deleted"})
}

// JoinCommunity adds the caller as a member
// POST /api/v1/communities/:id/join
func (h *Handlers) JoinCommunity(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	communityID := c.Param("id")

	community, err := h.communities.GetCommunity(c.Request.Context(), communityID)
	if err != nil {
		if errors.Is(err, repository.ErrCommunityNotFound) {
			util.RespondNotFound(c, "Community")
			return
		}
		util.RespondInternalError(c)
		return
	}

	// Manual-approval communities only admit members through an admin
	if community.Visibility == models.CommunityManual {
		util.RespondForbidden(c, "This community requires an invitation")
		return
	}

	if err := h.communities.AddMember(c.Request.Context(), communityID, userID, models.RoleMember); err != nil {
		if errors.Is(err, repository.ErrDuplicateMember) {
			util.RespondConflict(c, "Membership")
			return
		}
		util.RespondInternalError(c, "Failed to join community")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"joined": true})
}

// LeaveCommunity removes the caller's membership. The super admin cannot
// leave their own community.
// DELETE /api/v1/communities/:id/leave
func (h *Handlers) LeaveCommunity(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	err := h.communities.RemoveMember(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrMemberNotFound):
			util.RespondNotFound(c, "Membership")
		case errors.Is(err, repository.ErrSuperAdminLeave):
			util.RespondForbidden(c, "The community owner cannot leave; delete the community instead")
		default:
			util.RespondInternalError(c, "Failed to leave community")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"joined": false})
}

// GetCommunityMembers lists a community's members
// GET /api/v1/communities/:id/members
func (h *Handlers) GetCommunityMembers(c *gin.Context) {
	page := util.Page(c)

	members, err := h.communities.ListMembers(c.Request.Context(), c.Param("id"), defaultPageSize, util.PageOffset(page, defaultPageSize))
	if err != nil {
		util.RespondInternalError(c)
		return
	}

	out := make([]gin.H, 0, len(members))
	for i := range members {
		out = append(out, gin.H{
			"user":      members[i].User.Public(),
			"role":      members[i].Role,
			"joined_at": members[i].CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"members": out, "page": page})
}

// UpdateMemberRoleRequest is the body for role changes
type UpdateMemberRoleRequest struct {
	Role models.MemberRole `json:"role" binding:"required"`
}

// UpdateMemberRole promotes or demotes a member. Only admins may change
// roles, and nobody can grant or revoke super_admin.
// PATCH /api/v1/communities/:id/members/:userId/role
func (h *Handlers) UpdateMemberRole(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	communityID := c.Param("id")
	targetID := c.Param("userId")

	var req UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil || (req.Role != models.RoleMember && req.Role != models.RoleAdmin) {
		util.RespondValidationError(c, "role", "Role must be 'member' or 'admin'")
		return
	}

	if !h.requireCommunityAdmin(c, communityID, userID) {
		return
	}

	target, err := h.communities.GetMember(c.Request.Context(), communityID, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			util.RespondNotFound(c, "Member")
			return
		}
		util.RespondInternalError(c)
		return
	}
	if target.Role == models.RoleSuperAdmin {
		util.RespondForbidden(c, "The community owner's role cannot change")
		return
	}

	if err := h.communities.UpdateMemberRole(c.Request.Context(), communityID, targetID, req.Role); err != nil {
		util.RespondInternalError(c, "Failed to update role")
		return
	}

	c.JSON(http.StatusOK, gin.H{"role": req.Role})
}

// requireCommunityAdmin responds and returns false unless the user is an
// admin or super admin of the community
func (h *Handlers) requireCommunityAdmin(c *gin.Context, communityID, userID string) bool {
	member, err := h.communities.GetMember(c.Request.Context(), communityID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			util.RespondForbidden(c, "Community admin access required")
			return false
		}
		util.RespondInternalError(c)
		return false
	}

	if member.Role != models.RoleAdmin && member.Role != models.RoleSuperAdmin {
		util.RespondForbidden(c, "Community admin access required")
		return false
	}

	return true
}
