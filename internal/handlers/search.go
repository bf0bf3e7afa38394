package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/socio-africa/backend/internal/feed"
	"github.com/socio-africa/backend/internal/util"
)

const searchPageSize = 30

// SearchPosts searches post content
// GET /api/v1/search/posts?q=...
func (h *Handlers) SearchPosts(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		util.RespondValidationError(c, "q", "Search query is required")
		return
	}

	viewerID := util.ViewerID(c)
	page := util.Page(c)

	posts, err := h.posts.SearchPosts(c.Request.Context(), query, searchPageSize, util.PageOffset(page, searchPageSize))
	if err != nil {
		util.RespondInternalError(c, "Search failed")
		return
	}

	views, err := h.assembler.AssemblePosts(c.Request.Context(), posts, viewerID)
	if err != nil {
		util.RespondInternalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": views, "page": page})
}

// SearchUsers searches usernames and names
// GET /api/v1/search/users?q=...
func (h *Handlers) SearchUsers(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		util.RespondValidationError(c, "q", "Search query is required")
		return
	}

	page := util.Page(c)

	users, err := h.users.SearchUsers(c.Request.Context(), query, searchPageSize, util.PageOffset(page, searchPageSize))
	if err != nil {
		util.RespondInternalError(c, "Search failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": publicProfiles(users), "page": page})
}

// SearchComments searches comment content
// GET /api/v1/search/comments?q=...
func (h *Handlers) SearchComments(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		util.RespondValidationError(c, "q", "Search query is required")
		return
	}

	viewerID := util.ViewerID(c)
	page := util.Page(c)

	comments, err := h.comments.SearchComments(c.Request.Context(), query, searchPageSize, util.PageOffset(page, searchPageSize))
	if err != nil {
		util.RespondInternalError(c, "Search failed")
		return
	}

	views := make([]*feed.CommentView, 0, len(comments))
	for i := range comments {
		views = append(views, h.assembler.AssembleComment(c.Request.Context(), &comments[i], viewerID))
	}

	c.JSON(http.StatusOK, gin.H{"comments": views, "page": page})
}

// SearchCommunities searches community names and descriptions
// GET /api/v1/search/communities?q=...
func (h *Handlers) SearchCommunities(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		util.RespondValidationError(c, "q", "Search query is required")
		return
	}

	page := util.Page(c)

	communities, err := h.communities.SearchCommunities(c.Request.Context(), query, searchPageSize, util.PageOffset(page, searchPageSize))
	if err != nil {
		util.RespondInternalError(c, "Search failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"communities": communities, "page": page})
}
