package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/socio-africa/backend/internal/cache"
	"github.com/socio-africa/backend/internal/feed"
	"github.com/socio-africa/backend/internal/logger"
	"github.com/socio-africa/backend/internal/middleware"
	"github.com/socio-africa/backend/internal/models"
	"github.com/socio-africa/backend/internal/repository"
	"github.com/socio-africa/backend/internal/util"
	"go.uber.org/zap"
)

const feedCacheTTL = 30 * time.Second

// GetHomeFeed returns posts matching the viewer's topics, newest first.
// A user with no topics sees everything.
// GET /api/v1/feed
func (h *Handlers) GetHomeFeed(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	page := util.Page(c)
	cacheKey := fmt.Sprintf("feed:home:%s:%d", userID, page)

	if h.redis != nil {
		var cached []*feed.PostView
		if err := h.redis.GetJSON(c.Request.Context(), cacheKey, &cached); err == nil {
			middleware.RecordCacheHit("home_feed")
			c.JSON(http.StatusOK, gin.H{"posts": cached, "page": page})
			return
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			logger.Warn("feed cache read failed", zap.String("key", cacheKey), zap.Error(err))
		}
		middleware.RecordCacheMiss("home_feed")
	}

	user, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		util.RespondInternalError(c)
		return
	}

	posts, err := h.posts.ListByTopics(c.Request.Context(), user.Topics, defaultPageSize, util.PageOffset(page, defaultPageSize))
	if err != nil {
		util.RespondInternalError(c, "Failed to load feed")
		return
	}

	views, err := h.assembler.AssemblePosts(c.Request.Context(), posts, userID)
	if err != nil {
		util.RespondInternalError(c, "Failed to assemble feed")
		return
	}

	if h.redis != nil {
		if err := h.redis.SetJSON(c.Request.Context(), cacheKey, views, feedCacheTTL); err != nil {
			logger.Warn("feed cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"posts": views, "page": page})
}

// GetUserPosts returns a user's posts and shares
// GET /api/v1/users/:id/posts
func (h *Handlers) GetUserPosts(c *gin.Context) {
	targetID := c.Param("id")
	viewerID := util.ViewerID(c)
	page := util.Page(c)

	if _, err := h.users.GetUser(c.Request.Context(), targetID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			util.RespondNotFound(c, "User")
			return
		}
		util.RespondInternalError(c)
		return
	}

	posts, err := h.posts.ListByUser(c.Request.Context(), targetID, defaultPageSize, util.PageOffset(page, defaultPageSize))
	if err != nil {
		util.RespondInternalError(c)
		return
	}

	views, err := h.assembler.AssemblePosts(c.Request.Context(), posts, viewerID)
	if err != nil {
		util.RespondInternalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": views, "page": page})
}

// GetCommunityPosts returns a community's feed
// GET /api/v1/communities/:id/posts
func (h *Handlers) GetCommunityPosts(c *gin.Context) {
	communityID := c.Param("id")
	viewerID := util.ViewerID(c)
	page := util.Page(c)

	if _, err := h.communities.GetCommunity(c.Request.Context(), communityID); err != nil {
		if errors.Is(err, repository.ErrCommunityNotFound) {
			util.RespondNotFound(c, "Community")
			return
		}
		util.RespondInternalError(c)
		return
	}

	posts, err := h.posts.ListByCommunity(c.Request.Context(), communityID, defaultPageSize, util.PageOffset(page, defaultPageSize))
	if err != nil {
		util.RespondInternalError(c)
		return
	}

	views, err := h.assembler.AssemblePosts(c.Request.Context(), posts, viewerID)
	if err != nil {
		util.RespondInternalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": views, "page": page})
}

// GetUserLikedPosts returns posts the user liked
// GET /api/v1/users/:id/likes
func (h *Handlers) GetUserLikedPosts(c *gin.Context) {
	h.listReactedPosts(c, models.ReactionLike)
}

// GetUserDislikedPosts returns posts the user disliked
// GET /api/v1/users/:id/dislikes
func (h *Handlers) GetUserDislikedPosts(c *gin.Context) {
	h.listReactedPosts(c, models.ReactionDislike)
}

func (h *Handlers) listReactedPosts(c *gin.Context, kind models.ReactionKind) {
	targetID := c.Param("id")
	viewerID := util.ViewerID(c)
	page := util.Page(c)

	if _, err := h.users.GetUser(c.Request.Context(), targetID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			util.RespondNotFound(c, "User")
			return
		}
		util.RespondInternalError(c)
		return
	}

	posts, err := h.posts.ListReactedBy(c.Request.Context(), targetID, kind, defaultPageSize, util.PageOffset(page, defaultPageSize))
	if err != nil {
		util.RespondInternalError(c)
		return
	}

	views, err := h.assembler.AssemblePosts(c.Request.Context(), posts, viewerID)
	if err != nil {
		util.RespondInternalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": views, "page": page})
}

// GetBookmarkedPosts returns the caller's bookmarked posts, most recently
// bookmarked first
// GET /api/v1/me/bookmarks
func (h *Handlers) GetBookmarkedPosts(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	page := util.Page(c)

	posts, err := h.posts.ListBookmarkedBy(c.Request.Context(), userID, defaultPageSize, util.PageOffset(page, defaultPageSize))
	if err != nil {
		util.RespondInternalError(c)
		return
	}

	views, err := h.assembler.AssemblePosts(c.Request.Context(), posts, userID)
	if err != nil {
		util.RespondInternalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": views, "page": page})
}

// GetBookmarkedComments returns the caller's bookmarked comments, most
// recently bookmarked first
// GET /api/v1/me/bookmarks/comments
func (h *Handlers) GetBookmarkedComments(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	page := util.Page(c)

	comments, err := h.comments.ListBookmarkedBy(c.Request.Context(), userID, defaultPageSize, util.PageOffset(page, defaultPageSize))
	if err != nil {
		util.RespondInternalError(c)
		return
	}

	views := make([]*feed.CommentView, 0, len(comments))
	for i := range comments {
		views = append(views, h.assembler.AssembleComment(c.Request.Context(), &comments[i], userID))
	}

	c.JSON(http.StatusOK, gin.H{"comments": views, "page": page})
}

// GetMyCommunities lists communities the caller belongs to
// GET /api/v1/me/communities
func (h *Handlers) GetMyCommunities(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	communities, err := h.communities.ListForUser(c.Request.Context(), userID)
	if err != nil {
		util.RespondInternalError(c)
		return
	}
	if communities == nil {
		communities = []models.Community{}
	}

	c.JSON(http.StatusOK, gin.H{"communities": communities})
}

// invalidateFeeds drops cached feed pages after a write that changes what
// feeds contain
func (h *Handlers) invalidateFeeds(c *gin.Context) {
	if h.redis == nil {
		return
	}
	if err := h.redis.DelPattern(c.Request.Context(), "feed:home:*"); err != nil {
		logger.Warn("feed cache invalidation failed", zap.Error(err))
	}
}
