package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/socio-africa/backend/internal/auth"
	"github.com/socio-africa/backend/internal/cache"
	"github.com/socio-africa/backend/internal/feed"
	"github.com/socio-africa/backend/internal/notify"
	"github.com/socio-africa/backend/internal/repository"
	"github.com/socio-africa/backend/internal/storage"
	"gorm.io/gorm"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	users         repository.UserRepository
	posts         repository.PostRepository
	comments      repository.CommentRepository
	bookmarks     repository.BookmarkRepository
	follows       repository.FollowRepository
	communities   repository.CommunityRepository
	topics        repository.TopicRepository
	notifications repository.NotificationRepository

	assembler  *feed.Assembler
	dispatcher *notify.Dispatcher
	authSvc    *auth.Service

	uploader storage.ImageUploader
	redis    *cache.RedisClient
}

// NewHandlers wires the full handler set over one gorm connection
func NewHandlers(db *gorm.DB, authSvc *auth.Service, dispatcher *notify.Dispatcher) *Handlers {
	users := repository.NewUserRepository(db)
	posts := repository.NewPostRepository(db)
	comments := repository.NewCommentRepository(db)
	bookmarks := repository.NewBookmarkRepository(db)

	return &Handlers{
		users:         users,
		posts:         posts,
		comments:      comments,
		bookmarks:     bookmarks,
		follows:       repository.NewFollowRepository(db),
		communities:   repository.NewCommunityRepository(db),
		topics:        repository.NewTopicRepository(db),
		notifications: repository.NewNotificationRepository(db),
		assembler:     feed.NewAssembler(posts, comments, bookmarks),
		dispatcher:    dispatcher,
		authSvc:       authSvc,
	}
}

// SetUploader sets the image uploader for profile and post media
func (h *Handlers) SetUploader(uploader storage.ImageUploader) {
	h.uploader = uploader
}

// SetRedisClient enables feed-page caching
func (h *Handlers) SetRedisClient(redis *cache.RedisClient) {
	h.redis = redis
}

// RegisterRoutes mounts the API surface on the router
func (h *Handlers) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")

	// Standalone auth (used when no platform auth service is configured)
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)

	public := api.Group("")
	public.Use(auth.OptionalAuth(h.authSvc))
	{
		public.GET("/posts/:id", h.GetPost)
		public.GET("/posts/:id/comments", h.GetComments)
		public.GET("/comments/:id", h.GetComment)
		public.GET("/users/:id", h.GetProfile)
		public.GET("/users/:id/posts", h.GetUserPosts)
		public.GET("/users/:id/likes", h.GetUserLikedPosts)
		public.GET("/users/:id/dislikes", h.GetUserDislikedPosts)
		public.GET("/users/:id/followers", h.GetFollowers)
		public.GET("/users/:id/following", h.GetFollowing)
		public.GET("/communities", h.ListCommunities)
		public.GET("/communities/:id", h.GetCommunity)
		public.GET("/communities/:id/posts", h.GetCommunityPosts)
		public.GET("/communities/:id/members", h.GetCommunityMembers)
		public.GET("/topics", h.ListTopics)
		public.GET("/search/posts", h.SearchPosts)
		public.GET("/search/users", h.SearchUsers)
		public.GET("/search/comments", h.SearchComments)
		public.GET("/search/communities", h.SearchCommunities)
	}

	private := api.Group("")
	private.Use(auth.RequireAuth(h.authSvc))
	{
		private.GET("/me", h.GetMe)
		private.PATCH("/me", h.UpdateProfile)
		private.POST("/me/image", h.UploadProfileImage)
		private.PUT("/me/topics", h.UpdateMyTopics)
		private.GET("/me/bookmarks", h.GetBookmarkedPosts)
		private.GET("/me/bookmarks/comments", h.GetBookmarkedComments)
		private.GET("/me/communities", h.GetMyCommunities)

		private.GET("/feed", h.GetHomeFeed)

		private.POST("/posts", h.CreatePost)
		private.PATCH("/posts/:id", h.UpdatePost)
		private.DELETE("/posts/:id", h.DeletePost)
		private.POST("/posts/:id/reaction", h.TogglePostReaction)
		private.POST("/posts/:id/bookmark", h.TogglePostBookmark)
		private.POST("/posts/:id/share", h.SharePost)
		private.DELETE("/posts/:id/share", h.UnsharePost)

		private.POST("/posts/:id/comments", h.CreateComment)
		private.PATCH("/comments/:id", h.UpdateComment)
		private.DELETE("/comments/:id", h.DeleteComment)
		private.POST("/comments/:id/reaction", h.ToggleCommentReaction)
		private.POST("/comments/:id/bookmark", h.ToggleCommentBookmark)

		private.POST("/users/:id/follow", h.FollowUser)
		private.DELETE("/users/:id/follow", h.UnfollowUser)

		private.POST("/communities", h.CreateCommunity)
		private.PATCH("/communities/:id", h.UpdateCommunity)
		private.DELETE("/communities/:id", h.DeleteCommunity)
		private.POST("/communities/:id/join", h.JoinCommunity)
		private.DELETE("/communities/:id/leave", h.LeaveCommunity)
		private.PATCH("/communities/:id/members/:userId/role", h.UpdateMemberRole)

		private.GET("/notifications", h.GetNotifications)
		private.GET("/notifications/unread-count", h.GetUnreadCount)
		private.PATCH("/notifications/:id/read", h.MarkNotificationRead)
		private.PATCH("/notifications/read-all", h.MarkAllNotificationsRead)
		private.DELETE("/notifications/:id", h.DeleteNotification)
	}
}
