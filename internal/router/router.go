package router

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/waylo/waylo-api/internal/handlers"
	"github.com/waylo/waylo-api/internal/middleware"
	"github.com/waylo/waylo-api/internal/services"
)

// Deps carries everything route registration needs. Cache may be nil when
// Redis is not configured.
type Deps struct {
	Auth        *services.AuthService
	Health      *handlers.HealthHandler
	AuthHandler *handlers.AuthHandler
	Users       *handlers.UserHandler
	Friends     *handlers.FriendHandler
	Albums      *handlers.AlbumHandler
	Feeds       *handlers.FeedHandler
	Chats       *handlers.ChatHandler
	RateLimiter *middleware.RateLimiter
	Cache       *redis.Client
	CacheTTL    time.Duration

	// UploadMaxSize caps request bodies, in bytes. Zero means no cap.
	UploadMaxSize int64
}

// Register wires all routes. Read-only discovery endpoints stay public;
// everything that acts on behalf of an account sits behind token auth.
func Register(e *echo.Echo, d Deps) {
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	if d.UploadMaxSize > 0 {
		e.Use(echomw.BodyLimit(strconv.FormatInt(d.UploadMaxSize, 10)))
	}

	e.GET("/healthz", d.Health.Check)

	api := e.Group("/api/v1")

	api.POST("/auth/register", d.AuthHandler.Register)
	api.POST("/auth/login", d.AuthHandler.Login)

	cached := middleware.CacheResponse(d.Cache, d.CacheTTL)
	optional := middleware.OptionalTokenAuth(d.Auth)
	api.GET("/feeds", d.Feeds.ListPublic, cached)
	api.GET("/feeds/nearby", d.Feeds.ListNearby, cached)
	api.GET("/feeds/:id", d.Feeds.GetFeed, optional)
	api.GET("/feeds/:id/comments", d.Feeds.ListComments)

	api.GET("/users/:id", d.Users.GetProfile, optional)
	api.GET("/users/:id/feeds", d.Feeds.ListUserFeeds, optional)
	api.GET("/users/:id/friends", d.Friends.ListUserFriends)
	api.GET("/users/:id/album", d.Albums.GetAlbum)
	api.GET("/users/:id/album/widgets", d.Albums.ListWidgets)

	auth := api.Group("", middleware.TokenAuth(d.Auth), middleware.RateLimit(d.RateLimiter))

	auth.GET("/me", d.Users.Me)
	auth.PATCH("/users/:id", d.Users.UpdateProfile)

	auth.PATCH("/users/:id/album", d.Albums.UpdateAlbum)
	auth.POST("/users/:id/album/widgets", d.Albums.CreateWidget)
	auth.PATCH("/users/:id/album/widgets/:widgetId", d.Albums.UpdateWidget)
	auth.DELETE("/users/:id/album/widgets/:widgetId", d.Albums.DeleteWidget)

	auth.POST("/friends/requests", d.Friends.SendRequest)
	auth.GET("/friends/requests/incoming", d.Friends.ListIncoming)
	auth.GET("/friends/requests/outgoing", d.Friends.ListOutgoing)
	auth.POST("/friends/requests/:id/accept", d.Friends.AcceptRequest)
	auth.POST("/friends/requests/:id/reject", d.Friends.RejectRequest)
	auth.GET("/friends", d.Friends.ListFriends)

	auth.POST("/feeds", d.Feeds.CreateFeed)
	auth.PATCH("/feeds/:id", d.Feeds.UpdateFeed)
	auth.DELETE("/feeds/:id", d.Feeds.DeleteFeed)
	auth.POST("/feeds/:id/like", d.Feeds.ToggleLike)
	auth.POST("/feeds/:id/bookmark", d.Feeds.ToggleBookmark)
	auth.POST("/feeds/:id/comments", d.Feeds.AddComment)
	auth.DELETE("/feeds/:id/comments/:commentId", d.Feeds.DeleteComment)
	auth.POST("/comments/:commentId/like", d.Feeds.ToggleCommentLike)

	auth.GET("/chats", d.Chats.ListRooms)
	auth.POST("/chats", d.Chats.OpenRoom)
	auth.GET("/chats/:id/messages", d.Chats.ListMessages)
	auth.POST("/chats/:id/messages", d.Chats.SendMessage)
}
