package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/feedwire/feedwire/internal/container"
	handlers "github.com/feedwire/feedwire/internal/interface/http"
	"github.com/feedwire/feedwire/internal/interface/middleware"
)

// FeedModule wires the feed REST endpoints. Every route demands an
// identified caller.
type FeedModule struct {
	Handler *handlers.FeedHandler
}

func NewFeedModule(h *handlers.FeedHandler) *FeedModule {
	return &FeedModule{Handler: h}
}

func (m *FeedModule) Register(rg *gin.RouterGroup) {
	feed := rg.Group("/feed")
	feed.Use(middleware.RequireAuth())
	feed.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		feed.GET("/posts", m.Handler.GetPosts)
		feed.POST("/post", m.Handler.CreatePost)
		feed.GET("/post/:postId", m.Handler.GetPost)
		feed.PUT("/post/:postId", m.Handler.UpdatePost)
		feed.DELETE("/post/:postId", m.Handler.DeletePost)
		feed.GET("/search", m.Handler.Search)
	}
}
