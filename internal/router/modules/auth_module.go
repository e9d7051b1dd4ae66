package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/feedwire/feedwire/internal/container"
	handlers "github.com/feedwire/feedwire/internal/interface/http"
	"github.com/feedwire/feedwire/internal/interface/middleware"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits
	signupLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)

	rg.PUT("/auth/signup", signupLimiter, m.Handler.Signup)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)

	auth := rg.Group("/")
	auth.Use(middleware.RequireAuth())
	{
		auth.GET("/auth/status", m.Handler.GetStatus)
		auth.PATCH("/auth/status", m.Handler.UpdateStatus)
	}
}
