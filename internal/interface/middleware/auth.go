package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/feedwire/feedwire/pkg/helpers"
	"github.com/feedwire/feedwire/pkg/response"
)

const (
	CtxUserIDKey    = "userID"
	CtxUserEmailKey = "userEmail"
	CtxIsAuthKey    = "isAuth"
)

// Identify inspects the Authorization header. A missing header lets the
// request continue unauthenticated so downstream handlers can decide; a
// present but malformed, invalid, or expired token is rejected with 401.
// On success the decoded user id and email are attached to the context.
func Identify(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Set(CtxIsAuthKey, false)
			c.Next()
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			response.Abort(c, http.StatusUnauthorized, "invalid authorization header", nil)
			return
		}
		claims, err := jwt.ValidateToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "invalid or expired token", nil)
			return
		}
		c.Set(CtxIsAuthKey, true)
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxUserEmailKey, claims.Email)
		c.Next()
	}
}

// RequireAuth guards routes that demand an identified caller.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(CtxIsAuthKey) {
			response.Abort(c, http.StatusUnauthorized, "not authenticated", nil)
			return
		}
		c.Next()
	}
}
