package server

import (
	"net/http"
	"strings"
	"time"

	users "auction-marketplace/internal/userService"
	handler "auction-marketplace/services/marketplace/handler"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	utils.Info("HTTP Request", map[string]any{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"latency": time.Since(start).String(),
	})
}

// AuthRequired validates the bearer token and stores the principal in the
// request context. Refresh tokens are rejected here.
func AuthRequired(userService *users.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			utils.JSONError(c, http.StatusUnauthorized, "missing or malformed authorization header")
			c.Abort()
			return
		}

		userID, isAdmin, err := userService.ParseToken(token, users.TokenTypeAccess)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(handler.CtxUserID, userID)
		c.Set(handler.CtxIsAdmin, isAdmin)
		c.Next()
	}
}
