package middleware

import (
	"context"
	"net/http"
	"strings"

	"direct-chat/internal/services"
	"direct-chat/internal/transport/httpdto"
	"direct-chat/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AuthCookie is the cookie browsers send the access token in when they
// don't set an Authorization header.
const AuthCookie = "jwt"

func AuthMiddleware(service *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := service.ParseAccessToken(extractToken(c))
		if err != nil {
			c.JSON(http.StatusUnauthorized, httpdto.NewStatusErrorResponse(http.StatusUnauthorized))
			c.Abort()
			return
		}

		ctx := services.WithUserContext(c.Request.Context(), userID)
		ctx = context.WithValue(ctx, logger.UserIdKey, userID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if token := extractBearer(c); token != "" {
		return token
	}
	token, err := c.Cookie(AuthCookie)
	if err != nil {
		return ""
	}
	return token
}

func extractBearer(c *gin.Context) string {
	value := c.GetHeader("Authorization")
	parts := strings.SplitN(value, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
