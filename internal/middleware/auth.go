package middleware

import (
	"errors"
	"net/http"
	"strings"

	"user-auth-service/internal/logger"
	appErrors "user-auth-service/pkg/errors"
	"user-auth-service/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "userID"

type ResetTokenParser interface {
	ParseResetToken(token string) (*utils.Claims, error)
}

// ResetTokenMiddleware authenticates the caller with a password reset token
// sent as a Bearer credential.
func ResetTokenMiddleware(parser ResetTokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := parser.ParseResetToken(parts[1])
		if err != nil {
			logger.WithRequestID(GetRequestID(c)).Warn("Reset token rejected",
				zap.Bool("expired", errors.Is(err, appErrors.ErrTokenExpired)),
				zap.String("event", "reset_token_rejected"),
			)
			utils.ErrorResponse(c, appErrors.ErrInvalidToken.Status, appErrors.ErrInvalidToken.Message)
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)

		c.Next()
	}
}

// GetUserID returns the id stored by ResetTokenMiddleware.
func GetUserID(c *gin.Context) (string, bool) {
	userID, ok := c.Get(UserIDKey)
	if !ok {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok && id != ""
}
