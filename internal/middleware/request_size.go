package middleware

import (
	"net/http"

	"user-auth-service/internal/logger"
	"user-auth-service/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DefaultMaxRequestSize applies when MAX_BODY_BYTES is unset or not positive.
const DefaultMaxRequestSize = 1 << 20

// RequestSizeLimitMiddleware caps account request bodies at MAX_BODY_BYTES.
// A declared Content-Length over the cap is refused before binding; bodies
// without one fail JSON binding once the reader hits the cap.
func RequestSizeLimitMiddleware(maxSize int64) gin.HandlerFunc {
	if maxSize <= 0 {
		maxSize = DefaultMaxRequestSize
	}

	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			logger.WithRequestID(GetRequestID(c)).Warn("Request body over limit",
				zap.String("route", c.FullPath()),
				zap.Int64("content_length", c.Request.ContentLength),
				zap.Int64("max_body_bytes", maxSize),
			)
			utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "Request body too large")
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}
