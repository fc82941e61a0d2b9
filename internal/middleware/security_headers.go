package middleware

import "github.com/gin-gonic/gin"

// SecurityHeadersMiddleware marks every response as an uncacheable JSON API
// result. Login and verify-otp responses carry access, refresh and reset tokens.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		headers := c.Writer.Header()

		headers.Set("X-Content-Type-Options", "nosniff")
		headers.Set("X-Frame-Options", "DENY")
		headers.Set("Referrer-Policy", "no-referrer")
		headers.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		headers.Set("Cache-Control", "no-store")
		headers.Set("Pragma", "no-cache")

		c.Next()
	}
}
