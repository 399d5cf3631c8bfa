package middleware

import (
	"time" // Request latency

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// RequestLogger writes one logrus entry per request
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now() // Start time
		c.Next()            // Process request
		entry := logrus.WithFields(logrus.Fields{
			"method":    c.Request.Method,           // HTTP method
			"path":      c.Request.URL.Path,         // Request path
			"status":    c.Writer.Status(),          // Response status
			"latency":   time.Since(start).String(), // Processing time
			"client_ip": c.ClientIP(),               // Caller address
		})
		if c.Writer.Status() >= 500 {
			entry.Warn("Request failed") // Server-side failure
			return
		}
		entry.Info("Request handled") // Normal completion
	}
}
