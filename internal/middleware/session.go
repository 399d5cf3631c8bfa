package middleware

import (
	"context"  // Context for session resolution
	"errors"   // Error classification
	"net/http" // HTTP status codes

	"blood_bank/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// SessionCookie is the cookie carrying the session token
const SessionCookie = "token"

// Context keys set by SessionMiddleware
const (
	UserKey   = "user"
	UserIDKey = "userID"
)

// SessionResolver maps a session token to its user
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*domain.User, error)
}

// SessionMiddleware resolves the session cookie and stores the user in context
func SessionMiddleware(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(SessionCookie) // Missing cookie yields empty token
		user, err := resolver.ResolveSession(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				// Missing, malformed or dangling session
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
				return
			}
			logrus.WithFields(logrus.Fields{
				"path":  c.FullPath(), // Route being accessed
				"error": err.Error(),  // Error message
			}).Error("Session lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.Set(UserKey, user)      // Store user in context
		c.Set(UserIDKey, user.ID) // Store userID in context
		c.Next()                  // Proceed to the next handler
	}
}

// CurrentUser returns the user stored by SessionMiddleware
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, exists := c.Get(UserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok && user != nil
}
