package api

import (
	"net/http" // HTTP status codes

	"blood_bank/internal/middleware" // Session cookie name
	"blood_bank/internal/service"    // Authentication service
	"blood_bank/internal/utils"      // Session TTL

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// Request struct for registration
type RegisterRequest struct {
	Email     string `json:"email" binding:"required"`     // Email must be provided
	Password  string `json:"password" binding:"required"`  // Password must be provided
	FirstName string `json:"firstName" binding:"required"` // First name must be provided
	LastName  string `json:"lastName" binding:"required"`  // Last name must be provided
	IsAdmin   bool   `json:"isAdmin"`                      // Optional admin flag
}

// Request struct for login
// Missing fields are not a binding error; they fail as invalid credentials.
type LoginRequest struct {
	Email    string `json:"email"`    // Account email
	Password string `json:"password"` // Plain-text password
}

// Response struct for login
type LoginResponse struct {
	Message string `json:"message"` // Human readable outcome
	Success bool   `json:"success"` // Always true on 200
	IsAdmin bool   `json:"isAdmin"` // Lets the client pick the landing page
}

// RegisterHandler creates a user account
func RegisterHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Hash the password and create the user
		user, err := auth.Register(c.Request.Context(), service.RegisterInput{
			Email:     req.Email,
			Password:  req.Password,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			IsAdmin:   req.IsAdmin,
		})
		if err != nil {
			respondError(c, err, "Failed to create user", logrus.Fields{"email": req.Email})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,      // New user ID
			"is_admin": user.IsAdmin, // Admin flag
		}).Info("User registered") // Log registration
		c.JSON(http.StatusCreated, user) // Return created user without password
	}
}

// LoginHandler checks credentials and sets the session cookie
func LoginHandler(auth *service.AuthService, secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		res, err := auth.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, err, "Internal server error", nil)
			return
		}
		setSessionCookie(c, res.Token, int(utils.SessionTTL.Seconds()), secureCookie)
		c.JSON(http.StatusOK, LoginResponse{Message: "Login successful", Success: true, IsAdmin: res.User.IsAdmin})
	}
}

// LogoutHandler expires the session cookie
func LogoutHandler(secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		setSessionCookie(c, "", -1, secureCookie)
		c.JSON(http.StatusOK, gin.H{"message": "Logout successful", "success": true})
	}
}

// setSessionCookie writes the httpOnly, SameSite=Strict session cookie
func setSessionCookie(c *gin.Context, value string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookie, value, maxAge, "/", "", secure, true)
}
