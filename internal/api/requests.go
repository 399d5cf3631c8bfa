package api

import (
	"net/http" // HTTP status codes

	"blood_bank/internal/middleware" // Session context helpers
	"blood_bank/internal/service"    // Request service

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// CreateRequestBody represents a donation or receiving request submission
type CreateRequestBody struct {
	Type      string `json:"type"`      // "donation" or "receiving"
	BloodType string `json:"bloodType"` // One of the eight ABO/Rh categories
	DateTime  string `json:"dateTime"`  // Appointment time, RFC 3339 or datetime-local
	Units     *int   `json:"units"`     // Required for receiving requests
}

// CreateRequestHandler creates a request and its appointment for the session user
func CreateRequestHandler(requests *service.RequestService, metrics *middleware.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Get user from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var body CreateRequestBody // Bind JSON request to struct
		if err := c.ShouldBindJSON(&body); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		created, err := requests.CreateRequest(c.Request.Context(), user.ID, service.CreateRequestInput{
			Type:      body.Type,
			BloodType: body.BloodType,
			DateTime:  body.DateTime,
			Units:     body.Units,
		})
		if err != nil {
			respondError(c, err, "Failed to create request", logrus.Fields{
				"user_id": user.ID,   // Requesting user
				"type":    body.Type, // Request type
			})
			return
		}
		if metrics != nil {
			metrics.RequestsCreated.WithLabelValues(created.Kind.String()).Inc()
		}
		logrus.WithFields(logrus.Fields{
			"user_id":        user.ID,                // Requesting user
			"type":           created.Kind.String(),  // Request type
			"appointment_id": created.Appointment.ID, // Linked appointment
		}).Info("Request created") // Log request creation
		c.JSON(http.StatusOK, created)
	}
}

// ListRequestsHandler returns the session user's requests with their appointments
func ListRequestsHandler(requests *service.RequestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Get user from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		own, err := requests.ListOwnRequests(c.Request.Context(), user.ID)
		if err != nil {
			respondError(c, err, "Internal server error", logrus.Fields{"user_id": user.ID})
			return
		}
		c.JSON(http.StatusOK, own)
	}
}
