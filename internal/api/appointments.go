package api

import (
	"net/http" // HTTP status codes
	"time"     // Appointment times

	"blood_bank/internal/domain"     // Importing domain models
	"blood_bank/internal/middleware" // Metrics
	"blood_bank/internal/service"    // Appointment service

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// AppointmentUser is the owner join shown on the admin dashboard
type AppointmentUser struct {
	FirstName string `json:"firstName"` // Owner first name
	LastName  string `json:"lastName"`  // Owner last name
}

// AppointmentResponse represents an appointment returned to admins
type AppointmentResponse struct {
	ID                 string          `json:"id"`                 // Appointment ID
	UserID             string          `json:"userId"`             // Owner ID
	DateTime           time.Time       `json:"dateTime"`           // Scheduled time
	Status             string          `json:"status"`             // Current status
	DonationRequestID  *string         `json:"donationRequestId"`  // Set for donation appointments
	ReceivingRequestID *string         `json:"receivingRequestId"` // Set for receiving appointments
	CreatedAt          time.Time       `json:"createdAt"`          // Creation time
	UpdatedAt          time.Time       `json:"updatedAt"`          // Last status change
	User               AppointmentUser `json:"user"`               // Owner name
}

// UpdateAppointmentRequest represents a status change
type UpdateAppointmentRequest struct {
	ID     string `json:"id" binding:"required"`     // Appointment ID
	Status string `json:"status" binding:"required"` // New status, e.g. COMPLETED
}

func toAppointmentResponse(a domain.Appointment) AppointmentResponse {
	resp := AppointmentResponse{
		ID:                 a.ID,
		UserID:             a.UserID,
		DateTime:           a.DateTime,
		Status:             a.Status,
		DonationRequestID:  a.DonationRequestID,
		ReceivingRequestID: a.ReceivingRequestID,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
	if a.User != nil {
		resp.User = AppointmentUser{FirstName: a.User.FirstName, LastName: a.User.LastName}
	}
	return resp
}

// ListAppointmentsHandler returns all appointments, optionally filtered by status
func ListAppointmentsHandler(appointments *service.AppointmentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := appointments.List(c.Request.Context(), c.Query("status"))
		if err != nil {
			respondError(c, err, "Failed to fetch appointments", logrus.Fields{"status": c.Query("status")})
			return
		}
		// Map appointments to response format
		resp := make([]AppointmentResponse, len(list))
		for i, a := range list {
			resp[i] = toAppointmentResponse(a)
		}
		c.JSON(http.StatusOK, resp)
	}
}

// UpdateAppointmentHandler changes the status of one appointment
func UpdateAppointmentHandler(appointments *service.AppointmentService, metrics *middleware.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateAppointmentRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		updated, err := appointments.UpdateStatus(c.Request.Context(), req.ID, req.Status)
		if err != nil {
			respondError(c, err, "Failed to update appointment", logrus.Fields{
				"appointment_id": req.ID,     // Target appointment
				"status":         req.Status, // Requested status
			})
			return
		}
		if metrics != nil {
			metrics.StatusUpdates.WithLabelValues(updated.Status).Inc()
		}
		admin, _ := middleware.CurrentUser(c)
		fields := logrus.Fields{
			"appointment_id": updated.ID,     // Target appointment
			"status":         updated.Status, // New status
		}
		if admin != nil {
			fields["admin_id"] = admin.ID // Acting admin
		}
		logrus.WithFields(fields).Info("Appointment status updated") // Log status change
		c.JSON(http.StatusOK, toAppointmentResponse(*updated))
	}
}
