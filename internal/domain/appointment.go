package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Appointment statuses. The column accepts other upper-case values set by admins.
const (
	AppointmentStatusScheduled = "SCHEDULED"
	AppointmentStatusCompleted = "COMPLETED"
)

// ErrAppointmentLink is returned when an appointment does not reference exactly
// one request.
var ErrAppointmentLink = errors.New("appointment must reference exactly one request")

// Appointment Model
type Appointment struct {
	ID                 string    `gorm:"primaryKey;size:36" json:"id"`
	UserID             string    `gorm:"size:36;not null;index" json:"userId"`
	DateTime           time.Time `gorm:"not null;index" json:"dateTime"`
	Status             string    `gorm:"size:32;not null;index" json:"status"`
	DonationRequestID  *string   `gorm:"size:36;uniqueIndex" json:"donationRequestId"`
	ReceivingRequestID *string   `gorm:"size:36;uniqueIndex" json:"receivingRequestId"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
	User               *User     `gorm:"foreignKey:UserID" json:"-"` // Owner, preloaded for admin listings
}

// Validate checks the donation XOR receiving link.
func (a *Appointment) Validate() error {
	hasDonation := a.DonationRequestID != nil && *a.DonationRequestID != ""
	hasReceiving := a.ReceivingRequestID != nil && *a.ReceivingRequestID != ""
	if hasDonation == hasReceiving {
		return ErrAppointmentLink
	}
	return nil
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalUsers            int64 `json:"totalUsers"`
	UpcomingAppointments  int64 `json:"upcomingAppointments"`
	CompletedAppointments int64 `json:"completedAppointments"`
}
