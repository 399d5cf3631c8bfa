package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Request statuses. PENDING is set on creation; anything else is admin-set.
const (
	RequestStatusPending = "PENDING"
)

// RequestKind tells a donation request apart from a receiving request.
type RequestKind int

const (
	KindDonation RequestKind = iota + 1
	KindReceiving
)

// ParseRequestKind maps the wire literals "donation" and "receiving".
func ParseRequestKind(s string) (RequestKind, error) {
	switch s {
	case "donation":
		return KindDonation, nil
	case "receiving":
		return KindReceiving, nil
	}
	return 0, fmt.Errorf("%w: invalid request type", ErrValidation)
}

func (k RequestKind) String() string {
	switch k {
	case KindDonation:
		return "donation"
	case KindReceiving:
		return "receiving"
	}
	return fmt.Sprintf("RequestKind(%d)", int(k))
}

// DonationRequest Model
type DonationRequest struct {
	ID          string       `gorm:"primaryKey;size:36" json:"id"`
	UserID      string       `gorm:"size:36;not null;index" json:"userId"`
	BloodType   BloodType    `gorm:"size:3;not null" json:"bloodType"`
	Status      string       `gorm:"size:32;not null;default:PENDING" json:"status"`
	CreatedAt   time.Time    `gorm:"index" json:"createdAt"`
	User        *User        `gorm:"foreignKey:UserID" json:"-"`
	Appointment *Appointment `gorm:"foreignKey:DonationRequestID" json:"appointment,omitempty"`
}

func (r *DonationRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// ReceivingRequest Model
type ReceivingRequest struct {
	ID          string       `gorm:"primaryKey;size:36" json:"id"`
	UserID      string       `gorm:"size:36;not null;index" json:"userId"`
	BloodType   BloodType    `gorm:"size:3;not null" json:"bloodType"`
	Units       int          `gorm:"not null;check:units >= 1" json:"units"`
	Status      string       `gorm:"size:32;not null;default:PENDING" json:"status"`
	CreatedAt   time.Time    `gorm:"index" json:"createdAt"`
	User        *User        `gorm:"foreignKey:UserID" json:"-"`
	Appointment *Appointment `gorm:"foreignKey:ReceivingRequestID" json:"appointment,omitempty"`
}

func (r *ReceivingRequest) BeforeCreate(tx *gorm.DB) error {
	if r.Units < 1 {
		return fmt.Errorf("%w: units must be at least 1", ErrValidation)
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
