package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"blood_bank/internal/domain"
	"blood_bank/internal/utils"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const ownRequestsTTL = 30 * time.Second

// dateTimeLayouts are tried in order. Zone-less values come from HTML
// datetime-local inputs and are read as UTC.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// CreateRequestInput is a donation or receiving request as submitted.
type CreateRequestInput struct {
	Type      string // "donation" or "receiving"
	BloodType string
	DateTime  string
	Units     *int // Required for receiving requests
}

// CreatedRequest pairs the new request row with its appointment.
type CreatedRequest struct {
	Kind        domain.RequestKind  `json:"-"`
	Request     any                 `json:"request"` // *domain.DonationRequest or *domain.ReceivingRequest
	Appointment *domain.Appointment `json:"appointment"`
}

// OwnRequests is a user's request history, newest first.
type OwnRequests struct {
	DonationRequests  []domain.DonationRequest  `json:"donationRequests"`
	ReceivingRequests []domain.ReceivingRequest `json:"receivingRequests"`
}

// RequestService creates requests together with their appointments.
type RequestService struct {
	db  *gorm.DB
	rdb *redis.Client

	afterRequestInsert func(tx *gorm.DB) error
}

// RequestOption customises a RequestService.
type RequestOption func(*RequestService)

// WithAfterRequestInsert runs fn inside the creation transaction, between the
// request insert and the appointment insert. A non-nil error aborts the
// transaction.
func WithAfterRequestInsert(fn func(tx *gorm.DB) error) RequestOption {
	return func(s *RequestService) { s.afterRequestInsert = fn }
}

// NewRequestService builds the service. rdb may be nil to disable caching.
func NewRequestService(db *gorm.DB, rdb *redis.Client, opts ...RequestOption) *RequestService {
	s := &RequestService{db: db, rdb: rdb}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateRequest validates the input and inserts the request and its SCHEDULED
// appointment in one transaction.
func (s *RequestService) CreateRequest(ctx context.Context, userID string, in CreateRequestInput) (*CreatedRequest, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if strings.TrimSpace(in.Type) == "" || strings.TrimSpace(in.BloodType) == "" || strings.TrimSpace(in.DateTime) == "" {
		return nil, fmt.Errorf("%w: missing required fields", domain.ErrValidation)
	}
	kind, err := domain.ParseRequestKind(in.Type)
	if err != nil {
		return nil, err
	}
	bloodType, err := domain.ParseBloodType(in.BloodType)
	if err != nil {
		return nil, err
	}
	when, err := parseDateTime(in.DateTime)
	if err != nil {
		return nil, err
	}
	if kind == domain.KindReceiving && (in.Units == nil || *in.Units < 1) {
		return nil, fmt.Errorf("%w: valid units required for receiving request", domain.ErrValidation)
	}

	out := &CreatedRequest{Kind: kind}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		appt := &domain.Appointment{
			UserID:   userID,
			DateTime: when,
			Status:   domain.AppointmentStatusScheduled,
		}
		switch kind {
		case domain.KindDonation:
			req := &domain.DonationRequest{UserID: userID, BloodType: bloodType, Status: domain.RequestStatusPending}
			if err := tx.Create(req).Error; err != nil {
				return fmt.Errorf("create donation request: %w", err)
			}
			appt.DonationRequestID = &req.ID
			out.Request = req
		case domain.KindReceiving:
			req := &domain.ReceivingRequest{UserID: userID, BloodType: bloodType, Units: *in.Units, Status: domain.RequestStatusPending}
			if err := tx.Create(req).Error; err != nil {
				return fmt.Errorf("create receiving request: %w", err)
			}
			appt.ReceivingRequestID = &req.ID
			out.Request = req
		default:
			return fmt.Errorf("unhandled request kind %s", kind)
		}
		if s.afterRequestInsert != nil {
			if err := s.afterRequestInsert(tx); err != nil {
				return err
			}
		}
		if err := tx.Create(appt).Error; err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}
		out.Appointment = appt
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidate(ctx, s.rdb, ownRequestsKey(userID), statsCacheKey)
	return out, nil
}

// ListOwnRequests returns the user's donation and receiving requests, each
// with its appointment, most recent first.
func (s *RequestService) ListOwnRequests(ctx context.Context, userID string) (*OwnRequests, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	key := ownRequestsKey(userID)
	var cached OwnRequests
	if found, err := utils.GetCache(ctx, s.rdb, key, &cached); err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Cache read failed")
	} else if found {
		return &cached, nil
	}

	out := &OwnRequests{}
	db := s.db.WithContext(ctx)
	if err := db.Preload("Appointment").
		Where("user_id = ?", userID).
		Order("created_at desc").Order("id desc").
		Find(&out.DonationRequests).Error; err != nil {
		return nil, fmt.Errorf("list donation requests: %w", err)
	}
	if err := db.Preload("Appointment").
		Where("user_id = ?", userID).
		Order("created_at desc").Order("id desc").
		Find(&out.ReceivingRequests).Error; err != nil {
		return nil, fmt.Errorf("list receiving requests: %w", err)
	}
	// Encode as [] rather than null
	if out.DonationRequests == nil {
		out.DonationRequests = []domain.DonationRequest{}
	}
	if out.ReceivingRequests == nil {
		out.ReceivingRequests = []domain.ReceivingRequest{}
	}

	if err := utils.SetCache(ctx, s.rdb, key, out, ownRequestsTTL); err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Cache write failed")
	}
	return out, nil
}

func parseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil && !t.IsZero() {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid dateTime %q", domain.ErrValidation, s)
}
