package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"blood_bank/internal/domain"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// AppointmentService backs the admin appointment views.
type AppointmentService struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewAppointmentService(db *gorm.DB, rdb *redis.Client) *AppointmentService {
	return &AppointmentService{db: db, rdb: rdb}
}

// List returns appointments with their owner preloaded, earliest first. A
// non-empty status restricts the result to that status, ignoring case.
func (s *AppointmentService) List(ctx context.Context, status string) ([]domain.Appointment, error) {
	q := s.db.WithContext(ctx).Preload("User")
	if status = normalizeStatus(status); status != "" {
		q = q.Where("UPPER(status) = ?", status)
	}
	appointments := []domain.Appointment{}
	if err := q.Order("date_time asc").Order("id asc").Find(&appointments).Error; err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appointments, nil
}

// UpdateStatus overwrites the appointment status and returns the reloaded row.
// Repeating the same update is a no-op that still succeeds.
func (s *AppointmentService) UpdateStatus(ctx context.Context, id, status string) (*domain.Appointment, error) {
	status = normalizeStatus(status)
	if strings.TrimSpace(id) == "" || status == "" {
		return nil, fmt.Errorf("%w: id and status are required", domain.ErrValidation)
	}

	db := s.db.WithContext(ctx)
	var appt domain.Appointment
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&appt, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Model(&appt).Update("status", status).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: appointment %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("update appointment: %w", err)
	}

	// Reload with the user join
	if err := db.Preload("User").First(&appt, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("reload appointment: %w", err)
	}
	invalidate(ctx, s.rdb, statsCacheKey, ownRequestsKey(appt.UserID))
	return &appt, nil
}

func normalizeStatus(status string) string {
	return strings.ToUpper(strings.TrimSpace(status))
}
