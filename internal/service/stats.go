package service

import (
	"context"
	"fmt"
	"time"

	"blood_bank/internal/domain"
	"blood_bank/internal/utils"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const statsTTL = 60 * time.Second

// StatsService computes the admin dashboard counters.
type StatsService struct {
	db  *gorm.DB
	rdb *redis.Client
	now func() time.Time
}

// StatsOption customises a StatsService.
type StatsOption func(*StatsService)

// WithClock sets the reference instant for "upcoming".
func WithClock(now func() time.Time) StatsOption {
	return func(s *StatsService) { s.now = now }
}

func NewStatsService(db *gorm.DB, rdb *redis.Client, opts ...StatsOption) *StatsService {
	s := &StatsService{db: db, rdb: rdb, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Compute counts all users, SCHEDULED appointments at or after now, and
// COMPLETED appointments. A cached result never outlives the start of the next
// upcoming appointment, after which the upcoming count would be stale.
func (s *StatsService) Compute(ctx context.Context) (*domain.Stats, error) {
	var stats domain.Stats
	if found, err := utils.GetCache(ctx, s.rdb, statsCacheKey, &stats); err != nil {
		logrus.WithFields(logrus.Fields{"key": statsCacheKey, "error": err.Error()}).Warn("Cache read failed")
	} else if found {
		return &stats, nil
	}

	now := s.now().UTC()
	db := s.db.WithContext(ctx)
	if err := db.Model(&domain.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if err := db.Model(&domain.Appointment{}).
		Where("status = ? AND date_time >= ?", domain.AppointmentStatusScheduled, now).
		Count(&stats.UpcomingAppointments).Error; err != nil {
		return nil, fmt.Errorf("count upcoming appointments: %w", err)
	}
	if err := db.Model(&domain.Appointment{}).
		Where("status = ?", domain.AppointmentStatusCompleted).
		Count(&stats.CompletedAppointments).Error; err != nil {
		return nil, fmt.Errorf("count completed appointments: %w", err)
	}

	if s.rdb == nil {
		return &stats, nil
	}
	ttl, err := s.cacheTTL(db, now, stats.UpcomingAppointments)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		return &stats, nil
	}
	if err := utils.SetCache(ctx, s.rdb, statsCacheKey, stats, ttl); err != nil {
		logrus.WithFields(logrus.Fields{"key": statsCacheKey, "error": err.Error()}).Warn("Cache write failed")
	}
	return &stats, nil
}

// cacheTTL caps statsTTL at the time left until the earliest upcoming
// appointment.
func (s *StatsService) cacheTTL(db *gorm.DB, now time.Time, upcoming int64) (time.Duration, error) {
	if upcoming == 0 {
		return statsTTL, nil
	}
	var next domain.Appointment
	if err := db.Where("status = ? AND date_time >= ?", domain.AppointmentStatusScheduled, now).
		Order("date_time asc").Limit(1).
		Find(&next).Error; err != nil {
		return 0, fmt.Errorf("find next appointment: %w", err)
	}
	if next.ID == "" {
		return statsTTL, nil
	}
	return min(statsTTL, next.DateTime.Sub(now)), nil
}
