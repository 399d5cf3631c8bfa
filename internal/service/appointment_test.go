package service

import (
	"context"
	"testing"
	"time"

	"blood_bank/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedAppointments creates donation appointments at the given dates, in the
// given order, and returns them.
func seedAppointments(t *testing.T, svc *RequestService, userID string, dates ...string) []*domain.Appointment {
	t.Helper()
	out := make([]*domain.Appointment, 0, len(dates))
	for _, d := range dates {
		created, err := svc.CreateRequest(context.Background(), userID, CreateRequestInput{Type: "donation", BloodType: "A+", DateTime: d})
		require.NoError(t, err)
		out = append(out, created.Appointment)
	}
	return out
}

func TestListAppointments(t *testing.T) {
	db := setup(t)
	u := mustRegister(t, db, 1)
	reqs := NewRequestService(db, nil)
	svc := NewAppointmentService(db, nil)
	ctx := context.Background()

	appts := seedAppointments(t, reqs, u.ID,
		"2030-03-01T09:00:00Z",
		"2030-01-01T09:00:00Z",
		"2030-02-01T09:00:00Z",
	)
	_, err := svc.UpdateStatus(ctx, appts[2].ID, domain.AppointmentStatusCompleted)
	require.NoError(t, err)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, appts[1].ID, all[0].ID)
	assert.Equal(t, appts[2].ID, all[1].ID)
	assert.Equal(t, appts[0].ID, all[2].ID)
	for _, a := range all {
		require.NotNil(t, a.User)
		assert.Equal(t, "First1", a.User.FirstName)
		assert.Equal(t, "Last1", a.User.LastName)
	}

	scheduled, err := svc.List(ctx, "SCHEDULED")
	require.NoError(t, err)
	require.Len(t, scheduled, 2)
	assert.Equal(t, appts[1].ID, scheduled[0].ID)
	assert.Equal(t, appts[0].ID, scheduled[1].ID)
	for _, a := range scheduled {
		assert.Equal(t, domain.AppointmentStatusScheduled, a.Status)
	}

	completed, err := svc.List(ctx, "completed")
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, appts[2].ID, completed[0].ID)

	none, err := svc.List(ctx, "CANCELLED")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestListAppointmentsMatchesStoredStatusIgnoringCase(t *testing.T) {
	db := setup(t)
	u := mustRegister(t, db, 1)
	svc := NewAppointmentService(db, nil)
	ctx := context.Background()
	appt := seedAppointments(t, NewRequestService(db, nil), u.ID, "2030-01-01T09:00:00Z")[0]

	// Rows imported from elsewhere may carry a lower-case status
	require.NoError(t, db.Model(&domain.Appointment{}).Where("id = ?", appt.ID).Update("status", "Completed").Error)

	for _, filter := range []string{"completed", "COMPLETED", " Completed "} {
		got, err := svc.List(ctx, filter)
		require.NoError(t, err)
		require.Len(t, got, 1, filter)
		assert.Equal(t, appt.ID, got[0].ID)
	}
}

func TestUpdateStatus(t *testing.T) {
	db := setup(t)
	u := mustRegister(t, db, 1)
	svc := NewAppointmentService(db, nil)
	ctx := context.Background()
	appt := seedAppointments(t, NewRequestService(db, nil), u.ID, "2030-01-01T09:00:00Z")[0]

	updated, err := svc.UpdateStatus(ctx, appt.ID, " completed ")
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentStatusCompleted, updated.Status)
	require.NotNil(t, updated.User)
	assert.Equal(t, "First1", updated.User.FirstName)
	assert.True(t, appt.DateTime.Equal(updated.DateTime))
	assert.Equal(t, appt.DonationRequestID, updated.DonationRequestID)
}

func TestUpdateStatusIsIdempotent(t *testing.T) {
	db := setup(t)
	u := mustRegister(t, db, 1)
	svc := NewAppointmentService(db, nil)
	ctx := context.Background()
	appt := seedAppointments(t, NewRequestService(db, nil), u.ID, "2030-01-01T09:00:00Z")[0]

	first, err := svc.UpdateStatus(ctx, appt.ID, domain.AppointmentStatusCompleted)
	require.NoError(t, err)
	second, err := svc.UpdateStatus(ctx, appt.ID, domain.AppointmentStatusCompleted)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.UserID, second.UserID)

	var stored domain.Appointment
	require.NoError(t, db.First(&stored, "id = ?", appt.ID).Error)
	assert.Equal(t, domain.AppointmentStatusCompleted, stored.Status)
}

func TestUpdateStatusErrors(t *testing.T) {
	db := setup(t)
	u := mustRegister(t, db, 1)
	svc := NewAppointmentService(db, nil)
	ctx := context.Background()
	appt := seedAppointments(t, NewRequestService(db, nil), u.ID, "2030-01-01T09:00:00Z")[0]

	_, err := svc.UpdateStatus(ctx, "does-not-exist", domain.AppointmentStatusCompleted)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.UpdateStatus(ctx, appt.ID, "  ")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UpdateStatus(ctx, "", domain.AppointmentStatusCompleted)
	assert.ErrorIs(t, err, domain.ErrValidation)

	var stored domain.Appointment
	require.NoError(t, db.First(&stored, "id = ?", appt.ID).Error)
	assert.Equal(t, domain.AppointmentStatusScheduled, stored.Status)
}

func TestComputeStats(t *testing.T) {
	db := setup(t)
	now := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)
	users := []*domain.User{mustRegister(t, db, 1), mustRegister(t, db, 2), mustRegister(t, db, 3)}
	reqs := NewRequestService(db, nil)
	appts := NewAppointmentService(db, nil)
	ctx := context.Background()

	seedAppointments(t, reqs, users[0].ID, "2030-06-02T09:00:00Z")
	seedAppointments(t, reqs, users[1].ID, "2030-06-01T12:00:00Z") // exactly now counts as upcoming
	past := seedAppointments(t, reqs, users[2].ID, "2030-05-01T09:00:00Z", "2030-05-02T09:00:00Z")
	_, err := appts.UpdateStatus(ctx, past[0].ID, domain.AppointmentStatusCompleted)
	require.NoError(t, err)
	// past[1] stays SCHEDULED but is before now, so it is not upcoming

	stats, err := NewStatsService(db, nil, WithClock(func() time.Time { return now })).Compute(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Stats{TotalUsers: 3, UpcomingAppointments: 2, CompletedAppointments: 1}, *stats)
}

func TestComputeStatsEmpty(t *testing.T) {
	db := setup(t)
	stats, err := NewStatsService(db, nil).Compute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Stats{}, *stats)
}
