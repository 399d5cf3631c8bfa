package db_test

import (
	"testing"

	"blood_bank/internal/config"
	"blood_bank/internal/db"
	"blood_bank/internal/db/dbtest"
	"blood_bank/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateCreatesTables(t *testing.T) {
	gdb := dbtest.Open(t)
	for _, m := range db.Models() {
		assert.True(t, gdb.Migrator().HasTable(m))
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := db.Open(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestForeignKeysEnforced(t *testing.T) {
	gdb := dbtest.Open(t)
	reqID := "missing-request"
	err := gdb.Create(&domain.Appointment{UserID: "missing-user", Status: domain.AppointmentStatusScheduled, DonationRequestID: &reqID}).Error
	require.Error(t, err)

	var count int64
	require.NoError(t, gdb.Model(&domain.Appointment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUniqueEmail(t *testing.T) {
	gdb := dbtest.Open(t)
	require.NoError(t, gdb.Create(&domain.User{Email: "a@b.c", Password: "x", FirstName: "A", LastName: "B"}).Error)
	err := gdb.Create(&domain.User{Email: "a@b.c", Password: "y", FirstName: "C", LastName: "D"}).Error
	assert.Error(t, err)
}
