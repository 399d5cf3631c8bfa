package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBloodType(t *testing.T) {
	for _, in := range []string{"A+", "a-", " ab+ ", "AB-", "o+", "O-", "B+", "b-"} {
		bt, err := ParseBloodType(in)
		require.NoError(t, err, in)
		assert.Contains(t, BloodTypes, bt)
	}
	for _, in := range []string{"", "C+", "A", "ABO", "0+"} {
		_, err := ParseBloodType(in)
		assert.ErrorIs(t, err, ErrValidation, in)
	}
}

func TestParseRequestKind(t *testing.T) {
	k, err := ParseRequestKind("donation")
	require.NoError(t, err)
	assert.Equal(t, KindDonation, k)

	k, err = ParseRequestKind("receiving")
	require.NoError(t, err)
	assert.Equal(t, KindReceiving, k)
	assert.Equal(t, "receiving", k.String())

	_, err = ParseRequestKind("Donation")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = ParseRequestKind("")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAppointmentValidate(t *testing.T) {
	id := "req-1"
	empty := ""

	assert.NoError(t, (&Appointment{DonationRequestID: &id}).Validate())
	assert.NoError(t, (&Appointment{ReceivingRequestID: &id}).Validate())
	assert.ErrorIs(t, (&Appointment{}).Validate(), ErrAppointmentLink)
	assert.ErrorIs(t, (&Appointment{DonationRequestID: &empty}).Validate(), ErrAppointmentLink)
	assert.ErrorIs(t, (&Appointment{DonationRequestID: &id, ReceivingRequestID: &id}).Validate(), ErrAppointmentLink)
}
