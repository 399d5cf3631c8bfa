package service

import (
	"context"
	"testing"

	"blood_bank/internal/domain"
	"blood_bank/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegister(t *testing.T) {
	db := setup(t)
	svc := newAuth(db)

	u, err := svc.Register(context.Background(), RegisterInput{
		Email: "  Jane@Example.com ", Password: "secret", FirstName: "Jane", LastName: "Doe", IsAdmin: true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "jane@example.com", u.Email)
	assert.True(t, u.IsAdmin)
	assert.NotEqual(t, "secret", u.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("secret")))
}

func TestRegisterDefaultCost(t *testing.T) {
	db := setup(t)
	svc := NewAuthService(db, nil, utils.RawSession{})

	u, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.c", Password: "pw", FirstName: "A", LastName: "B"})
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(u.Password))
	require.NoError(t, err)
	assert.Equal(t, 10, cost)
}

func TestRegisterValidation(t *testing.T) {
	db := setup(t)
	svc := newAuth(db)

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{"empty email", RegisterInput{Password: "pw", FirstName: "A", LastName: "B"}},
		{"empty password", RegisterInput{Email: "a@b.c", FirstName: "A", LastName: "B"}},
		{"empty first name", RegisterInput{Email: "a@b.c", Password: "pw", LastName: "B"}},
		{"blank last name", RegisterInput{Email: "a@b.c", Password: "pw", FirstName: "A", LastName: "  "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
	assert.Zero(t, countRows(t, db, &domain.User{}))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := setup(t)
	svc := newAuth(db)
	ctx := context.Background()

	first, err := svc.Register(ctx, RegisterInput{Email: "dup@example.com", Password: "one", FirstName: "First", LastName: "User"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: "DUP@example.com", Password: "two", FirstName: "Second", LastName: "User"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	var stored domain.User
	require.NoError(t, db.First(&stored, "id = ?", first.ID).Error)
	assert.Equal(t, "First", stored.FirstName)
	assert.Equal(t, first.Password, stored.Password)
	assert.Equal(t, int64(1), countRows(t, db, &domain.User{}))
}

func TestLogin(t *testing.T) {
	db := setup(t)
	svc := newAuth(db)
	ctx := context.Background()
	u := mustRegister(t, db, 1)

	res, err := svc.Login(ctx, "DONOR1@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)
	assert.NotEmpty(t, res.Token)

	resolved, err := svc.ResolveSession(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, resolved.ID)
}

func TestLoginInvalidCredentialsDoNotLeakExistence(t *testing.T) {
	db := setup(t)
	svc := newAuth(db)
	ctx := context.Background()
	mustRegister(t, db, 1)

	_, wrongPassword := svc.Login(ctx, "donor1@example.com", "nope")
	_, unknownEmail := svc.Login(ctx, "ghost@example.com", "password123")

	assert.ErrorIs(t, wrongPassword, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, domain.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestLoginEmptyFields(t *testing.T) {
	db := setup(t)
	svc := newAuth(db)
	ctx := context.Background()
	mustRegister(t, db, 1)

	_, err := svc.Login(ctx, "donor1@example.com", "")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "", "password123")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestResolveSession(t *testing.T) {
	db := setup(t)
	ctx := context.Background()
	u := mustRegister(t, db, 1)

	t.Run("empty token", func(t *testing.T) {
		_, err := newAuth(db).ResolveSession(ctx, "")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
	t.Run("garbage token", func(t *testing.T) {
		_, err := newAuth(db).ResolveSession(ctx, "not-a-token")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
	t.Run("raw id rejected in jwt mode", func(t *testing.T) {
		_, err := newAuth(db).ResolveSession(ctx, u.ID)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
	t.Run("raw mode accepts id", func(t *testing.T) {
		svc := NewAuthService(db, nil, utils.RawSession{}, WithHashCost(bcrypt.MinCost))
		got, err := svc.ResolveSession(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, u.Email, got.Email)
	})
	t.Run("unknown user", func(t *testing.T) {
		token, err := utils.NewJWTSession("test-secret").Issue("00000000-0000-0000-0000-000000000000")
		require.NoError(t, err)
		_, err = newAuth(db).ResolveSession(ctx, token)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}
