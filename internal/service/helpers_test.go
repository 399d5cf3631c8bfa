package service

import (
	"context"
	"fmt"
	"testing"

	"blood_bank/internal/db/dbtest"
	"blood_bank/internal/domain"
	"blood_bank/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newAuth(db *gorm.DB) *AuthService {
	return NewAuthService(db, nil, utils.NewJWTSession("test-secret"), WithHashCost(bcrypt.MinCost))
}

func mustRegister(t *testing.T, db *gorm.DB, n int) *domain.User {
	t.Helper()
	u, err := newAuth(db).Register(context.Background(), RegisterInput{
		Email:     fmt.Sprintf("donor%d@example.com", n),
		Password:  "password123",
		FirstName: fmt.Sprintf("First%d", n),
		LastName:  fmt.Sprintf("Last%d", n),
	})
	require.NoError(t, err)
	return u
}

func setup(t *testing.T) *gorm.DB {
	t.Helper()
	return dbtest.Open(t)
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func intPtr(v int) *int { return &v }

// newRedis starts an in-process Redis and a client for it.
func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}
