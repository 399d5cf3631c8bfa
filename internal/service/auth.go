package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"blood_bank/internal/domain"
	"blood_bank/internal/utils"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RegisterInput carries the signup form.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	IsAdmin   bool
}

// LoginResult is a successful login: the user and the cookie value to set.
type LoginResult struct {
	User  *domain.User
	Token string
}

// AuthService registers users, checks credentials and resolves session tokens.
type AuthService struct {
	db       *gorm.DB
	rdb      *redis.Client
	sessions utils.SessionCodec
	cost     int

	dummyOnce sync.Once
	dummyHash []byte
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithHashCost overrides the bcrypt cost (default bcrypt.DefaultCost, i.e. 10).
func WithHashCost(cost int) AuthOption {
	return func(s *AuthService) { s.cost = cost }
}

// NewAuthService builds the service. rdb may be nil; when set, signups drop the
// cached dashboard stats.
func NewAuthService(db *gorm.DB, rdb *redis.Client, sessions utils.SessionCodec, opts ...AuthOption) *AuthService {
	s := &AuthService{db: db, rdb: rdb, sessions: sessions, cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a user with a bcrypt-hashed password. A taken email yields
// domain.ErrConflict and leaves the existing row untouched.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	if email == "" || in.Password == "" || firstName == "" || lastName == "" {
		return nil, fmt.Errorf("%w: email, password, firstName and lastName are required", domain.ErrValidation)
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&domain.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing > 0 {
		return nil, fmt.Errorf("%w: email already in use", domain.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &domain.User{
		Email:     email,
		Password:  string(hash),
		FirstName: firstName,
		LastName:  lastName,
		IsAdmin:   in.IsAdmin,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		// Lost a race with a concurrent signup for the same email
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: email already in use", domain.ErrConflict)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	invalidate(ctx, s.rdb, statsCacheKey)
	return user, nil
}

// Login checks the credentials and issues a session token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Same bcrypt work as the wrong-password path
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	token, err := s.sessions.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}
	return &LoginResult{User: &user, Token: token}, nil
}

// ResolveSession maps a cookie value to its user. Missing, malformed and
// dangling tokens all yield domain.ErrUnauthorized.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}
	userID, err := s.sessions.Parse(token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	var user domain.User
	err = s.db.WithContext(ctx).First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logrus.WithField("user_id", userID).Warn("Session references unknown user")
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("load session user: %w", err)
	}
	return &user, nil
}

func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("blood-bank-dummy-password"), s.cost)
	})
	return s.dummyHash
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
