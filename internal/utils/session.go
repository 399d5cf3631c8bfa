package utils

import (
	"errors" // Sentinel errors
	"time"   // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// SessionTTL matches the max-age of the session cookie
const SessionTTL = 24 * time.Hour

// ErrInvalidSession is returned for tokens that cannot be decoded
var ErrInvalidSession = errors.New("invalid session token")

// SessionCodec turns a user id into a cookie value and back
type SessionCodec interface {
	Issue(userID string) (string, error)
	Parse(token string) (string, error)
}

// JWTSession signs the user id into an HS256 token with a fixed expiry
type JWTSession struct {
	secret []byte
	now    func() time.Time
}

// NewJWTSession creates a signed session codec
func NewJWTSession(secret string) *JWTSession {
	return &JWTSession{secret: []byte(secret), now: time.Now}
}

// Issue creates a token whose subject is the user id
func (s *JWTSession) Issue(userID string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,                                   // User id carried as subject
		ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)), // Token expires with the cookie
		IssuedAt:  jwt.NewNumericDate(now),                 // Issued at current time
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString(s.secret)                        // Sign the token with the secret
}

// Parse validates the signature and expiry and returns the user id
func (s *JWTSession) Parse(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return "", ErrInvalidSession
	}
	if claims.Subject == "" {
		return "", ErrInvalidSession
	}
	return claims.Subject, nil
}

// RawSession stores the bare user id. It is unsigned and forgeable by anyone
// who can guess an id; kept only for SESSION_MODE=raw.
type RawSession struct{}

// Issue returns the user id unchanged
func (RawSession) Issue(userID string) (string, error) {
	if userID == "" {
		return "", ErrInvalidSession
	}
	return userID, nil
}

// Parse returns the token unchanged
func (RawSession) Parse(token string) (string, error) {
	if token == "" {
		return "", ErrInvalidSession
	}
	return token, nil
}
