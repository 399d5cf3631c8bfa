package domain

import (
	"time" // Timestamps

	"github.com/google/uuid" // UUID primary keys
	"gorm.io/gorm"           // GORM hooks
)

// User Model
type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`              // Primary key (UUID)
	Email     string    `gorm:"uniqueIndex;size:191;not null" json:"email"` // Unique, lower-cased email
	Password  string    `gorm:"size:191;not null" json:"-"`                 // Bcrypt hash, never serialized
	FirstName string    `gorm:"size:100;not null" json:"firstName"`        // Given name
	LastName  string    `gorm:"size:100;not null" json:"lastName"`         // Family name
	IsAdmin   bool      `gorm:"not null;default:false" json:"isAdmin"`     // Admin flag, fixed at signup
	CreatedAt time.Time `json:"createdAt"`                                 // Signup time
}

// BeforeCreate assigns a UUID when the caller did not set one
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
