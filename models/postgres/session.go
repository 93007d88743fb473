package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*
 * 'Session' stores an issued refresh token. A row is deleted when the token
 * is rotated, on logout and on password change.
 */
type Session struct {
	ID           string    `gorm:"primaryKey;type:uuid"`
	UserID       string    `gorm:"type:uuid;not null;index"`
	RefreshToken string    `gorm:"size:64;not null;uniqueIndex"`
	UserAgent    string    `gorm:"size:255"`
	IP           string    `gorm:"size:64"`
	ExpiresAt    time.Time `gorm:"not null"`
	CreatedAt    time.Time

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
