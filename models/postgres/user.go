package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*
 * 'User' is the account of a player. Partnerships, sessions, notifications and
 * activity feed items all reference it by ID.
 */
type User struct {
	ID               string     `gorm:"primaryKey;type:uuid" json:"id"`
	Email            string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Username         string     `gorm:"size:20;not null;uniqueIndex" json:"username"`
	DisplayName      string     `gorm:"size:50;not null" json:"displayName"`
	PasswordHash     string     `gorm:"size:255;not null" json:"-"`
	AvatarURL        *string    `gorm:"size:255" json:"avatarUrl"`
	IsChild          bool       `gorm:"default:false" json:"isChild"`
	DateOfBirth      *time.Time `json:"dateOfBirth,omitempty"`
	EmailVerified    bool       `gorm:"default:false" json:"emailVerified"`
	EmailVerifyToken *string    `gorm:"size:64;index" json:"-"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"-"`
	LastSeenAt       *time.Time `json:"lastSeenAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
