package postgres

import (
	"time"
)

/*
 * 'InviteCode' is a single-use pairing token with the format PLAY-XXXX-XXXX.
 * It is never rewritten after being used; expiry is checked when it is read.
 */
type InviteCode struct {
	Code            string     `gorm:"primaryKey;size:14"`
	CreatedByUserID string     `gorm:"type:uuid;not null;index"`
	UsedByUserID    *string    `gorm:"type:uuid"`
	CreatedAt       time.Time  `gorm:"not null"`
	ExpiresAt       time.Time  `gorm:"not null;index"`
	UsedAt          *time.Time

	CreatedBy User `gorm:"foreignKey:CreatedByUserID;constraint:OnDelete:CASCADE"`
}

// Redeemable reports whether the code can still be used at the given instant.
func (i *InviteCode) Redeemable(now time.Time) bool {
	return i.UsedAt == nil && i.ExpiresAt.After(now)
}
