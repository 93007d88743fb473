package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/*
 * 'Achievement' is an entry of the static achievement catalog. Shared ones are
 * unlocked per partnership and recorded as SharedAchievement rows.
 */
type Achievement struct {
	ID          string         `gorm:"primaryKey;type:uuid"`
	Key         string         `gorm:"size:64;not null;uniqueIndex"`
	Name        string         `gorm:"size:100;not null"`
	Description string         `gorm:"size:255"`
	IconURL     string         `gorm:"size:255"`
	Category    string         `gorm:"size:32;not null;index"`
	Points      int            `gorm:"not null;default:0"`
	IsShared    bool           `gorm:"default:false"`
	Requirement datatypes.JSON `gorm:"type:jsonb"`
}

func (a *Achievement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

type SharedAchievement struct {
	ID            string    `gorm:"primaryKey;type:uuid"`
	PartnershipID string    `gorm:"type:uuid;not null;uniqueIndex:idx_shared_achievement"`
	AchievementID string    `gorm:"type:uuid;not null;uniqueIndex:idx_shared_achievement"`
	UnlockedAt    time.Time `gorm:"not null"`

	Partnership Partnership `gorm:"foreignKey:PartnershipID;constraint:OnDelete:CASCADE"`
	Achievement Achievement `gorm:"foreignKey:AchievementID;constraint:OnDelete:CASCADE"`
}

func (s *SharedAchievement) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
