package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ActivityType string

const (
	ActivityGamePlayed          ActivityType = "GAME_PLAYED"
	ActivityGiftSent            ActivityType = "GIFT_SENT"
	ActivityAchievementUnlocked ActivityType = "ACHIEVEMENT_UNLOCKED"
	ActivityItemCreated         ActivityType = "ITEM_CREATED"
	ActivityMessageSent         ActivityType = "MESSAGE_SENT"
	ActivityDiscoveryMade       ActivityType = "DISCOVERY_MADE"
)

// ActivityFeedItem is append-only.
type ActivityFeedItem struct {
	ID            string         `gorm:"primaryKey;type:uuid" json:"id"`
	PartnershipID string         `gorm:"type:uuid;not null;index:idx_feed_partnership_created,priority:1" json:"partnershipId"`
	UserID        string         `gorm:"type:uuid;not null" json:"userId"`
	Type          ActivityType   `gorm:"size:32;not null" json:"type"`
	Title         string         `gorm:"size:120;not null" json:"title"`
	Description   string         `gorm:"size:500" json:"description"`
	Game          *string        `gorm:"size:32" json:"game,omitempty"`
	Data          datatypes.JSON `gorm:"type:jsonb" json:"data,omitempty"`
	CreatedAt     time.Time      `gorm:"index:idx_feed_partnership_created,priority:2" json:"createdAt"`

	Partnership Partnership `gorm:"foreignKey:PartnershipID;constraint:OnDelete:CASCADE" json:"-"`
	User        User        `gorm:"foreignKey:UserID" json:"-"`
}

func (a *ActivityFeedItem) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// ValidActivityType reports whether t is one of the known feed item types.
func ValidActivityType(t ActivityType) bool {
	switch t {
	case ActivityGamePlayed, ActivityGiftSent, ActivityAchievementUnlocked,
		ActivityItemCreated, ActivityMessageSent, ActivityDiscoveryMade:
		return true
	}
	return false
}
