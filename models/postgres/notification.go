package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationPartnerJoined       NotificationType = "PARTNER_JOINED"
	NotificationPartnerOnline       NotificationType = "PARTNER_ONLINE"
	NotificationGameUpdate          NotificationType = "GAME_UPDATE"
	NotificationGiftReceived        NotificationType = "GIFT_RECEIVED"
	NotificationAchievementUnlocked NotificationType = "ACHIEVEMENT_UNLOCKED"
	NotificationVoiceMessage        NotificationType = "VOICE_MESSAGE"
	NotificationTurnReady           NotificationType = "TURN_READY"
)

/*
 * 'Notification' is delivered to a single user. Only IsRead ever changes, and
 * only from false to true.
 */
type Notification struct {
	ID        string           `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string           `gorm:"type:uuid;not null;index:idx_notifications_user_created,priority:1" json:"-"`
	Type      NotificationType `gorm:"size:32;not null" json:"type"`
	Title     string           `gorm:"size:120;not null" json:"title"`
	Message   string           `gorm:"size:500;not null" json:"message"`
	Data      datatypes.JSON   `gorm:"type:jsonb" json:"data,omitempty"`
	IsRead    bool             `gorm:"not null;default:false;index" json:"isRead"`
	CreatedAt time.Time        `gorm:"index:idx_notifications_user_created,priority:2" json:"createdAt"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
