package postgres

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PartnershipStatus string

const (
	PartnershipPending PartnershipStatus = "PENDING"
	PartnershipActive  PartnershipStatus = "ACTIVE"
)

/*
 * 'Partnership' pairs exactly two users. It owns one SharedGarden, one
 * TreasureMap and one DoodleGallery, all created in the same transaction.
 */
type Partnership struct {
	ID         string            `gorm:"primaryKey;type:uuid"`
	User1ID    string            `gorm:"type:uuid;not null;index"`
	User2ID    string            `gorm:"type:uuid;not null;index"`
	Status     PartnershipStatus `gorm:"size:16;not null;default:PENDING;index"`
	InviteCode string            `gorm:"size:14;not null"`
	CreatedAt  time.Time
	AcceptedAt *time.Time

	User1         User           `gorm:"foreignKey:User1ID;constraint:OnDelete:CASCADE"`
	User2         User           `gorm:"foreignKey:User2ID;constraint:OnDelete:CASCADE"`
	SharedGarden  *SharedGarden  `gorm:"foreignKey:PartnershipID"`
	TreasureMap   *TreasureMap   `gorm:"foreignKey:PartnershipID"`
	DoodleGallery *DoodleGallery `gorm:"foreignKey:PartnershipID"`
}

func (p *Partnership) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// GORM hook to ensure that a user is never paired with themselves
func (p *Partnership) BeforeSave(tx *gorm.DB) error {
	if p.User1ID == p.User2ID {
		return errors.New("a partnership needs two different users")
	}
	return nil
}

// PartnerOf returns the id of the other member, or "" if userID is not a member.
func (p *Partnership) PartnerOf(userID string) string {
	switch userID {
	case p.User1ID:
		return p.User2ID
	case p.User2ID:
		return p.User1ID
	}
	return ""
}

/*
 * 'PartnershipMember' holds one row per user taking part in an ACTIVE
 * partnership. UserID is the primary key, so the database itself rejects a
 * second active partnership for the same user.
 */
type PartnershipMember struct {
	UserID        string `gorm:"primaryKey;type:uuid"`
	PartnershipID string `gorm:"type:uuid;not null;index"`
	CreatedAt     time.Time

	Partnership Partnership `gorm:"foreignKey:PartnershipID;constraint:OnDelete:CASCADE"`
}
