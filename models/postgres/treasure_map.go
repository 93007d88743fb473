package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultTreasureWorld = "enchanted_forest"

type TreasureMap struct {
	ID             string `gorm:"primaryKey;type:uuid"`
	PartnershipID  string `gorm:"type:uuid;not null;uniqueIndex"`
	CurrentWorld   string `gorm:"size:50;not null"`
	TotalTreasures int    `gorm:"not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (m *TreasureMap) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
