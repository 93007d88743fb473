package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultGardenName = "Our Garden"

type SharedGarden struct {
	ID            string `gorm:"primaryKey;type:uuid"`
	PartnershipID string `gorm:"type:uuid;not null;uniqueIndex"`
	Name          string `gorm:"size:50;not null"`
	GardenLevel   int    `gorm:"not null;default:1"`
	TotalPlants   int    `gorm:"not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (g *SharedGarden) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}
