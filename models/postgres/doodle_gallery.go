package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DoodleGallery struct {
	ID            string         `gorm:"primaryKey;type:uuid"`
	PartnershipID string         `gorm:"type:uuid;not null;uniqueIndex"`
	DrawingIDs    datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (d *DoodleGallery) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if len(d.DrawingIDs) == 0 {
		d.DrawingIDs = datatypes.JSON("[]")
	}
	return nil
}
