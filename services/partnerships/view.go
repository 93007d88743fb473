package partnerships

import (
	"DuoPlay/models/postgres"
	"encoding/json"
	"time"
)

type PartnerView struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"displayName"`
	Username    string     `json:"username"`
	AvatarURL   *string    `json:"avatarUrl"`
	LastSeenAt  *time.Time `json:"lastSeenAt"`
}

type GardenView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	GardenLevel int    `json:"gardenLevel"`
	TotalPlants int    `json:"totalPlants"`
}

type TreasureMapView struct {
	ID             string `json:"id"`
	CurrentWorld   string `json:"currentWorld"`
	TotalTreasures int    `json:"totalTreasures"`
}

type DoodleGalleryView struct {
	ID         string          `json:"id"`
	DrawingIDs json.RawMessage `json:"drawingIds"`
}

type Stats struct {
	SharedAchievements int64 `json:"sharedAchievements"`
	ActivityFeedItems  int64 `json:"activityFeedItems"`
}

// View is a partnership as seen by one member: the other member is the partner
type View struct {
	ID            string             `json:"id"`
	Partner       PartnerView        `json:"partner"`
	CreatedAt     time.Time          `json:"createdAt"`
	AcceptedAt    *time.Time         `json:"acceptedAt"`
	SharedGarden  *GardenView        `json:"sharedGarden"`
	TreasureMap   *TreasureMapView   `json:"treasureMap"`
	DoodleGallery *DoodleGalleryView `json:"doodleGallery"`
	Stats         Stats              `json:"stats"`
}

func newView(p *postgres.Partnership, partner *postgres.User) *View {
	view := &View{
		ID: p.ID,
		Partner: PartnerView{
			ID:          partner.ID,
			DisplayName: partner.DisplayName,
			Username:    partner.Username,
			AvatarURL:   partner.AvatarURL,
			LastSeenAt:  partner.LastSeenAt,
		},
		CreatedAt:  p.CreatedAt,
		AcceptedAt: p.AcceptedAt,
	}

	if g := p.SharedGarden; g != nil {
		view.SharedGarden = &GardenView{ID: g.ID, Name: g.Name, GardenLevel: g.GardenLevel, TotalPlants: g.TotalPlants}
	}
	if m := p.TreasureMap; m != nil {
		view.TreasureMap = &TreasureMapView{ID: m.ID, CurrentWorld: m.CurrentWorld, TotalTreasures: m.TotalTreasures}
	}
	if d := p.DoodleGallery; d != nil {
		drawings := json.RawMessage(d.DrawingIDs)
		if len(drawings) == 0 {
			drawings = json.RawMessage("[]")
		}
		view.DoodleGallery = &DoodleGalleryView{ID: d.ID, DrawingIDs: drawings}
	}
	return view
}
