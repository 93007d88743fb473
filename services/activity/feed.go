package activity

import (
	"DuoPlay/models/postgres"
	"DuoPlay/utils"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DefaultLimit = 20
	MaxLimit     = 50
)

var ErrInvalidCursor = utils.ValidationError(utils.FieldError{Field: "cursor", Message: "Invalid cursor"})

type AppendInput struct {
	Type        postgres.ActivityType `json:"type" binding:"required"`
	Title       string                `json:"title" binding:"required,max=120"`
	Description string                `json:"description" binding:"max=500"`
	Game        *string               `json:"game" binding:"omitempty,oneof=garden doodle treasure"`
	Data        json.RawMessage       `json:"data"`
}

// Page is one slice of the feed, newest first. NextCursor is nil on the last page.
type Page struct {
	Items      []postgres.ActivityFeedItem `json:"items"`
	NextCursor *string                     `json:"nextCursor"`
	HasMore    bool                        `json:"hasMore"`
}

// Feed is the append-only log of partnership events
type Feed struct {
	db *gorm.DB
}

func NewFeed(db *gorm.DB) *Feed {
	return &Feed{db: db}
}

func (f *Feed) Append(ctx context.Context, partnershipID, actorID string, in AppendInput) (*postgres.ActivityFeedItem, error) {
	if !postgres.ValidActivityType(in.Type) {
		return nil, utils.ValidationError(utils.FieldError{Field: "type", Message: "Unknown activity type"})
	}

	item := &postgres.ActivityFeedItem{
		PartnershipID: partnershipID,
		UserID:        actorID,
		Type:          in.Type,
		Title:         in.Title,
		Description:   in.Description,
		Game:          in.Game,
	}
	if len(in.Data) > 0 {
		item.Data = datatypes.JSON(in.Data)
	}
	if err := f.db.WithContext(ctx).Omit("Partnership", "User").Create(item).Error; err != nil {
		return nil, fmt.Errorf("appending feed item: %w", err)
	}
	return item, nil
}

// List returns up to limit items strictly older than cursor. An empty cursor
// starts from the newest item.
func (f *Feed) List(ctx context.Context, partnershipID string, limit int, cursor string) (*Page, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	query := f.db.WithContext(ctx).Where("partnership_id = ?", partnershipID)
	if cursor != "" {
		before, err := DecodeCursor(cursor)
		if err != nil {
			return nil, ErrInvalidCursor
		}
		query = query.Where("created_at < ?", before)
	}

	items := make([]postgres.ActivityFeedItem, 0, limit+1)
	if err := query.Order("created_at DESC").Limit(limit + 1).Find(&items).Error; err != nil {
		return nil, err
	}

	page := &Page{Items: items}
	if len(items) > limit {
		page.Items = items[:limit]
		page.HasMore = true
		next := EncodeCursor(page.Items[limit-1].CreatedAt)
		page.NextCursor = &next
	}
	return page, nil
}

func EncodeCursor(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func DecodeCursor(cursor string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, cursor)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
