package activity

import (
	"DuoPlay/models/postgres"
	"DuoPlay/utils/testdb"
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedFeed(t *testing.T, db *gorm.DB, partnershipID, userID string, n int, start time.Time) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, db.Create(&postgres.ActivityFeedItem{
			PartnershipID: partnershipID,
			UserID:        userID,
			Type:          postgres.ActivityGamePlayed,
			Title:         fmt.Sprintf("item %02d", i),
			CreatedAt:     start.Add(time.Duration(i) * time.Second),
		}).Error)
	}
}

func TestListPagesThroughFeed(t *testing.T) {
	db := testdb.Open(t)
	feed := NewFeed(db)
	ctx := context.Background()

	partnershipID, userID := uuid.NewString(), uuid.NewString()
	start := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	seedFeed(t, db, partnershipID, userID, 45, start)
	seedFeed(t, db, uuid.NewString(), userID, 3, start)

	var (
		titles []string
		cursor string
		pages  int
	)
	for {
		page, err := feed.List(ctx, partnershipID, 20, cursor)
		require.NoError(t, err)
		pages++
		for _, item := range page.Items {
			titles = append(titles, item.Title)
		}
		if !page.HasMore {
			assert.Nil(t, page.NextCursor)
			break
		}
		require.NotNil(t, page.NextCursor)
		assert.Equal(t, EncodeCursor(page.Items[len(page.Items)-1].CreatedAt), *page.NextCursor)
		cursor = *page.NextCursor
	}

	assert.Equal(t, 3, pages)
	require.Len(t, titles, 45)
	assert.Equal(t, "item 44", titles[0])
	assert.Equal(t, "item 00", titles[44])
	for i := 1; i < len(titles); i++ {
		assert.Greater(t, titles[i-1], titles[i])
	}
}

func TestListExactPageHasNoMore(t *testing.T) {
	db := testdb.Open(t)
	feed := NewFeed(db)
	partnershipID := uuid.NewString()
	seedFeed(t, db, partnershipID, uuid.NewString(), 5, time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC))

	page, err := feed.List(context.Background(), partnershipID, 5, "")
	require.NoError(t, err)
	assert.Len(t, page.Items, 5)
	assert.False(t, page.HasMore)
	assert.Nil(t, page.NextCursor)
}

func TestListEmptyFeed(t *testing.T) {
	db := testdb.Open(t)

	page, err := NewFeed(db).List(context.Background(), uuid.NewString(), 0, "")
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)

	encoded, err := json.Marshal(page)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"nextCursor":null,"hasMore":false}`, string(encoded))
}

func TestListClampsLimit(t *testing.T) {
	db := testdb.Open(t)
	feed := NewFeed(db)
	partnershipID := uuid.NewString()
	seedFeed(t, db, partnershipID, uuid.NewString(), MaxLimit+5, time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC))

	page, err := feed.List(context.Background(), partnershipID, 1000, "")
	require.NoError(t, err)
	assert.Len(t, page.Items, MaxLimit)
	assert.True(t, page.HasMore)

	page, err = feed.List(context.Background(), partnershipID, -1, "")
	require.NoError(t, err)
	assert.Len(t, page.Items, DefaultLimit)
}

func TestListRejectsBadCursor(t *testing.T) {
	db := testdb.Open(t)

	_, err := NewFeed(db).List(context.Background(), uuid.NewString(), 10, "yesterday")
	assert.ErrorIs(t, err, ErrInvalidCursor)
}

func TestAppend(t *testing.T) {
	db := testdb.Open(t)
	feed := NewFeed(db)
	ctx := context.Background()
	partnershipID, userID := uuid.NewString(), uuid.NewString()
	game := "garden"

	item, err := feed.Append(ctx, partnershipID, userID, AppendInput{
		Type:        postgres.ActivityItemCreated,
		Title:       "Planted a sunflower",
		Description: "The garden grows",
		Game:        &game,
		Data:        json.RawMessage(`{"plant":"sunflower"}`),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.False(t, item.CreatedAt.IsZero())

	page, err := feed.List(ctx, partnershipID, 10, "")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, userID, page.Items[0].UserID)
	require.NotNil(t, page.Items[0].Game)
	assert.Equal(t, "garden", *page.Items[0].Game)
	assert.JSONEq(t, `{"plant":"sunflower"}`, string(page.Items[0].Data))

	_, err = feed.Append(ctx, partnershipID, userID, AppendInput{Type: "DANCED", Title: "x"})
	assert.Error(t, err)
}

func TestCursorRoundTrip(t *testing.T) {
	ts := time.Date(2025, 6, 1, 8, 0, 0, 123456789, time.FixedZone("CEST", 2*3600))

	decoded, err := DecodeCursor(EncodeCursor(ts))
	require.NoError(t, err)
	assert.True(t, decoded.Equal(ts))
	assert.Equal(t, time.UTC, decoded.Location())
}
