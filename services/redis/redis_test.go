package redis

import (
	redis_models "DuoPlay/models/redis"
	redis_utils "DuoPlay/services/redis/utils"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rc, err := InitRedis(mr.Addr(), 0)
	require.NoError(t, err)
	t.Cleanup(func() { CloseRedis(rc) })
	return rc, mr
}

func TestPresenceOperations(t *testing.T) {
	rc, mr := newTestClient(t)
	ctx := context.Background()

	entry := &redis_models.PresenceEntry{
		UserID:       "user-1",
		ConnectionID: "conn-a",
		InstanceID:   "node-1",
		ConnectedAt:  time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	t.Run("save and get", func(t *testing.T) {
		require.NoError(t, rc.SavePresence(ctx, entry, time.Minute))

		got, err := rc.GetPresence(ctx, "user-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, *entry, *got)
		assert.Equal(t, time.Minute, mr.TTL(redis_utils.FormatPresenceKey("user-1")))
	})

	t.Run("missing user", func(t *testing.T) {
		got, err := rc.GetPresence(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("refresh only for owner", func(t *testing.T) {
		ok, err := rc.RefreshPresence(ctx, "user-1", "conn-other", 5*time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = rc.RefreshPresence(ctx, "user-1", "conn-a", 5*time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 5*time.Minute, mr.TTL(redis_utils.FormatPresenceKey("user-1")))
	})

	t.Run("delete only for owner", func(t *testing.T) {
		ok, err := rc.DeletePresenceIfOwner(ctx, "user-1", "conn-other")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.True(t, mr.Exists(redis_utils.FormatPresenceKey("user-1")))

		ok, err = rc.DeletePresenceIfOwner(ctx, "user-1", "conn-a")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.False(t, mr.Exists(redis_utils.FormatPresenceKey("user-1")))
	})

	t.Run("entry expires", func(t *testing.T) {
		require.NoError(t, rc.SavePresence(ctx, entry, time.Second))
		mr.FastForward(2 * time.Second)

		got, err := rc.GetPresence(ctx, "user-1")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestPublishSubscribe(t *testing.T) {
	rc, _ := newTestClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub, err := rc.Subscribe(ctx, redis_utils.RelayChannel)
	require.NoError(t, err)
	defer sub.Close()

	msg := &redis_models.RelayMessage{
		Origin:  "node-1",
		Room:    "user:abc",
		Event:   "notification",
		Payload: []byte(`{"id":"n1"}`),
	}
	require.NoError(t, rc.Publish(ctx, redis_utils.RelayChannel, msg))

	select {
	case received := <-sub.Channel():
		decoded, err := DecodeRelayMessage(received.Payload)
		require.NoError(t, err)
		assert.Equal(t, msg.Origin, decoded.Origin)
		assert.Equal(t, msg.Room, decoded.Room)
		assert.Equal(t, msg.Event, decoded.Event)
		assert.JSONEq(t, `{"id":"n1"}`, string(decoded.Payload))
	case <-ctx.Done():
		t.Fatal("relay message not received")
	}
}

func TestDecodeRelayMessageRejectsIncompleteMessages(t *testing.T) {
	_, err := DecodeRelayMessage(`{"origin":"x"}`)
	assert.Error(t, err)

	_, err = DecodeRelayMessage(`not json`)
	assert.Error(t, err)
}

func TestNewRedisClientRejectsBadURL(t *testing.T) {
	_, err := NewRedisClient("redis://localhost:6379/notanumber", 0)
	assert.Error(t, err)
}
