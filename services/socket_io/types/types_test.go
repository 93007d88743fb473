package socketio_types

import (
	"DuoPlay/services/redis"
	relay_sync "DuoPlay/sync"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zishang520/socket.io/v2/socket"
)

func TestEmitBeforeStart(t *testing.T) {
	var s *SocketServer
	assert.ErrorIs(t, s.EmitToRoom("user:1", "notification", nil), ErrServerNotStarted)
	assert.ErrorIs(t, (&SocketServer{}).EmitLocal("user:1", "notification", nil), ErrServerNotStarted)
}

func TestEmitToRoomPublishesForOtherInstances(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	newClient := func() *redis.RedisClient {
		rc, err := redis.InitRedis(mr.Addr(), 0)
		require.NoError(t, err)
		t.Cleanup(func() { redis.CloseRedis(rc) })
		return rc
	}

	received := make(chan string, 1)
	_, err := relay_sync.NewRelay(newClient(), "node-b").Start(ctx, func(room, event string, payload json.RawMessage) {
		received <- room + " " + event + " " + string(payload)
	})
	require.NoError(t, err)

	srv := socket.NewServer(nil, nil)
	defer srv.Close(nil)
	s := &SocketServer{Sio_server: srv, Relay: relay_sync.NewRelay(newClient(), "node-a")}

	require.NoError(t, s.EmitToRoom("user:bob", "partner:online", map[string]string{"userId": "alice"}))

	select {
	case got := <-received:
		assert.Equal(t, `user:bob partner:online {"userId":"alice"}`, got)
	case <-time.After(3 * time.Second):
		t.Fatal("emit was not relayed")
	}
}
