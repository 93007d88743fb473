package sync

import (
	"DuoPlay/services/redis"
	redis_utils "DuoPlay/services/redis/utils"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type delivery struct {
	room    string
	event   string
	payload json.RawMessage
}

func newRelay(t *testing.T, mr *miniredis.Miniredis, instanceID string) *Relay {
	t.Helper()
	rc, err := redis.InitRedis(mr.Addr(), 0)
	require.NoError(t, err)
	t.Cleanup(func() { redis.CloseRedis(rc) })
	return NewRelay(rc, instanceID)
}

func startCollecting(t *testing.T, ctx context.Context, r *Relay) (<-chan delivery, <-chan struct{}) {
	t.Helper()
	received := make(chan delivery, 10)
	done, err := r.Start(ctx, func(room, event string, payload json.RawMessage) {
		received <- delivery{room, event, payload}
	})
	require.NoError(t, err)
	return received, done
}

func TestRelayDeliversToOtherInstances(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	nodeA := newRelay(t, mr, "node-a")
	nodeB := newRelay(t, mr, "node-b")
	fromA, _ := startCollecting(t, ctx, nodeA)
	fromB, _ := startCollecting(t, ctx, nodeB)

	require.NoError(t, nodeA.Publish(ctx, "user:bob", "partner:online", map[string]string{"userId": "alice"}))

	select {
	case d := <-fromB:
		assert.Equal(t, "user:bob", d.room)
		assert.Equal(t, "partner:online", d.event)
		assert.JSONEq(t, `{"userId":"alice"}`, string(d.payload))
	case <-time.After(3 * time.Second):
		t.Fatal("node-b did not receive the relayed emit")
	}

	select {
	case d := <-fromA:
		t.Fatalf("origin instance received its own emit: %+v", d)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestRelaySkipsMalformedMessages(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	node := newRelay(t, mr, "node-a")
	received, _ := startCollecting(t, ctx, node)

	mr.Publish(redis_utils.RelayChannel, "garbage")
	require.NoError(t, newRelay(t, mr, "node-b").Publish(ctx, "partnership:p1", "notification", "hi"))

	select {
	case d := <-received:
		assert.Equal(t, "partnership:p1", d.room)
	case <-time.After(3 * time.Second):
		t.Fatal("valid message after garbage was not delivered")
	}
}

func TestRelayStopsOnCancel(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx, cancel := context.WithCancel(context.Background())

	_, done := startCollecting(t, ctx, newRelay(t, mr, "node-a"))
	cancel()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("relay did not stop after cancel")
	}
}

func TestPublishRejectsUnencodablePayload(t *testing.T) {
	mr := miniredis.RunT(t)
	node := newRelay(t, mr, "node-a")

	err := node.Publish(context.Background(), "user:x", "notification", make(chan int))
	assert.Error(t, err)
}
