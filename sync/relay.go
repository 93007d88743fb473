// Package sync keeps several gateway instances in step. Room emits made on
// one instance are published on Redis and replayed by the others.
package sync

import (
	redis_models "DuoPlay/models/redis"
	"DuoPlay/services/redis"
	redis_utils "DuoPlay/services/redis/utils"
	"context"
	"encoding/json"
	"fmt"
	"log"
)

// DeliverFunc emits a relayed event to the local sockets of a room
type DeliverFunc func(room, event string, payload json.RawMessage)

type Relay struct {
	pubsub     redis.PubSub
	channel    string
	instanceID string
}

// NewRelay creates a relay publishing on the shared relay channel
func NewRelay(pubsub redis.PubSub, instanceID string) *Relay {
	return &Relay{
		pubsub:     pubsub,
		channel:    redis_utils.RelayChannel,
		instanceID: instanceID,
	}
}

func (r *Relay) InstanceID() string {
	return r.instanceID
}

// Publish announces a room emit to the other instances
func (r *Relay) Publish(ctx context.Context, room, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error marshaling payload for %s: %v", event, err)
	}
	return r.pubsub.Publish(ctx, r.channel, &redis_models.RelayMessage{
		Origin:  r.instanceID,
		Room:    room,
		Event:   event,
		Payload: data,
	})
}

// Start subscribes to the relay channel and delivers messages published by
// other instances until ctx is cancelled. The subscription is active when
// Start returns; the returned channel is closed once delivery stops.
func (r *Relay) Start(ctx context.Context, deliver DeliverFunc) (<-chan struct{}, error) {
	sub, err := r.pubsub.Subscribe(ctx, r.channel)
	if err != nil {
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer sub.Close()

		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case received, ok := <-messages:
				if !ok {
					return
				}
				msg, err := redis.DecodeRelayMessage(received.Payload)
				if err != nil {
					log.Printf("[RELAY-ERROR] Dropping message: %v", err)
					continue
				}
				if msg.Origin == r.instanceID {
					continue
				}
				deliver(msg.Room, msg.Event, msg.Payload)
			}
		}
	}()

	log.Printf("[RELAY] Instance %s listening on %s", r.instanceID, r.channel)
	return done, nil
}
