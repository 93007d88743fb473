package socketio_types

import (
	relay_sync "DuoPlay/sync"
	"context"
	"errors"
	"log"
	"time"

	"github.com/zishang520/socket.io/v2/socket"
)

var ErrServerNotStarted = errors.New("socket.io server not started")

// Emitter sends an event to every connection of a room, on every instance
type Emitter interface {
	EmitToRoom(room, event string, payload any) error
}

// Conn is the part of a socket the event handlers use
type Conn interface {
	ID() string
	Emit(event string, args ...any) error
	Join(rooms ...string)
	Leave(room string)
}

// SocketServer is a struct that contains the socket.io server and, when
// several instances run, the relay that forwards room emits between them.
type SocketServer struct {
	Sio_server *socket.Server
	Relay      *relay_sync.Relay
}

// EmitLocal emits to the room members connected to this instance
func (s *SocketServer) EmitLocal(room, event string, payload any) error {
	if s == nil || s.Sio_server == nil {
		return ErrServerNotStarted
	}
	return s.Sio_server.To(socket.Room(room)).Emit(event, payload)
}

// EmitToRoom emits locally and publishes the emit for the other instances.
// A failed publish is logged; local delivery already happened.
func (s *SocketServer) EmitToRoom(room, event string, payload any) error {
	if err := s.EmitLocal(room, event, payload); err != nil {
		return err
	}
	if s.Relay == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Relay.Publish(ctx, room, event, payload); err != nil {
		log.Printf("[RELAY-ERROR] Publishing %s to %s: %v", event, room, err)
	}
	return nil
}

// WrapSocket adapts a socket.io socket to Conn
func WrapSocket(client *socket.Socket) Conn {
	return socketConn{client}
}

type socketConn struct {
	client *socket.Socket
}

func (c socketConn) ID() string {
	return string(c.client.Id())
}

func (c socketConn) Emit(event string, args ...any) error {
	return c.client.Emit(event, args...)
}

func (c socketConn) Join(rooms ...string) {
	for _, room := range rooms {
		c.client.Join(socket.Room(room))
	}
}

func (c socketConn) Leave(room string) {
	c.client.Leave(socket.Room(room))
}
