package handlers

import (
	realtime_constants "DuoPlay/constants/realtime"
	"DuoPlay/models/postgres"
	"DuoPlay/services/presence"
	socketio_types "DuoPlay/services/socket_io/types"
	"context"
	"log"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const handlerTimeout = 5 * time.Second

// PartnerFinder resolves the ACTIVE partnership of a user and the partner
type PartnerFinder interface {
	FindPartner(ctx context.Context, userID string) (*postgres.Partnership, *postgres.User, error)
}

// LastSeenToucher persists the last time a user was seen
type LastSeenToucher interface {
	TouchLastSeen(ctx context.Context, userID string) (time.Time, error)
}

// Deps are the services the realtime handlers work with
type Deps struct {
	Presence     presence.Registry
	Partnerships PartnerFinder
	Users        LastSeenToucher
	Emitter      socketio_types.Emitter
	Now          func() time.Time
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now().UTC()
	}
	return time.Now().UTC()
}

// Session is the state of one authenticated connection
type Session struct {
	UserID   string
	Username string
	Conn     socketio_types.Conn

	mutex         sync.Mutex
	partnershipID string
	partnerID     string
	disconnected  bool
}

func NewSession(userID, username string, conn socketio_types.Conn) *Session {
	return &Session{UserID: userID, Username: username, Conn: conn}
}

// Partner returns the cached partnership and partner ids
func (s *Session) Partner() (partnershipID, partnerID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.partnershipID, s.partnerID
}

func (s *Session) setPartner(partnershipID, partnerID string) (joined bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	joined = s.partnershipID != partnershipID
	s.partnershipID, s.partnerID = partnershipID, partnerID
	return joined
}

// markDisconnected returns false if the session was already torn down
func (s *Session) markDisconnected() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.disconnected {
		return false
	}
	s.disconnected = true
	return true
}

// resolvePartner loads the partner of the session user and joins the
// partnership room the first time one is found. A user may get partnered after
// connecting, so an empty cache is always re-checked.
func (d *Deps) resolvePartner(ctx context.Context, s *Session) (*postgres.Partnership, *postgres.User, error) {
	partnership, partner, err := d.Partnerships.FindPartner(ctx, s.UserID)
	if err != nil || partnership == nil {
		return nil, nil, err
	}
	if s.setPartner(partnership.ID, partner.ID) {
		s.Conn.Join(realtime_constants.PartnershipRoom(partnership.ID))
	}
	return partnership, partner, nil
}

// partnerID returns the cached partner id, resolving it when unknown
func (d *Deps) partnerID(ctx context.Context, s *Session) (string, error) {
	if _, partnerID := s.Partner(); partnerID != "" {
		return partnerID, nil
	}
	_, partner, err := d.resolvePartner(ctx, s)
	if err != nil || partner == nil {
		return "", err
	}
	return partner.ID, nil
}

func (d *Deps) emitToPartner(partnerID, event string, payload gin.H) error {
	return d.Emitter.EmitToRoom(realtime_constants.UserRoom(partnerID), event, payload)
}

// recoverHandler must be deferred by every handler: socket.io does not
// recover panics raised by event listeners.
func recoverHandler(event string, session *Session) {
	if r := recover(); r != nil {
		log.Printf("[SOCKET-ERROR] Recovered from panic in %s of %s: %v", event, session.UserID, r)
	}
}

// Returns the first argument as an object and the ack callback, if any
func parseArgs(args []any) (payload map[string]any, ack func([]any, error)) {
	if len(args) == 0 {
		return map[string]any{}, nil
	}
	if fn, ok := args[len(args)-1].(func([]any, error)); ok {
		ack = fn
		args = args[:len(args)-1]
	}
	payload = map[string]any{}
	if len(args) > 0 {
		if m, ok := args[0].(map[string]any); ok {
			payload = m
		}
	}
	return payload, ack
}

func stringField(payload map[string]any, key string) string {
	v, _ := payload[key].(string)
	return v
}
