package handlers

import (
	"DuoPlay/models/postgres"
	"DuoPlay/services/auth"
	"DuoPlay/services/partnerships"
	"DuoPlay/services/presence"
	"DuoPlay/utils/testdb"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type emitted struct {
	room    string
	event   string
	payload any
}

type fakeEmitter struct {
	mu     sync.Mutex
	events []emitted
}

func (f *fakeEmitter) EmitToRoom(room, event string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, emitted{room, event, payload})
	return nil
}

func (f *fakeEmitter) to(room string) []emitted {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []emitted
	for _, e := range f.events {
		if e.room == room {
			out = append(out, e)
		}
	}
	return out
}

type fakeConn struct {
	id    string
	mu    sync.Mutex
	rooms map[string]bool
	emits []emitted
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id, rooms: map[string]bool{}}
}

func (c *fakeConn) ID() string { return c.id }

func (c *fakeConn) Emit(event string, args ...any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var payload any
	if len(args) > 0 {
		payload = args[0]
	}
	c.emits = append(c.emits, emitted{event: event, payload: payload})
	return nil
}

func (c *fakeConn) Join(rooms ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, room := range rooms {
		c.rooms[room] = true
	}
}

func (c *fakeConn) Leave(room string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rooms, room)
}

func (c *fakeConn) in(room string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rooms[room]
}

type failingFinder struct{}

func (failingFinder) FindPartner(context.Context, string) (*postgres.Partnership, *postgres.User, error) {
	return nil, nil, errors.New("database is down")
}

type panickingFinder struct{}

func (panickingFinder) FindPartner(context.Context, string) (*postgres.Partnership, *postgres.User, error) {
	panic("unexpected nil partnership row")
}

// Every method panics on the nil embedded interface
type panickingRegistry struct{ presence.Registry }

type gatewayFixture struct {
	db          *gorm.DB
	deps        *Deps
	emitter     *fakeEmitter
	registry    *presence.MemoryRegistry
	alice, bob  *postgres.User
	partnership *postgres.Partnership
}

var fixedNow = time.Date(2025, 7, 1, 18, 0, 0, 0, time.UTC)

func newGatewayFixture(t *testing.T, paired bool) *gatewayFixture {
	t.Helper()
	db := testdb.Open(t)
	f := &gatewayFixture{
		db:       db,
		emitter:  &fakeEmitter{},
		registry: presence.NewMemoryRegistry(),
		alice:    testdb.CreateUser(t, db, "alice"),
		bob:      testdb.CreateUser(t, db, "bob"),
	}

	store := partnerships.NewStore(db)
	users := auth.NewService(db, auth.NewTokenManager("secret", time.Minute), auth.Options{BcryptCost: bcrypt.MinCost})
	f.deps = &Deps{
		Presence:     f.registry,
		Partnerships: store,
		Users:        users,
		Emitter:      f.emitter,
		Now:          func() time.Time { return fixedNow },
	}

	if paired {
		require.NoError(t, db.Create(&postgres.InviteCode{
			Code: "PLAY-GATE-0001", CreatedByUserID: f.alice.ID,
			CreatedAt: time.Now(), ExpiresAt: time.Now().Add(time.Hour),
		}).Error)
		p, err := store.Materialize(context.Background(), f.alice.ID, f.bob.ID, "PLAY-GATE-0001", time.Now())
		require.NoError(t, err)
		f.partnership = p
	}
	return f
}

func (f *gatewayFixture) connect(user *postgres.User, connID string) (*Session, *fakeConn) {
	conn := newFakeConn(connID)
	session := NewSession(user.ID, user.Username, conn)
	HandleConnect(f.deps, session)
	return session, conn
}

func TestConnectAnnouncesToPartnerAndAnswersStatus(t *testing.T) {
	f := newGatewayFixture(t, true)

	_, bobConn := f.connect(f.bob, "conn-bob")
	assert.True(t, bobConn.in("user:"+f.bob.ID))
	assert.True(t, bobConn.in("partnership:"+f.partnership.ID))

	aliceSession, _ := f.connect(f.alice, "conn-alice")

	toBob := f.emitter.to("user:" + f.bob.ID)
	require.Len(t, toBob, 1)
	assert.Equal(t, "partner:online", toBob[0].event)
	assert.Equal(t, gin.H{"userId": f.alice.ID, "timestamp": fixedNow}, toBob[0].payload)

	var ackResponse []any
	HandleGetPartnerStatus(f.deps, aliceSession)(func(args []any, err error) {
		ackResponse = args
	})
	require.Len(t, ackResponse, 1)
	status := ackResponse[0].(gin.H)
	assert.Equal(t, f.bob.ID, status["partnerId"])
	assert.Equal(t, true, status["isOnline"])
	assert.NotNil(t, status["lastSeenAt"])
}

func TestConnectUpdatesLastSeen(t *testing.T) {
	f := newGatewayFixture(t, false)

	f.connect(f.alice, "conn-alice")

	var user postgres.User
	require.NoError(t, f.db.First(&user, "id = ?", f.alice.ID).Error)
	require.NotNil(t, user.LastSeenAt)
	assert.WithinDuration(t, time.Now(), *user.LastSeenAt, time.Minute)

	online, _ := f.registry.IsOnline(context.Background(), f.alice.ID)
	assert.True(t, online)
	assert.Empty(t, f.emitter.events, "unpartnered users notify nobody")
}

func TestDisconnectNotifiesPartnerOnce(t *testing.T) {
	f := newGatewayFixture(t, true)
	aliceSession, _ := f.connect(f.alice, "conn-alice")

	disconnect := HandleDisconnect(f.deps, aliceSession)
	disconnect("transport close")
	disconnect("transport close")

	toBob := f.emitter.to("user:" + f.bob.ID)
	require.Len(t, toBob, 2)
	assert.Equal(t, "partner:online", toBob[0].event)
	assert.Equal(t, "partner:offline", toBob[1].event)
	assert.Equal(t, gin.H{"userId": f.alice.ID, "timestamp": fixedNow}, toBob[1].payload)

	online, _ := f.registry.IsOnline(context.Background(), f.alice.ID)
	assert.False(t, online)
}

func TestStaleDisconnectKeepsNewerConnection(t *testing.T) {
	f := newGatewayFixture(t, true)
	oldSession, _ := f.connect(f.alice, "conn-old")
	f.connect(f.alice, "conn-new")

	HandleDisconnect(f.deps, oldSession)("ping timeout")

	online, _ := f.registry.IsOnline(context.Background(), f.alice.ID)
	assert.True(t, online)
	for _, e := range f.emitter.to("user:" + f.bob.ID) {
		assert.NotEqual(t, "partner:offline", e.event)
	}
}

func TestDisconnectSurvivesPartnershipLookupFailure(t *testing.T) {
	f := newGatewayFixture(t, true)
	f.deps.Partnerships = failingFinder{}

	session, _ := f.connect(f.alice, "conn-alice")
	assert.NotPanics(t, func() {
		HandleDisconnect(f.deps, session)("transport error")
	})

	online, _ := f.registry.IsOnline(context.Background(), f.alice.ID)
	assert.False(t, online)
	assert.Empty(t, f.emitter.events)
}

func TestPartnerStatusWithoutPartnership(t *testing.T) {
	f := newGatewayFixture(t, false)
	session, conn := f.connect(f.alice, "conn-alice")

	// no ack: the answer comes back as an event
	HandleGetPartnerStatus(f.deps, session)()

	require.Len(t, conn.emits, 1)
	assert.Equal(t, "presence:partnerStatus", conn.emits[0].event)
	assert.Equal(t, gin.H{"error": "No partnership"}, conn.emits[0].payload)

	var status gin.H
	HandleGetPartnerStatus(f.deps, session)(func(args []any, err error) {
		status = args[0].(gin.H)
	})
	assert.Equal(t, gin.H{"error": "No partnership"}, status)
}

func TestPartnerStatusOffline(t *testing.T) {
	f := newGatewayFixture(t, true)
	session, _ := f.connect(f.alice, "conn-alice")

	var status gin.H
	HandleGetPartnerStatus(f.deps, session)(map[string]any{}, func(args []any, err error) {
		status = args[0].(gin.H)
	})
	assert.Equal(t, false, status["isOnline"])
	assert.Equal(t, f.bob.ID, status["partnerId"])
}

func TestTypingIsRelayedToPartnerOnly(t *testing.T) {
	f := newGatewayFixture(t, true)
	session, _ := f.connect(f.alice, "conn-alice")

	HandleTyping(f.deps, session)(map[string]any{"context": "doodle", "contextId": "d-1"})
	HandleStopTyping(f.deps, session)(map[string]any{"context": "doodle"})

	toBob := f.emitter.to("user:" + f.bob.ID)
	require.Len(t, toBob, 3)
	assert.Equal(t, "partner:typing", toBob[1].event)
	assert.Equal(t, gin.H{"userId": f.alice.ID, "context": "doodle", "contextId": "d-1"}, toBob[1].payload)
	assert.Equal(t, "partner:stopTyping", toBob[2].event)
	assert.Equal(t, gin.H{"userId": f.alice.ID, "context": "doodle"}, toBob[2].payload)

	assert.Empty(t, f.emitter.to("user:"+f.alice.ID))
}

func TestTypingWithoutPartnerIsDropped(t *testing.T) {
	f := newGatewayFixture(t, false)
	session, _ := f.connect(f.alice, "conn-alice")

	HandleTyping(f.deps, session)(map[string]any{"context": "chat"})
	assert.Empty(t, f.emitter.events)
}

func TestPartnerFoundAfterConnect(t *testing.T) {
	f := newGatewayFixture(t, false)
	session, conn := f.connect(f.alice, "conn-alice")

	// alice gets paired over REST while connected
	store := partnerships.NewStore(f.db)
	require.NoError(t, f.db.Create(&postgres.InviteCode{
		Code: "PLAY-LATE-0001", CreatedByUserID: f.alice.ID,
		CreatedAt: time.Now(), ExpiresAt: time.Now().Add(time.Hour),
	}).Error)
	p, err := store.Materialize(context.Background(), f.alice.ID, f.bob.ID, "PLAY-LATE-0001", time.Now())
	require.NoError(t, err)

	HandleTyping(f.deps, session)(map[string]any{"context": "garden"})

	require.Len(t, f.emitter.to("user:"+f.bob.ID), 1)
	assert.True(t, conn.in("partnership:"+p.ID))
}

func TestHeartbeatRefreshesLastSeen(t *testing.T) {
	f := newGatewayFixture(t, false)
	session, _ := f.connect(f.alice, "conn-alice")
	require.NoError(t, f.db.Model(&postgres.User{}).Where("id = ?", f.alice.ID).
		Update("last_seen_at", time.Now().Add(-time.Hour)).Error)

	HandleHeartbeat(f.deps, session)()

	var user postgres.User
	require.NoError(t, f.db.First(&user, "id = ?", f.alice.ID).Error)
	assert.WithinDuration(t, time.Now(), *user.LastSeenAt, time.Minute)
}

func TestGameRooms(t *testing.T) {
	f := newGatewayFixture(t, true)
	session, conn := f.connect(f.alice, "conn-alice")
	room := "game:garden:" + f.partnership.ID

	var reply gin.H
	ack := func(args []any, err error) { reply = args[0].(gin.H) }

	HandleGameJoin(f.deps, session)(map[string]any{"gameType": "garden"}, ack)
	assert.Equal(t, gin.H{"success": true, "room": room}, reply)
	assert.True(t, conn.in(room))

	HandleGameLeave(f.deps, session)(map[string]any{"gameType": "garden"}, ack)
	assert.False(t, conn.in(room))

	HandleGameJoin(f.deps, session)(map[string]any{"gameType": "poker"}, ack)
	assert.Equal(t, "VALIDATION_ERROR", reply["code"])
}

func TestGameRoomsNeedPartnership(t *testing.T) {
	f := newGatewayFixture(t, false)
	session, conn := f.connect(f.alice, "conn-alice")

	HandleGameJoin(f.deps, session)(map[string]any{"gameType": "doodle"})

	require.Len(t, conn.emits, 1)
	assert.Equal(t, "error", conn.emits[0].event)
	assert.Equal(t, "NO_PARTNERSHIP", conn.emits[0].payload.(gin.H)["code"])
}

func TestHandlersRecoverFromPanics(t *testing.T) {
	f := newGatewayFixture(t, true)
	session := NewSession(f.alice.ID, f.alice.Username, newFakeConn("conn-alice"))
	f.deps.Partnerships = panickingFinder{}

	assert.NotPanics(t, func() { HandleConnect(f.deps, session) })
	assert.NotPanics(t, func() { HandleGetPartnerStatus(f.deps, session)() })
	assert.NotPanics(t, func() { HandleTyping(f.deps, session)(map[string]any{"context": "chat"}) })
	assert.NotPanics(t, func() { HandleStopTyping(f.deps, session)(map[string]any{"context": "chat"}) })
	assert.NotPanics(t, func() { HandleGameJoin(f.deps, session)(map[string]any{"gameType": "garden"}) })
	assert.NotPanics(t, func() { HandleGameLeave(f.deps, session)(map[string]any{"gameType": "garden"}) })

	f.deps.Presence = panickingRegistry{}
	assert.NotPanics(t, func() { HandleHeartbeat(f.deps, session)() })
	assert.NotPanics(t, func() { HandleDisconnect(f.deps, session)("transport close") })
	assert.Empty(t, f.emitter.events)
}
