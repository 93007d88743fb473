package realtime_constants

import "fmt"

// Server -> client events
const (
	EventPartnerOnline     = "partner:online"
	EventPartnerOffline    = "partner:offline"
	EventPartnerTyping     = "partner:typing"
	EventPartnerStopTyping = "partner:stopTyping"
	EventNotification      = "notification"
	EventPartnerStatus     = "presence:partnerStatus"
)

// Client -> server events
const (
	EventGetPartnerStatus = "presence:getPartnerStatus"
	EventHeartbeat        = "presence:heartbeat"
	EventTyping           = "presence:typing"
	EventStopTyping       = "presence:stopTyping"
	EventGameJoin         = "game:join"
	EventGameLeave        = "game:leave"
)

// Game types that have a room per partnership
var GameTypes = map[string]bool{
	"garden":   true,
	"doodle":   true,
	"treasure": true,
}

func UserRoom(userID string) string {
	return fmt.Sprintf("user:%s", userID)
}

func PartnershipRoom(partnershipID string) string {
	return fmt.Sprintf("partnership:%s", partnershipID)
}

func GameRoom(gameType, partnershipID string) string {
	return fmt.Sprintf("game:%s:%s", gameType, partnershipID)
}
