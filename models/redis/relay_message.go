package redis

import "encoding/json"

// RelayMessage carries a room emit from one gateway instance to the others.
type RelayMessage struct {
	Origin  string          `json:"origin"`
	Room    string          `json:"room"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}
