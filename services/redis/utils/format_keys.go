package redis_utils

import "fmt"

const RelayChannel = "duoplay:relay"

// Key format: "presence:{userId}"
func FormatPresenceKey(userID string) string {
	return fmt.Sprintf("presence:%s", userID)
}
