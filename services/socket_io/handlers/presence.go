package handlers

import (
	realtime_constants "DuoPlay/constants/realtime"
	"context"
	"log"

	"github.com/gin-gonic/gin"
)

// HandleGetPartnerStatus answers with the current status of the partner, so a
// client that just connected does not have to wait for the next push.
// Clients that do not pass an ack get a "presence:partnerStatus" event instead.
func HandleGetPartnerStatus(deps *Deps, session *Session) func(args ...interface{}) {
	return func(args ...interface{}) {
		defer recoverHandler(realtime_constants.EventGetPartnerStatus, session)

		_, ack := parseArgs(args)
		reply := func(response gin.H) {
			if ack != nil {
				ack([]any{response}, nil)
				return
			}
			session.Conn.Emit(realtime_constants.EventPartnerStatus, response)
		}

		ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
		defer cancel()

		partnership, partner, err := deps.resolvePartner(ctx, session)
		if err != nil {
			log.Printf("[PRESENCE-ERROR] Error finding partner of %s: %v", session.UserID, err)
			reply(gin.H{"error": "Could not load partner status"})
			return
		}
		if partnership == nil {
			reply(gin.H{"error": "No partnership"})
			return
		}

		online, err := deps.Presence.IsOnline(ctx, partner.ID)
		if err != nil {
			log.Printf("[PRESENCE-ERROR] Error checking presence of %s: %v", partner.ID, err)
		}
		reply(gin.H{
			"partnerId":  partner.ID,
			"isOnline":   online,
			"lastSeenAt": partner.LastSeenAt,
		})
	}
}

// HandleHeartbeat keeps the presence entry alive and refreshes lastSeenAt.
// Fire and forget.
func HandleHeartbeat(deps *Deps, session *Session) func(args ...interface{}) {
	return func(args ...interface{}) {
		defer recoverHandler(realtime_constants.EventHeartbeat, session)

		ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
		defer cancel()

		if err := deps.Presence.Refresh(ctx, session.UserID, session.Conn.ID()); err != nil {
			log.Printf("[HEARTBEAT-ERROR] Error refreshing presence of %s: %v", session.UserID, err)
		}
		if _, err := deps.Users.TouchLastSeen(ctx, session.UserID); err != nil {
			log.Printf("[HEARTBEAT-ERROR] Error updating lastSeenAt of %s: %v", session.UserID, err)
		}
	}
}

// HandleTyping relays a typing indicator to the partner. Nothing is stored and
// delivery is not guaranteed.
func HandleTyping(deps *Deps, session *Session) func(args ...interface{}) {
	return relayTyping(deps, session, realtime_constants.EventPartnerTyping)
}

func HandleStopTyping(deps *Deps, session *Session) func(args ...interface{}) {
	return relayTyping(deps, session, realtime_constants.EventPartnerStopTyping)
}

func relayTyping(deps *Deps, session *Session, event string) func(args ...interface{}) {
	return func(args ...interface{}) {
		defer recoverHandler(event, session)

		payload, _ := parseArgs(args)

		ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
		defer cancel()

		partnerID, err := deps.partnerID(ctx, session)
		if err != nil {
			log.Printf("[TYPING-ERROR] Error finding partner of %s: %v", session.UserID, err)
			return
		}
		if partnerID == "" {
			return
		}

		out := gin.H{"userId": session.UserID}
		if typingContext := stringField(payload, "context"); typingContext != "" {
			out["context"] = typingContext
		}
		if contextID := stringField(payload, "contextId"); contextID != "" {
			out["contextId"] = contextID
		}
		if err := deps.emitToPartner(partnerID, event, out); err != nil {
			log.Printf("[TYPING-ERROR] Error relaying %s to %s: %v", event, partnerID, err)
		}
	}
}
