package handlers

import (
	realtime_constants "DuoPlay/constants/realtime"
	"context"
	"log"

	"github.com/gin-gonic/gin"
)

// HandleGameJoin joins the connection to the room of one game of its
// partnership, e.g. "game:garden:{partnershipId}".
func HandleGameJoin(deps *Deps, session *Session) func(args ...interface{}) {
	return handleGameRoom(deps, session, true)
}

func HandleGameLeave(deps *Deps, session *Session) func(args ...interface{}) {
	return handleGameRoom(deps, session, false)
}

func handleGameRoom(deps *Deps, session *Session, join bool) func(args ...interface{}) {
	return func(args ...interface{}) {
		defer recoverHandler("game room", session)

		payload, ack := parseArgs(args)
		reply := func(response gin.H) {
			if ack != nil {
				ack([]any{response}, nil)
			} else if _, failed := response["error"]; failed {
				session.Conn.Emit("error", response)
			}
		}

		gameType := stringField(payload, "gameType")
		if !realtime_constants.GameTypes[gameType] {
			reply(gin.H{"error": "Unknown game type", "code": "VALIDATION_ERROR"})
			return
		}

		partnershipID, _ := session.Partner()
		if partnershipID == "" {
			ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
			partnership, _, err := deps.resolvePartner(ctx, session)
			cancel()
			if err != nil {
				log.Printf("[GAME-ROOM-ERROR] Error finding partnership of %s: %v", session.UserID, err)
				reply(gin.H{"error": "Could not load partnership", "code": "INTERNAL_ERROR"})
				return
			}
			if partnership == nil {
				reply(gin.H{"error": "You need an active partnership to do this", "code": "NO_PARTNERSHIP"})
				return
			}
			partnershipID = partnership.ID
		}

		room := realtime_constants.GameRoom(gameType, partnershipID)
		if join {
			session.Conn.Join(room)
			log.Printf("[GAME-ROOM] %s joined %s", session.Username, room)
		} else {
			session.Conn.Leave(room)
			log.Printf("[GAME-ROOM] %s left %s", session.Username, room)
		}
		reply(gin.H{"success": true, "room": room})
	}
}
