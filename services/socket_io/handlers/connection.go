package handlers

import (
	realtime_constants "DuoPlay/constants/realtime"
	"context"
	"log"

	"github.com/gin-gonic/gin"
)

// HandleConnect registers an authenticated connection: it joins the personal
// and partnership rooms, marks the user online, refreshes lastSeenAt and tells
// the partner. Failures are logged; the connection stays usable.
func HandleConnect(deps *Deps, session *Session) {
	defer recoverHandler("connect", session)

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	log.Printf("[CONNECT] Usuario %s conectado - Socket ID: %s", session.Username, session.Conn.ID())
	session.Conn.Join(realtime_constants.UserRoom(session.UserID))

	if err := deps.Presence.MarkOnline(ctx, session.UserID, session.Conn.ID()); err != nil {
		log.Printf("[CONNECT-ERROR] Error marking %s online: %v", session.UserID, err)
	}
	if _, err := deps.Users.TouchLastSeen(ctx, session.UserID); err != nil {
		log.Printf("[CONNECT-ERROR] Error updating lastSeenAt of %s: %v", session.UserID, err)
	}

	partnership, partner, err := deps.resolvePartner(ctx, session)
	if err != nil {
		log.Printf("[CONNECT-ERROR] Error finding partnership of %s: %v", session.UserID, err)
		return
	}
	if partnership == nil {
		return
	}

	err = deps.emitToPartner(partner.ID, realtime_constants.EventPartnerOnline, gin.H{
		"userId":    session.UserID,
		"timestamp": deps.now(),
	})
	if err != nil {
		log.Printf("[CONNECT-ERROR] Error notifying partner %s: %v", partner.ID, err)
	}
}

// HandleDisconnect tears the connection down. It runs at most once per session
// and never fails: a partnership lookup error only means nobody is told.
func HandleDisconnect(deps *Deps, session *Session) func(args ...interface{}) {
	return func(args ...interface{}) {
		defer recoverHandler("disconnect", session)

		if !session.markDisconnected() {
			return
		}
		log.Printf("[DISCONNECT] Usuario %s desconectado - Razón: %v", session.Username, args)

		ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
		defer cancel()

		removed, err := deps.Presence.MarkOffline(ctx, session.UserID, session.Conn.ID())
		if err != nil {
			log.Printf("[DISCONNECT-ERROR] Error marking %s offline: %v", session.UserID, err)
		}
		if _, err := deps.Users.TouchLastSeen(ctx, session.UserID); err != nil {
			log.Printf("[DISCONNECT-ERROR] Error updating lastSeenAt of %s: %v", session.UserID, err)
		}

		// A newer connection of the same user took over; the user is still online
		if err == nil && !removed {
			log.Printf("[DISCONNECT] %s still has a newer connection, not notifying", session.UserID)
			return
		}

		partnerID, err := deps.partnerID(ctx, session)
		if err != nil {
			log.Printf("[DISCONNECT-ERROR] Error finding partner of %s: %v", session.UserID, err)
			return
		}
		if partnerID == "" {
			return
		}

		err = deps.emitToPartner(partnerID, realtime_constants.EventPartnerOffline, gin.H{
			"userId":    session.UserID,
			"timestamp": deps.now(),
		})
		if err != nil {
			log.Printf("[DISCONNECT-ERROR] Error notifying partner %s: %v", partnerID, err)
		}
		log.Printf("[DISCONNECT-DONE] Usuario desconectado: %s", session.Username)
	}
}
