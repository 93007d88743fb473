package socketio_utils

import (
	"DuoPlay/services/auth"
	"DuoPlay/utils"
	"errors"
	"log"
	"strings"

	"github.com/zishang520/socket.io/v2/socket"
)

// HandshakeToken extracts the access token sent by the client. It accepts
// auth.token, auth.authorization ("Bearer <token>" or the bare token) and the
// Authorization header, in that order.
func HandshakeToken(handshake *socket.Handshake) string {
	if handshake == nil {
		return ""
	}

	if authData, ok := handshake.Auth.(map[string]interface{}); ok {
		if token, ok := authData["token"].(string); ok && token != "" {
			return strings.TrimSpace(token)
		}
		if header, ok := authData["authorization"].(string); ok && header != "" {
			if token := auth.BearerToken(header); token != "" {
				return token
			}
			return strings.TrimSpace(header)
		}
	}

	for name, values := range handshake.Headers {
		if strings.EqualFold(name, "authorization") && len(values) > 0 {
			return auth.BearerToken(values[0])
		}
	}
	return ""
}

// Authenticate verifies the handshake credential. The returned error carries
// {code} data so clients can tell TOKEN_EXPIRED from INVALID_TOKEN.
func Authenticate(handshake *socket.Handshake, tokens *auth.TokenManager) (*auth.Claims, *socket.ExtendedError) {
	claims, err := tokens.Verify(HandshakeToken(handshake))
	if err == nil {
		return claims, nil
	}

	var appErr *utils.AppError
	if !errors.As(err, &appErr) {
		appErr = utils.ErrInvalidToken
	}
	return nil, socket.NewExtendedError(appErr.Message, map[string]interface{}{"code": appErr.Code})
}

// AuthMiddleware rejects connections without a valid access token and stores
// the claims as the socket data.
func AuthMiddleware(tokens *auth.TokenManager) func(*socket.Socket, func(*socket.ExtendedError)) {
	return func(client *socket.Socket, next func(*socket.ExtendedError)) {
		claims, authErr := Authenticate(client.Handshake(), tokens)
		if authErr != nil {
			log.Printf("[AUTH-ERROR] Rejected socket %s: %v", client.Id(), authErr)
			next(authErr)
			return
		}
		client.SetData(claims)
		next(nil)
	}
}

// ClaimsOf returns the claims stored by AuthMiddleware
func ClaimsOf(client *socket.Socket) (*auth.Claims, bool) {
	claims, ok := client.Data().(*auth.Claims)
	return claims, ok && claims != nil
}
