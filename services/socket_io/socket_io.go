package socket_io

import (
	"DuoPlay/config"
	realtime_constants "DuoPlay/constants/realtime"
	"DuoPlay/services/auth"
	"DuoPlay/services/socket_io/handlers"
	socketio_types "DuoPlay/services/socket_io/types"
	socketio_utils "DuoPlay/services/socket_io/utils"
	"log"

	"github.com/gin-gonic/gin"
	engine_log "github.com/zishang520/engine.io/v2/log"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

type MySocketServer socketio_types.SocketServer

// Start creates the socket.io server, registers the event handlers and mounts
// it on the router under /socket.io/.
func (sio *MySocketServer) Start(router *gin.Engine, cfg *config.AppConfig, tokens *auth.TokenManager, deps *handlers.Deps) {
	engine_log.DEBUG = cfg.Realtime.Debug
	c := socket.DefaultServerOptions()
	c.SetServeClient(false)
	c.SetPingInterval(cfg.Realtime.PingInterval)
	c.SetPingTimeout(cfg.Realtime.PingTimeout)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(cfg.Realtime.PingTimeout)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      cfg.ClientURL,
		Credentials: true,
	})

	sio.Sio_server = socket.NewServer(nil, nil)
	sio.Sio_server.Use(socketio_utils.AuthMiddleware(tokens))
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)

		claims, ok := socketio_utils.ClaimsOf(client)
		if !ok {
			client.Disconnect(true)
			return
		}

		session := handlers.NewSession(claims.UserID, claims.Username, socketio_types.WrapSocket(client))

		client.On(realtime_constants.EventGetPartnerStatus, handlers.HandleGetPartnerStatus(deps, session))
		client.On(realtime_constants.EventHeartbeat, handlers.HandleHeartbeat(deps, session))
		client.On(realtime_constants.EventTyping, handlers.HandleTyping(deps, session))
		client.On(realtime_constants.EventStopTyping, handlers.HandleStopTyping(deps, session))
		client.On(realtime_constants.EventGameJoin, handlers.HandleGameJoin(deps, session))
		client.On(realtime_constants.EventGameLeave, handlers.HandleGameLeave(deps, session))

		// NOTE: will mark the user offline and tell the partner
		client.On("disconnect", handlers.HandleDisconnect(deps, session))

		handlers.HandleConnect(deps, session)
	})

	handler := gin.WrapH(sio.Sio_server.ServeHandler(c))
	router.POST("/socket.io/*f", handler)
	router.GET("/socket.io/*f", handler)

	log.Println("Socket server started")
}

// Close stops accepting connections and disconnects every socket
func (sio *MySocketServer) Close() {
	if sio.Sio_server == nil {
		return
	}
	sio.Sio_server.Close(func(err error) {
		if err != nil {
			log.Printf("[SOCKET-ERROR] Error closing socket server: %v", err)
		}
	})
}

// Server returns the shared emitter view of the socket server
func (sio *MySocketServer) Server() *socketio_types.SocketServer {
	return (*socketio_types.SocketServer)(sio)
}
