package main

import (
	"DuoPlay/config"
	_ "DuoPlay/config/swagger"
	"DuoPlay/middleware"
	"DuoPlay/routes"
	"DuoPlay/services/activity"
	"DuoPlay/services/auth"
	"DuoPlay/services/invites"
	"DuoPlay/services/notifications"
	"DuoPlay/services/partnerships"
	"DuoPlay/services/presence"
	"DuoPlay/services/redis"
	socket_io "DuoPlay/services/socket_io"
	"DuoPlay/services/socket_io/handlers"
	relay_sync "DuoPlay/sync"
	"DuoPlay/utils"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// @title DuoPlay API
// @version 1.0
// @description Gin-Gonic server for DuoPlay, games for two
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	godotenv.Load()
	log.Println("Setting up server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	utils.RegisterValidators()

	gormDB, err := config.ConnectGORM(cfg.Postgres)
	if err != nil {
		log.Fatalf("Error connecting to PostgreSQL: %v", err)
	}
	log.Println("GORM Connected")

	// Only migrate in development or during deployment
	if cfg.Postgres.Migrate {
		log.Println("Migrating PostgreSQL database...")
		if err := config.MigrateDatabase(gormDB); err != nil {
			log.Printf("Warning: Database migration failed: %v", err)
		} else {
			log.Println("Database migrated successfully")
		}
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatalf("Error reading GORM PostgreSQL instance: %v", err)
	}
	defer sqlDB.Close()

	instanceID := uuid.NewString()
	var presenceRegistry presence.Registry = presence.NewMemoryRegistry()
	var relay *relay_sync.Relay

	if cfg.RedisURL != "" {
		redisClient, err := config.Connect_redis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Error connecting to Redis: %v", err)
		}
		defer redis.CloseRedis(redisClient)

		relay = relay_sync.NewRelay(redisClient, instanceID)
		if cfg.Realtime.PresenceBackend == "redis" {
			presenceRegistry = presence.NewRedisRegistry(redisClient, instanceID, cfg.Realtime.PresenceTTL)
		}
	}
	log.Printf("Instance %s using %s presence", instanceID, cfg.Realtime.PresenceBackend)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
	authService := auth.NewService(gormDB, tokens, auth.Options{RefreshTokenTTL: cfg.Auth.RefreshTokenTTL})
	partnershipStore := partnerships.NewStore(gormDB)
	notificationService := notifications.NewService(gormDB)

	sio := &socket_io.MySocketServer{Relay: relay}
	notificationService.SetPusher(sio.Server())

	r := gin.New()
	r.Use(gin.Recovery(), utils.Logger())
	middleware.SetUpMiddleware(r, cfg)

	sio.Start(r, cfg, tokens, &handlers.Deps{
		Presence:     presenceRegistry,
		Partnerships: partnershipStore,
		Users:        authService,
		Emitter:      sio.Server(),
	})

	relayCtx, stopRelay := context.WithCancel(context.Background())
	defer stopRelay()
	if relay != nil {
		_, err := relay.Start(relayCtx, func(room, event string, payload json.RawMessage) {
			if err := sio.Server().EmitLocal(room, event, payload); err != nil {
				log.Printf("[RELAY-ERROR] Delivering %s to %s: %v", event, room, err)
			}
		})
		if err != nil {
			log.Fatalf("Error subscribing to the relay channel: %v", err)
		}
	}

	limiters := routes.NewLimiters(cfg.RateLimit)
	stopCleanup := make(chan struct{})
	go limiters.Global.RunCleanup(stopCleanup)
	go limiters.Auth.RunCleanup(stopCleanup)
	defer close(stopCleanup)

	routes.SetupRoutes(r, cfg, &routes.Services{
		Auth:          authService,
		Partnerships:  partnershipStore,
		Invites:       invites.NewRegistry(gormDB, partnershipStore, notificationService),
		Feed:          activity.NewFeed(gormDB),
		Notifications: notificationService,
	}, limiters)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		var err error
		if cfg.UseHTTPS {
			err = srv.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting server: %v", err)
		}
	}()
	log.Printf("Server started on port %s", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	sio.Close()
	stopRelay()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
