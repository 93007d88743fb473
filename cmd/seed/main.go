// Command seed migrates the database, loads the achievement catalog and, with
// SEED_DEMO=true, creates a demo couple.
package main

import (
	"DuoPlay/config"
	"DuoPlay/services/auth"
	"DuoPlay/services/invites"
	"DuoPlay/services/notifications"
	"DuoPlay/services/partnerships"
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	db, err := config.ConnectGORM(cfg.Postgres)
	if err != nil {
		log.Fatalf("Error connecting to PostgreSQL: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Error reading GORM PostgreSQL instance: %v", err)
	}
	defer sqlDB.Close()

	if err := config.MigrateDatabase(db); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	achievements, err := LoadCatalog(achievementsYAML)
	if err != nil {
		log.Fatalf("Error loading achievements: %v", err)
	}
	if err := UpsertAchievements(db, achievements); err != nil {
		log.Fatalf("Error seeding achievements: %v", err)
	}
	log.Printf("[SEED] %d achievements up to date", len(achievements))

	if os.Getenv("SEED_DEMO") != "true" {
		return
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
	authService := auth.NewService(db, tokens, auth.Options{RefreshTokenTTL: cfg.Auth.RefreshTokenTTL})
	store := partnerships.NewStore(db)
	registry := invites.NewRegistry(db, store, notifications.NewService(db))

	view, err := SeedDemo(context.Background(), db, authService, registry, store)
	if err != nil {
		log.Fatalf("Error seeding demo couple: %v", err)
	}
	log.Printf("[SEED] Demo partnership %s ready", view.ID)
}
