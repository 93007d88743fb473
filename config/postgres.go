package config

import (
	"DuoPlay/models/postgres"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormConfig is shared by the server and the tests so both see the same
// error translation and UTC timestamps.
func GormConfig(verbose bool) *gorm.Config {
	gormConfig := &gorm.Config{
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
	if verbose {
		gormConfig.Logger = logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  logger.Info,
				IgnoreRecordNotFoundError: true,
				Colorful:                  true,
			},
		)
	}
	return gormConfig
}

// ConnectGORM returns a GORM DB instance connected to PostgreSQL
func ConnectGORM(cfg PostgresConfig) (*gorm.DB, error) {
	// NOTE: See https://github.com/go-gorm/gorm/issues/5409
	sqlDB, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		log.Printf("Error connecting to PostgreSQL: %v", err)
		return nil, err
	}

	db, err := gorm.Open(pgdriver.New(pgdriver.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), GormConfig(cfg.Verbose))
	if err != nil {
		log.Printf("Error connecting to PostgreSQL with GORM: %v", err)
		return nil, err
	}

	// Verify connection
	if err := sqlDB.Ping(); err != nil {
		log.Printf("Error pinging PostgreSQL: %v", err)
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Successfully connected to PostgreSQL with GORM")
	return db, nil
}

// Models lists every persistent model in dependency order
func Models() []any {
	return []any{
		&postgres.User{},
		&postgres.Session{},
		&postgres.InviteCode{},
		&postgres.Partnership{},
		&postgres.PartnershipMember{},
		&postgres.SharedGarden{},
		&postgres.TreasureMap{},
		&postgres.DoodleGallery{},
		&postgres.Achievement{},
		&postgres.SharedAchievement{},
		&postgres.Notification{},
		&postgres.ActivityFeedItem{},
	}
}

// MigrateDatabase migrates the GORM models to the database
func MigrateDatabase(db *gorm.DB) error {
	// NOTE: for more info, execute db.Debug().AutoMigrate(...)
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	log.Println("Database migrated successfully")
	return nil
}
