// Package testdb opens migrated in-memory SQLite databases for tests.
package testdb

import (
	"DuoPlay/config"
	"DuoPlay/models/postgres"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open returns a fresh database with every model migrated. It is limited to a
// single connection so the in-memory database survives and concurrent
// transactions are serialized the way row locks would serialize them.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), config.GormConfig(false))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, config.MigrateDatabase(db))
	return db
}

// CreateUser inserts a user named after username
func CreateUser(t testing.TB, db *gorm.DB, username string) *postgres.User {
	t.Helper()

	user := &postgres.User{
		Email:        fmt.Sprintf("%s@duoplay.test", username),
		Username:     username,
		DisplayName:  username + " display",
		PasswordHash: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
