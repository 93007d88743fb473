package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTokenTTL)
	assert.Equal(t, "memory", cfg.Realtime.PresenceBackend)
	assert.Equal(t, 25*time.Second, cfg.Realtime.PingInterval)
	assert.Equal(t, 60*time.Second, cfg.Realtime.PingTimeout)
	assert.Equal(t, "secret", cfg.Auth.SessionKey)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "duoplay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9000"
client_url: https://duo.example
postgres:
  host: db
  database: duoplay
auth:
  jwt_secret: from-file
  access_token_ttl: 5m
realtime:
  presence_ttl: 2m
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("PORT", "9100")
	t.Setenv("PROD", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, "https://duo.example", cfg.ClientURL)
	assert.Equal(t, "db", cfg.Postgres.Host)
	assert.Equal(t, "5432", cfg.Postgres.Port)
	assert.Equal(t, "from-file", cfg.Auth.JWTSecret)
	assert.Equal(t, 5*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 2*time.Minute, cfg.Realtime.PresenceTTL)
	assert.True(t, cfg.Production)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("redis presence without url", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("PRESENCE_BACKEND", "redis")
		t.Setenv("REDIS_URL", "")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("ACCESS_TOKEN_TTL", "soon")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{User: "duo", Password: "pw", Host: "db", Port: "5432", Database: "duoplay"}
	assert.Equal(t, "postgresql://duo:pw@db:5432/duoplay", p.DSN())

	p.SSLMode = "disable"
	assert.Equal(t, "postgresql://duo:pw@db:5432/duoplay?sslmode=disable", p.DSN())
}

func TestMigrateDatabase(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), GormConfig(false))
	require.NoError(t, err)

	require.NoError(t, MigrateDatabase(db))
	for _, table := range []string{"users", "sessions", "invite_codes", "partnerships", "partnership_members",
		"shared_gardens", "treasure_maps", "doodle_galleries", "achievements", "shared_achievements",
		"notifications", "activity_feed_items"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestConnectRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	addr := mr.Addr()
	rc, err := Connect_redis(addr)
	require.NoError(t, err)
	assert.NotNil(t, rc)

	mr.Close()
	_, err = Connect_redis(addr)
	assert.Error(t, err)
}
