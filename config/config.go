package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type PostgresConfig struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
	Verbose  bool   `yaml:"verbose"`
	Migrate  bool   `yaml:"migrate"`
}

// DSN builds the lib/pq connection string
func (p PostgresConfig) DSN() string {
	dsn := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s", p.User, p.Password, p.Host, p.Port, p.Database)
	if p.SSLMode != "" {
		dsn += "?sslmode=" + p.SSLMode
	}
	return dsn
}

type AuthConfig struct {
	JWTSecret       string        `yaml:"jwt_secret"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl"`
	SessionKey      string        `yaml:"session_key"`
}

type RealtimeConfig struct {
	// "memory" keeps presence in this process, "redis" shares it between instances
	PresenceBackend string        `yaml:"presence_backend"`
	PresenceTTL     time.Duration `yaml:"presence_ttl"`
	PingInterval    time.Duration `yaml:"ping_interval"`
	PingTimeout     time.Duration `yaml:"ping_timeout"`
	Debug           bool          `yaml:"debug"`
}

type RateLimitConfig struct {
	Window            time.Duration `yaml:"window"`
	RequestsPerWindow int           `yaml:"requests_per_window"`
	AuthPerWindow     int           `yaml:"auth_per_window"`
}

// AppConfig holds every setting of the server. Values come from defaults, then
// the optional YAML file named by CONFIG_FILE, then environment variables.
type AppConfig struct {
	Port       string          `yaml:"port"`
	UseHTTPS   bool            `yaml:"use_https"`
	CertFile   string          `yaml:"cert_file"`
	KeyFile    string          `yaml:"key_file"`
	Production bool            `yaml:"production"`
	ClientURL  string          `yaml:"client_url"`
	RedisURL   string          `yaml:"redis_url"`
	Postgres   PostgresConfig  `yaml:"postgres"`
	Auth       AuthConfig      `yaml:"auth"`
	Realtime   RealtimeConfig  `yaml:"realtime"`
	RateLimit  RateLimitConfig `yaml:"rate_limit"`
}

func defaults() *AppConfig {
	return &AppConfig{
		Port:      "8080",
		ClientURL: "http://localhost:5173",
		Postgres: PostgresConfig{
			Host: "localhost",
			Port: "5432",
		},
		Auth: AuthConfig{
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
		Realtime: RealtimeConfig{
			PresenceBackend: "memory",
			PresenceTTL:     90 * time.Second,
			PingInterval:    25 * time.Second,
			PingTimeout:     60 * time.Second,
		},
		RateLimit: RateLimitConfig{
			Window:            15 * time.Minute,
			RequestsPerWindow: 100,
			AuthPerWindow:     10,
		},
	}
}

// Load reads the configuration. godotenv.Load is expected to have run already.
func Load() (*AppConfig, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *AppConfig) applyEnv() error {
	setString(&cfg.Port, "PORT")
	setString(&cfg.CertFile, "CERT_FILE")
	setString(&cfg.KeyFile, "KEY_FILE")
	setString(&cfg.ClientURL, "CLIENT_URL")
	setString(&cfg.RedisURL, "REDIS_URL")

	setString(&cfg.Postgres.User, "POSTGRES_USER")
	setString(&cfg.Postgres.Password, "POSTGRES_PASSWORD")
	setString(&cfg.Postgres.Host, "POSTGRES_HOST")
	setString(&cfg.Postgres.Port, "POSTGRES_PORT")
	setString(&cfg.Postgres.Database, "POSTGRES_DATABASE")
	setString(&cfg.Postgres.SSLMode, "POSTGRES_SSLMODE")

	setString(&cfg.Auth.JWTSecret, "JWT_SECRET")
	setString(&cfg.Auth.SessionKey, "KEY")
	setString(&cfg.Realtime.PresenceBackend, "PRESENCE_BACKEND")

	for key, dst := range map[string]*bool{
		"USE_HTTPS":        &cfg.UseHTTPS,
		"PROD":             &cfg.Production,
		"VERBOSE_POSTGRES": &cfg.Postgres.Verbose,
		"MIGRATE_POSTGRES": &cfg.Postgres.Migrate,
		"SOCKET_DEBUG":     &cfg.Realtime.Debug,
	} {
		if err := setBool(dst, key); err != nil {
			return err
		}
	}

	for key, dst := range map[string]*time.Duration{
		"ACCESS_TOKEN_TTL":  &cfg.Auth.AccessTokenTTL,
		"REFRESH_TOKEN_TTL": &cfg.Auth.RefreshTokenTTL,
		"PRESENCE_TTL":      &cfg.Realtime.PresenceTTL,
		"RATE_LIMIT_WINDOW": &cfg.RateLimit.Window,
	} {
		if err := setDuration(dst, key); err != nil {
			return err
		}
	}

	for key, dst := range map[string]*int{
		"RATE_LIMIT_PER_WINDOW":      &cfg.RateLimit.RequestsPerWindow,
		"AUTH_RATE_LIMIT_PER_WINDOW": &cfg.RateLimit.AuthPerWindow,
	} {
		if err := setInt(dst, key); err != nil {
			return err
		}
	}
	return nil
}

func (cfg *AppConfig) validate() error {
	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Auth.SessionKey == "" {
		cfg.Auth.SessionKey = cfg.Auth.JWTSecret
	}
	switch cfg.Realtime.PresenceBackend {
	case "memory":
	case "redis":
		if cfg.RedisURL == "" {
			return fmt.Errorf("PRESENCE_BACKEND=redis needs REDIS_URL")
		}
	default:
		return fmt.Errorf("unknown PRESENCE_BACKEND %q", cfg.Realtime.PresenceBackend)
	}
	if cfg.RateLimit.RequestsPerWindow <= 0 || cfg.RateLimit.AuthPerWindow <= 0 || cfg.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limits must be positive")
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}
