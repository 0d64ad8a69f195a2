package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
	Sync     SyncConfig     `yaml:"sync"`
	Seed     SeedConfig     `yaml:"seed"`
	Sweeper  SweeperConfig  `yaml:"sweeper"`
	CORS     CORSConfig     `yaml:"cors"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// Document store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// DatabaseConfig selects and configures the document store.
type DatabaseConfig struct {
	Driver          string        `yaml:"driver"             env:"DATABASE_DRIVER"             env-default:"sqlite"`
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	SQLitePath      string        `yaml:"sqlite_path"        env:"DATABASE_SQLITE_PATH"        env-default:"./flashcards.db"`
	AutoMigrate     bool          `yaml:"auto_migrate"       env:"DATABASE_AUTO_MIGRATE"       env-default:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds access token verification settings. Tokens are issued
// by an external identity service.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-required:"true"`
	JWTIssuer string `yaml:"jwt_issuer" env:"AUTH_JWT_ISSUER" env-default:"flashcards"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// SyncConfig tunes the account cache's batch sync and remote retries.
type SyncConfig struct {
	Debounce        time.Duration `yaml:"debounce"         env:"SYNC_DEBOUNCE"         env-default:"2s"`
	RetryDelay      time.Duration `yaml:"retry_delay"      env:"SYNC_RETRY_DELAY"      env-default:"5s"`
	MaxRetries      int           `yaml:"max_retries"      env:"SYNC_MAX_RETRIES"      env-default:"3"`
	Timeout         time.Duration `yaml:"timeout"          env:"SYNC_TIMEOUT"          env-default:"15s"`
	LoadTimeout     time.Duration `yaml:"load_timeout"     env:"SYNC_LOAD_TIMEOUT"     env-default:"30s"`
	BackoffInitial  time.Duration `yaml:"backoff_initial"  env:"SYNC_BACKOFF_INITIAL"  env-default:"200ms"`
	BackoffMax      time.Duration `yaml:"backoff_max"      env:"SYNC_BACKOFF_MAX"      env-default:"2s"`
	BackoffAttempts int           `yaml:"backoff_attempts" env:"SYNC_BACKOFF_ATTEMPTS" env-default:"3"`
}

// SeedConfig locates the card-set seed files.
type SeedConfig struct {
	Dir string `yaml:"dir" env:"SEED_DIR" env-default:"./seeds"`
}

// SweeperConfig drives the periodic flush and idle eviction of account caches.
type SweeperConfig struct {
	Enabled       bool          `yaml:"enabled"        env:"SWEEPER_ENABLED"        env-default:"true"`
	FlushInterval time.Duration `yaml:"flush_interval" env:"SWEEPER_FLUSH_INTERVAL" env-default:"1m"`
	IdleTimeout   time.Duration `yaml:"idle_timeout"   env:"SWEEPER_IDLE_TIMEOUT"   env-default:"30m"`
}
