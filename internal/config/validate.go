package config

import (
	"fmt"
	"slices"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if err := c.Database.validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Log.validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := c.Sync.validate(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	if err := c.Sweeper.validate(); err != nil {
		return fmt.Errorf("sweeper: %w", err)
	}

	return nil
}

func (d *DatabaseConfig) validate() error {
	switch d.Driver {
	case DriverPostgres:
		if d.DSN == "" {
			return fmt.Errorf("dsn is required for the postgres driver")
		}
		if d.MinConns > d.MaxConns {
			return fmt.Errorf("min_conns (%d) must not exceed max_conns (%d)", d.MinConns, d.MaxConns)
		}
	case DriverSQLite:
		if d.SQLitePath == "" {
			return fmt.Errorf("sqlite_path is required for the sqlite driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("driver must be one of postgres, sqlite, memory (got %q)", d.Driver)
	}
	return nil
}

func (l *LogConfig) validate() error {
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, l.Level) {
		return fmt.Errorf("level must be debug, info, warn or error (got %q)", l.Level)
	}
	if l.Format != "json" && l.Format != "text" {
		return fmt.Errorf("format must be json or text (got %q)", l.Format)
	}
	return nil
}

func (s *SyncConfig) validate() error {
	if s.Debounce <= 0 {
		return fmt.Errorf("debounce must be > 0 (got %v)", s.Debounce)
	}
	if s.RetryDelay <= 0 {
		return fmt.Errorf("retry_delay must be > 0 (got %v)", s.RetryDelay)
	}
	if s.MaxRetries < 1 {
		return fmt.Errorf("max_retries must be >= 1 (got %d)", s.MaxRetries)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %v)", s.Timeout)
	}
	if s.LoadTimeout <= 0 {
		return fmt.Errorf("load_timeout must be > 0 (got %v)", s.LoadTimeout)
	}
	if s.BackoffInitial <= 0 || s.BackoffMax < s.BackoffInitial {
		return fmt.Errorf("backoff must satisfy 0 < backoff_initial <= backoff_max (got %v, %v)", s.BackoffInitial, s.BackoffMax)
	}
	if s.BackoffAttempts < 1 || s.BackoffAttempts > 10 {
		return fmt.Errorf("backoff_attempts must be between 1 and 10 (got %d)", s.BackoffAttempts)
	}
	return nil
}

func (s *SweeperConfig) validate() error {
	if !s.Enabled {
		return nil
	}
	if s.FlushInterval <= 0 {
		return fmt.Errorf("flush_interval must be > 0 (got %v)", s.FlushInterval)
	}
	if s.IdleTimeout <= 0 {
		return fmt.Errorf("idle_timeout must be > 0 (got %v)", s.IdleTimeout)
	}
	return nil
}
