package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// StorageKind selects the backend for the local key-value store.
type StorageKind string

const (
	StorageSQLite StorageKind = "sqlite"
	StorageRedis  StorageKind = "redis"
)

// Config holds all runtime configuration for the diagnostic client.
type Config struct {
	APIURL    string
	Token     string
	TimeoutMs int

	Storage       StorageKind
	DBPath        string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	AutosaveMs int
	LockTTL    time.Duration
	MarkTTL    time.Duration

	LogMode  string
	LogLevel string
	LogCalls bool
}

// DefaultConfig returns a Config with sensible defaults.
// DBPath is left empty and resolved by Load against the home directory.
func DefaultConfig() Config {
	return Config{
		APIURL:      "http://localhost:8080",
		TimeoutMs:   10000,
		Storage:     StorageSQLite,
		RedisAddr:   "localhost:6379",
		RedisPrefix: "kiosk:",
		AutosaveMs:  250,
		LockTTL:     24 * time.Hour,
		MarkTTL:     30 * 24 * time.Hour,
		LogMode:     "dev",
	}
}

// Load reads configuration from environment variables,
// falling back to defaults for any unset or invalid values.
func Load() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("MUJER_ALERTA_API_URL"); v != "" {
		cfg.APIURL = v
	}
	cfg.APIURL = NormalizeAPIURL(cfg.APIURL)
	cfg.Token = os.Getenv("MUJER_ALERTA_TOKEN")

	if v := os.Getenv("MUJER_ALERTA_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}

	if v := os.Getenv("MUJER_ALERTA_STORAGE"); v != "" {
		switch StorageKind(strings.ToLower(v)) {
		case StorageSQLite:
			cfg.Storage = StorageSQLite
		case StorageRedis:
			cfg.Storage = StorageRedis
		}
	}

	cfg.DBPath = os.Getenv("MUJER_ALERTA_DB")
	if cfg.DBPath == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.DBPath = filepath.Join(home, ".mujer-alerta", "local.db")
		} else {
			cfg.DBPath = filepath.Join(".mujer-alerta", "local.db")
		}
	}

	if v := os.Getenv("MUJER_ALERTA_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	cfg.RedisPassword = os.Getenv("MUJER_ALERTA_REDIS_PASSWORD")
	if v := os.Getenv("MUJER_ALERTA_REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.RedisDB = n
		}
	}
	if v, ok := os.LookupEnv("MUJER_ALERTA_REDIS_PREFIX"); ok {
		cfg.RedisPrefix = v
	}

	if v := os.Getenv("MUJER_ALERTA_AUTOSAVE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.AutosaveMs = n
		}
	}
	applyDurationEnv(&cfg.LockTTL, "MUJER_ALERTA_LOCK_TTL")
	applyDurationEnv(&cfg.MarkTTL, "MUJER_ALERTA_MARK_TTL")

	if v := os.Getenv("MUJER_ALERTA_LOG_MODE"); v != "" {
		cfg.LogMode = v
	}
	cfg.LogLevel = os.Getenv("MUJER_ALERTA_LOG_LEVEL")
	if v := os.Getenv("MUJER_ALERTA_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}

	return cfg
}

// Timeout returns the per-request API timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// AutosaveDelay returns the debounce window for draft autosave.
func (c Config) AutosaveDelay() time.Duration {
	return time.Duration(c.AutosaveMs) * time.Millisecond
}

// NormalizeAPIURL trims whitespace and any trailing slash so paths can be
// appended directly.
func NormalizeAPIURL(u string) string {
	return strings.TrimRight(strings.TrimSpace(u), "/")
}

func applyDurationEnv(dst *time.Duration, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return
	}
	*dst = d
}
