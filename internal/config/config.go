package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	Edition string // "basic" | "extended": category registry and seed set

	Storage    string // "memory" | "sqlite" | "redis"
	SQLitePath string // database file when Storage == "sqlite"

	HomepageBookmarkFile string        // optional Homepage bookmarks.yaml imported into the store
	ImportInterval       time.Duration // how often the homepage file is re-imported

	SearchCacheSize int // LRU size for @bookmark resolutions

	RateLimitBurst     int // token bucket size per client IP on mutating routes
	RateLimitPerMinute int // refill rate per client IP

	// Redis (only read when Storage == "redis")
	RedisAddr           string
	RedisUser           string
	RedisPassword       string
	RedisDB             int
	RedisDT             time.Duration // dial timeout
	RedisRT             time.Duration // read timeout
	RedisWT             time.Duration // write timeout
	RedisMaxWait        time.Duration // max wait between retries
	RedisPingTimeout    time.Duration // timeout for each ping attempt
	RedisPoolSize       int
	RedisConnectTimeout time.Duration // total time to retry connecting
	RedisRetryInterval  time.Duration // initial wait between retries, grows exponentially
	RedisWarnThreshold  int           // warn after this many attempts

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict access to specific IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For / CF-Connecting-IP
	CORSOrigins  []string // optional, origins allowed to call /api from a browser extension or another host
}

// Load reads the configuration from the environment. A .env file named by
// NEWTAB_ENV_FILE (default ".env") is loaded first when it exists; variables
// already set in the environment win.
func Load() *Config {
	if err := loadDotEnv(getenv("NEWTAB_ENV_FILE", ".env")); err != nil {
		panic(fmt.Sprintf("❌ FATAL: %v", err))
	}

	cfg := &Config{
		ListenPort:      getenv("NEWTAB_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("NEWTAB_SHUTDOWN_TIMEOUT", 5*time.Second),

		LogLevel:  getenv("NEWTAB_LOG_LEVEL", "info"),
		PrettyLog: mustBool("NEWTAB_PRETTY_LOG", true),

		Edition: strings.ToLower(getenv("NEWTAB_EDITION", "basic")),

		Storage:    strings.ToLower(getenv("NEWTAB_STORAGE", StorageSQLite)),
		SQLitePath: getenv("NEWTAB_SQLITE_PATH", "data/newtab.db"),

		HomepageBookmarkFile: getenv("NEWTAB_HOMEPAGE_BOOKMARK_FILE", ""),
		ImportInterval:       mustDuration("NEWTAB_IMPORT_INTERVAL", time.Hour),

		SearchCacheSize: getenvInt("NEWTAB_SEARCH_CACHE_SIZE", 256),

		RateLimitBurst:     getenvInt("NEWTAB_RATE_LIMIT_BURST", 20),
		RateLimitPerMinute: getenvInt("NEWTAB_RATE_LIMIT_PER_MIN", 60),

		AllowedHosts: splitAndTrim(getenv("NEWTAB_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("NEWTAB_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("NEWTAB_TRUST_PROXY", false),
		CORSOrigins:  splitAndTrim(getenv("NEWTAB_CORS_ORIGINS", "")),
	}

	switch cfg.Storage {
	case StorageMemory, StorageSQLite:
	case StorageRedis:
		loadRedis(cfg)
	default:
		panic(fmt.Sprintf("❌ FATAL: NEWTAB_STORAGE must be one of memory, sqlite, redis (got %q)", cfg.Storage))
	}

	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfgCopy.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

func loadRedis(cfg *Config) {
	cfg.RedisAddr = requireEnv("NEWTAB_REDIS_ADDR")
	cfg.RedisUser = getenv("NEWTAB_REDIS_USERNAME", "")
	cfg.RedisPassword = getenv("NEWTAB_REDIS_PASSWORD", "")
	cfg.RedisDB = getenvInt("NEWTAB_REDIS_DB", 0)
	cfg.RedisDT = mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second)
	cfg.RedisRT = mustDuration("REDIS_READ_TIMEOUT", 3*time.Second)
	cfg.RedisWT = mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second)
	cfg.RedisMaxWait = mustDuration("REDIS_MAX_WAIT", 10*time.Second)
	cfg.RedisPingTimeout = mustDuration("REDIS_PING_TIMEOUT", 5*time.Second)
	cfg.RedisPoolSize = getenvInt("REDIS_POOL_SIZE", 10)
	cfg.RedisConnectTimeout = mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second)
	cfg.RedisRetryInterval = mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second)
	cfg.RedisWarnThreshold = getenvInt("REDIS_WARN_THRESHOLD", 3)
}

// loadDotEnv loads path into the environment without overriding existing
// variables. A missing file is not an error.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

// mustDuration reads a positive duration, falling back to def when the
// variable is unset, malformed, zero or negative.
func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
