package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoreBadger = "badger"
	StoreMongo  = "mongo"

	SessionBadger = "badger"
	SessionRedis  = "redis"

	defaultSessionSecret = "dev-session-secret"
)

// Config holds application configuration loaded from environment variables.
// Defaults are tuned for local development.
type Config struct {
	AppName  string
	Env      string // development, staging, production
	Addr     string
	LogLevel string

	// Document store
	StoreDriver   string
	DBPath        string
	MongoURI      string
	MongoDatabase string

	// Sessions
	SessionDriver string
	SessionSecret string
	SessionTTL    time.Duration
	CookieSecure  bool

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	BcryptCost int

	// CORS
	CORSAllowedOrigins string // comma-separated

	ShutdownTimeout time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %v, using default %v", key, err, def)
			return def
		}
		return b
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using default %v", key, err, def)
			return def
		}
		return d
	}
	return def
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		AppName:  getenv("APP_NAME", "toyblog"),
		Env:      getenv("APP_ENV", "development"),
		Addr:     getenv("HTTP_ADDR", ":3000"),
		LogLevel: getenv("LOG_LEVEL", ""),

		StoreDriver:   strings.ToLower(getenv("STORE_DRIVER", StoreBadger)),
		DBPath:        getenv("DB_PATH", "data/badger"),
		MongoURI:      getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getenv("MONGO_DATABASE", "blogdb"),

		SessionDriver: strings.ToLower(getenv("SESSION_DRIVER", SessionBadger)),
		SessionSecret: getenv("SESSION_SECRET", defaultSessionSecret),
		SessionTTL:    getdur("SESSION_TTL", time.Hour),
		CookieSecure:  getbool("COOKIE_SECURE", false),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getint("REDIS_DB", 0),

		BcryptCost: getint("BCRYPT_COST", 12),

		CORSAllowedOrigins: getenv("CORS_ALLOWED_ORIGINS", ""),

		ShutdownTimeout: getdur("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// IsProduction reports whether the app runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// AllowedOrigins splits CORSAllowedOrigins into trimmed, non-empty entries.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Validate checks that the configuration can be used to start the app.
func (c *Config) Validate() error {
	var errs []error
	switch c.StoreDriver {
	case StoreBadger:
		if c.DBPath == "" {
			errs = append(errs, errors.New("DB_PATH is required for the badger store"))
		}
	case StoreMongo:
		if c.MongoURI == "" || c.MongoDatabase == "" {
			errs = append(errs, errors.New("MONGO_URI and MONGO_DATABASE are required for the mongo store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}

	switch c.SessionDriver {
	case SessionBadger:
		if c.StoreDriver != StoreBadger {
			errs = append(errs, errors.New("SESSION_DRIVER=badger requires STORE_DRIVER=badger"))
		}
	case SessionRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for redis sessions"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown SESSION_DRIVER %q", c.SessionDriver))
	}

	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.IsProduction() && c.SessionSecret == defaultSessionSecret {
		errs = append(errs, errors.New("SESSION_SECRET must be set in production"))
	}
	return errors.Join(errs...)
}
