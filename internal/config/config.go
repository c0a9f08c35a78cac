package config

import (
	"os"
	"strings"
	"time"
)

// Session stores.
const (
	SessionStoreRedis  = "redis"
	SessionStoreMemory = "memory"
)

// Sink drivers.
const (
	SinkMongo    = "mongo"
	SinkPostgres = "postgres"
	SinkSQLite   = "sqlite"
)

type Config struct {
	Port        string
	LogMode     string
	LogHashSalt string

	MongoURI string
	MongoDB  string
	RedisURI string

	SessionStore  string
	SessionTTL    time.Duration
	LockTTL       time.Duration
	SubmitTimeout time.Duration

	SinkDriver  string
	SinkTarget  string
	PostgresDSN string
	SQLitePath  string

	CatalogPath   string
	CatalogID     string
	SchemaVersion string

	CORSAllowedOrigins string
}

func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		LogMode:            getEnv("LOG_MODE", "dev"),
		LogHashSalt:        os.Getenv("LOG_HASH_SALT"),
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:            getEnv("MONGO_DB", "bemestar"),
		RedisURI:           getEnv("REDIS_URI", "localhost:6379"),
		SessionStore:       strings.ToLower(getEnv("SESSION_STORE", SessionStoreRedis)),
		SessionTTL:         getDuration("SESSION_TTL", 24*time.Hour),
		LockTTL:            getDuration("LOCK_TTL", 30*time.Second),
		SubmitTimeout:      getDuration("SUBMIT_TIMEOUT", 20*time.Second),
		SinkDriver:         strings.ToLower(getEnv("SINK_DRIVER", SinkMongo)),
		SinkTarget:         getEnv("SINK_TARGET", "respostas"),
		PostgresDSN:        os.Getenv("POSTGRES_DSN"),
		SQLitePath:         getEnv("SQLITE_PATH", "responses.db"),
		CatalogPath:        os.Getenv("CATALOG_PATH"),
		CatalogID:          os.Getenv("CATALOG_ID"),
		SchemaVersion:      os.Getenv("SCHEMA_VERSION"),
		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
	}
}

// RedisAddr strips the redis:// scheme some deployments put in REDIS_URI.
func (c *Config) RedisAddr() string {
	return strings.TrimPrefix(c.RedisURI, "redis://")
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}
