package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting the service reads from the environment.
type Config struct {
	Port              string
	MongoURI          string
	MongoDBName       string
	JWTSecret         string
	TokenTTL          time.Duration
	AdminInviteToken  string
	ClientURL         string
	UploadDir         string
	LogFile           string
	LogLevel          string
	CassandraHost     string
	CassandraKeyspace string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{
		Port:              getEnv("PORT", "8000"),
		MongoURI:          os.Getenv("MONGO_URI"),
		MongoDBName:       getEnv("MONGO_DB_NAME", "taskflow"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		AdminInviteToken:  os.Getenv("ADMIN_INVITE_TOKEN"),
		ClientURL:         getEnv("CLIENT_URL", "*"),
		UploadDir:         getEnv("UPLOAD_DIR", "uploads"),
		LogFile:           getEnv("LOG_FILE", "logs/taskflow.log"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		CassandraHost:     os.Getenv("CASS_DB"),
		CassandraKeyspace: getEnv("CASS_KEYSPACE", "notifications"),
	}

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "168h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	cfg.TokenTTL = ttl

	if cfg.MongoURI == "" {
		return nil, errors.New("MONGO_URI is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}

	return cfg, nil
}

// NotificationsEnabled reports whether a Cassandra host was configured.
func (c *Config) NotificationsEnabled() bool {
	return c.CassandraHost != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
