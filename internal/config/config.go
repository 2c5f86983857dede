package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr     string
	PostgresDSN  string // empty -> in-memory provider
	RedisAddr    string // empty -> in-process session cache, no read cache
	KafkaBrokers []string
	ServiceName  string

	AdminEmail    string
	AdminPassword string
	JWTSecret     string
	SessionTTL    time.Duration

	// Artificial latency for the in-memory provider, to exercise
	// loading-state UI. Zero means resolve immediately.
	MockLatency time.Duration
}

func Load() Config {
	return Config{
		HTTPAddr:      getenv("HTTP_ADDR", ":8080"),
		PostgresDSN:   os.Getenv("POSTGRES_DSN"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		KafkaBrokers:  splitCSV(os.Getenv("KAFKA_BROKERS")),
		ServiceName:   getenv("SERVICE_NAME", "storefront-api"),
		AdminEmail:    getenv("ADMIN_EMAIL", "admin@meninadelaco.com"),
		AdminPassword: getenv("ADMIN_PASSWORD", "admin123"),
		JWTSecret:     getenv("JWT_SECRET", "dev-only-secret"),
		SessionTTL:    getdur("SESSION_TTL", 24*time.Hour),
		MockLatency:   getdur("MOCK_LATENCY", 0),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
