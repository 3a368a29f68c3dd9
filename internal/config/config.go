package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env  string
	Port int

	// token service
	JWTSecret   string
	JWTTTLHours int

	BcryptCost int

	// credential store
	StoreDriver string // memory | redis | postgres
	RedisAddr   string
	RedisPass   string
	RedisDB     int
	DBURL       string

	AllowedOrigins []string
	OTLPEndpoint   string

	// optional bootstrap account
	SeedEmail     string
	SeedPassword  string
	SeedFirstName string
	SeedLastName  string
}

func Load() Config {
	return Config{
		Env:  getEnv("APP_ENV", "dev"),
		Port: getEnvInt("PORT", 8080),

		JWTSecret:   getEnv("JWT_SECRET", ""),
		JWTTTLHours: getEnvInt("JWT_TTL_HOURS", 24),

		BcryptCost: getEnvInt("BCRYPT_COST", 8),

		StoreDriver: getEnv("STORE_DRIVER", "redis"),
		RedisAddr:   getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPass:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:     getEnvInt("REDIS_DB", 0),
		DBURL:       buildDBURL(),

		AllowedOrigins: splitCSV(getEnv("ALLOWED_ORIGINS", "")),
		OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		SeedEmail:     getEnv("SEED_EMAIL", ""),
		SeedPassword:  getEnv("SEED_PASSWORD", ""),
		SeedFirstName: getEnv("SEED_FIRST_NAME", "Service"),
		SeedLastName:  getEnv("SEED_LAST_NAME", "Account"),
	}
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "accounthub")
	pass := getEnv("DB_PASSWORD", "accounthub")
	name := getEnv("DB_NAME", "accounthub")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

// TokenTTL is the session token lifetime (24h unless overridden).
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTTTLHours) * time.Hour
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)

		if part != "" {
			out = append(out, part)
		}
	}

	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}
