package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration values.
type Config struct {
	Port          string
	DBDSN         string
	MediaDir      string
	AppEnv        string
	OwnerUsername string
	OwnerPassword string
	// IdentityJWTSecret verifies tokens minted by the external identity provider.
	IdentityJWTSecret string
	// EchoCodes returns verification codes in API responses for testing.
	// Never enable in production.
	EchoCodes bool
	// RequireCollection makes collection date/time mandatory on inquiries.
	RequireCollection bool
	// CodeTTL bounds how long a pending verification code stays valid.
	// Zero means codes never expire.
	CodeTTL time.Duration
}

// Load reads .env (if present) and environment variables.
func Load() Config {
	_ = godotenv.Load()

	appEnv := getEnv("APP_ENV", "development")
	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		DBDSN:             getEnv("DB_DSN", "store.db"),
		MediaDir:          getEnv("MEDIA_DIR", "./media"),
		AppEnv:            appEnv,
		OwnerUsername:     getEnv("OWNER_USERNAME", "admin@store.com"),
		OwnerPassword:     getEnv("OWNER_PASSWORD", "admin123"),
		IdentityJWTSecret: getEnv("IDENTITY_JWT_SECRET", "dev-identity-secret"),
		EchoCodes:         getEnvBool("ECHO_CODES", appEnv != "production"),
		RequireCollection: getEnvBool("REQUIRE_COLLECTION", false),
		CodeTTL:           time.Duration(getEnvInt("CODE_TTL_MINUTES", 10)) * time.Minute,
	}

	log.Printf("[config] PORT=%s DB_DSN=%s MEDIA_DIR=%s APP_ENV=%s ECHO_CODES=%v REQUIRE_COLLECTION=%v CODE_TTL=%s",
		cfg.Port, cfg.DBDSN, cfg.MediaDir, cfg.AppEnv, cfg.EchoCodes, cfg.RequireCollection, cfg.CodeTTL)
	return cfg
}

// Production reports whether cookies should carry the Secure flag.
func (c Config) Production() bool { return c.AppEnv == "production" }

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
