package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Port               string
	AdminPort          string
	DBPath             string
	DatabaseURL        string
	DemoMode           bool
	SeedFile           string
	PublicBaseURL      string
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
	GinMode            string
	LogLevel           string
}

// Load reads .env files if present, then the process environment.
// Variables already set in the environment win over .env values.
func Load() *Config {
	for _, f := range []string{".env.local", ".env"} {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			log.WithError(err).WithField("file", f).Warn("failed to load env file")
		}
	}

	return &Config{
		Port:               envOrDefault("PORT", "8080"),
		AdminPort:          envOrDefault("ADMIN_PORT", "9090"),
		DBPath:             envOrDefault("DB_PATH", "/data/wedding.db"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		DemoMode:           envOrDefaultBool("DEMO_MODE", false),
		SeedFile:           os.Getenv("SEED_FILE"),
		PublicBaseURL:      strings.TrimRight(envOrDefault("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		CORSAllowedOrigins: envList("CORS_ALLOWED_ORIGINS"),
		RateLimitRPS:       envOrDefaultFloat("RATE_LIMIT_RPS", 1),
		RateLimitBurst:     envOrDefaultInt("RATE_LIMIT_BURST", 10),
		GinMode:            envOrDefault("GIN_MODE", "release"),
		LogLevel:           envOrDefault("LOG_LEVEL", "info"),
	}
}

// UseDemoStore reports whether the embedded bbolt store backs the server.
func (c *Config) UseDemoStore() bool {
	return c.DemoMode || c.DatabaseURL == ""
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func envOrDefaultFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envOrDefaultBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// envList splits a comma-separated variable, dropping empty entries.
func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
