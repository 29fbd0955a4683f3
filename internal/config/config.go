package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	Port            string
	SupabaseURL     string
	SupabaseAnonKey string
	MongoDBURI      string
	MongoDBPassword string
	Environment     string
	LogLevel        string
	AllowedOrigins  []string
	// AllowGuestBookings keeps booking creation open to unauthenticated
	// clients. On by default; set BOOKINGS_ALLOW_GUEST=false to require a
	// signed-in user.
	AllowGuestBookings bool
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:               getEnvWithDefault("PORT", "8080"),
		SupabaseURL:        os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey:    os.Getenv("SUPABASE_URL_ANON_KEY"),
		MongoDBURI:         os.Getenv("MONGODB_URI"),
		MongoDBPassword:    os.Getenv("MONGODB_PASSWORD"),
		Environment:        getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:           getEnvWithDefault("LOG_LEVEL", "info"),
		AllowedOrigins:     splitAndTrim(getEnvWithDefault("ALLOWED_ORIGINS", "http://localhost:5173")),
		AllowGuestBookings: getEnvWithDefault("BOOKINGS_ALLOW_GUEST", "true") != "false",
	}

	// Validate required fields
	if cfg.SupabaseURL == "" {
		return nil, fmt.Errorf("SUPABASE_URL is required")
	}
	if cfg.SupabaseAnonKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL_ANON_KEY is required")
	}
	if cfg.MongoDBURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
