package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// JWT
	JWTSecret string

	// Gemini AI. Optional: when empty the assistant runs on rule-based
	// fallback replies only.
	GeminiAPIKey string

	// Resend email
	ResendAPIKey string
	MailFrom     string
	ReplyTo      string

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:         getEnvOrDefault("PORT", "8080"),
		Env:          getEnvOrDefault("ENV", "development"),
		DatabaseURL:  mustGetEnv("DATABASE_URL"),
		RedisURL:     mustGetEnv("REDIS_URL"),
		JWTSecret:    mustGetEnv("JWT_SECRET"),
		GeminiAPIKey: getEnvOrDefault("GEMINI_API_KEY", ""),
		ResendAPIKey: getEnvOrDefault("RESEND_API_KEY", ""),
		MailFrom:     getEnvOrDefault("MAIL_FROM", "MyCabinet <no-reply@mycabinet.me>"),
		ReplyTo:      getEnvOrDefault("REPLY_TO", ""),
		FrontendURL:  getEnvOrDefault("FRONTEND_URL", "http://localhost:19006"),
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}
