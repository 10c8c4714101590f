package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL      string
	DatabaseMaxConns int

	// Redis
	RedisURL string

	// JWT
	JWTSecret string

	// Gemini AI. Without a key every summary is extractive and flashcards and
	// quizzes use the fixed fallbacks.
	GeminiAPIKey string
	GeminiModel  string

	// AI request budget, shared by every feature
	AIRateWindow       time.Duration
	AIRateMaxRequests  int
	AISummaryTimeout   time.Duration
	AIFlashcardTimeout time.Duration
	AIQuizTimeout      time.Duration

	// YouTube. An API key selects the Data API, otherwise the player endpoint
	// is scraped.
	YouTubeAPIKey string

	// Auth
	GoogleClientID     string
	AuthRequestsPerMin int

	// SMTP
	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:               getEnvOrDefault("PORT", "8080"),
		Env:                getEnvOrDefault("ENV", "development"),
		DatabaseURL:        mustGetEnv("DATABASE_URL"),
		DatabaseMaxConns:   getEnvAsIntOrDefault("DATABASE_MAX_CONNS", 25),
		RedisURL:           mustGetEnv("REDIS_URL"),
		JWTSecret:          mustGetEnv("JWT_SECRET"),
		GeminiAPIKey:       getEnvOrDefault("GEMINI_API_KEY", ""),
		GeminiModel:        getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		AIRateWindow:       time.Duration(getEnvAsIntOrDefault("AI_RATE_WINDOW_MS", 60000)) * time.Millisecond,
		AIRateMaxRequests:  getEnvAsIntOrDefault("AI_RATE_MAX_REQUESTS", 5),
		AISummaryTimeout:   time.Duration(getEnvAsIntOrDefault("AI_SUMMARY_TIMEOUT_SEC", 10)) * time.Second,
		AIFlashcardTimeout: time.Duration(getEnvAsIntOrDefault("AI_FLASHCARD_TIMEOUT_SEC", 20)) * time.Second,
		AIQuizTimeout:      time.Duration(getEnvAsIntOrDefault("AI_QUIZ_TIMEOUT_SEC", 20)) * time.Second,
		YouTubeAPIKey:      getEnvOrDefault("YOUTUBE_API_KEY", ""),
		GoogleClientID:     getEnvOrDefault("GOOGLE_CLIENT_ID", ""),
		AuthRequestsPerMin: getEnvAsIntOrDefault("AUTH_REQUESTS_PER_MIN", 10),
		SMTPHost:           getEnvOrDefault("SMTP_HOST", ""),
		SMTPPort:           getEnvOrDefault("SMTP_PORT", "587"),
		SMTPUser:           getEnvOrDefault("SMTP_USER", ""),
		SMTPPass:           getEnvOrDefault("SMTP_PASS", ""),
		SMTPFrom:           getEnvOrDefault("SMTP_FROM", "noreply@notenexus.app"),
		FrontendURL:        getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	if cfg.AIRateMaxRequests <= 0 {
		panic("AI_RATE_MAX_REQUESTS must be positive")
	}
	if cfg.AuthRequestsPerMin <= 0 {
		panic("AUTH_REQUESTS_PER_MIN must be positive")
	}

	return cfg
}

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Env == "production"
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

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
