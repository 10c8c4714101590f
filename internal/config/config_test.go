package config

import (
	"os"
	"testing"
	"time"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal string
		expected   string
	}{
		{"uses env value", "TEST_VAR_1", "hello", "default", "hello"},
		{"uses default when empty", "TEST_VAR_2", "", "default", "default"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal int
		expected   int
	}{
		{"parses integer", "TEST_INT_1", "42", 10, 42},
		{"uses default for empty", "TEST_INT_2", "", 10, 10},
		{"uses default for non-numeric", "TEST_INT_3", "abc", 10, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvAsIntOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, result)
			}
		})
	}
}

func TestMustGetEnv_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for missing required env var")
		}
	}()

	os.Unsetenv("NONEXISTENT_REQUIRED_VAR")
	mustGetEnv("NONEXISTENT_REQUIRED_VAR")
}

func TestMustGetEnv_ReturnsValue(t *testing.T) {
	os.Setenv("TEST_REQUIRED", "value123")
	defer os.Unsetenv("TEST_REQUIRED")

	result := mustGetEnv("TEST_REQUIRED")
	if result != "value123" {
		t.Errorf("Expected 'value123', got %q", result)
	}
}

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/notenexus")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	for _, key := range []string{"AI_RATE_WINDOW_MS", "AI_RATE_MAX_REQUESTS", "AI_SUMMARY_TIMEOUT_SEC", "AI_FLASHCARD_TIMEOUT_SEC", "AI_QUIZ_TIMEOUT_SEC", "AUTH_REQUESTS_PER_MIN"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.AIRateWindow != time.Minute {
		t.Errorf("Expected 1m window, got %v", cfg.AIRateWindow)
	}
	if cfg.AIRateMaxRequests != 5 {
		t.Errorf("Expected 5 requests, got %d", cfg.AIRateMaxRequests)
	}
	if cfg.AISummaryTimeout != 10*time.Second || cfg.AIFlashcardTimeout != 20*time.Second || cfg.AIQuizTimeout != 20*time.Second {
		t.Errorf("Unexpected AI timeouts: %v %v %v", cfg.AISummaryTimeout, cfg.AIFlashcardTimeout, cfg.AIQuizTimeout)
	}
	if cfg.AuthRequestsPerMin != 10 {
		t.Errorf("Expected 10 auth requests/min, got %d", cfg.AuthRequestsPerMin)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("AI_RATE_WINDOW_MS", "1500")
	t.Setenv("AI_RATE_MAX_REQUESTS", "2")
	t.Setenv("ENV", "production")

	cfg := Load()

	if cfg.AIRateWindow != 1500*time.Millisecond {
		t.Errorf("Expected 1.5s window, got %v", cfg.AIRateWindow)
	}
	if cfg.AIRateMaxRequests != 2 {
		t.Errorf("Expected 2 requests, got %d", cfg.AIRateMaxRequests)
	}
	if !cfg.IsProduction() {
		t.Error("Expected production env")
	}
}
