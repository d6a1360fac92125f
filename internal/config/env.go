package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

func init() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()
}

type Config struct {
	// Required
	AnthropicAPIKey string

	// Optional with defaults
	DBPath            string
	HTTPPort          int
	ClaudeModel       string
	ClaudeTemperature float64
	ClaudeTimeout     time.Duration

	// Conversation windows
	FollowUpWindow time.Duration
	PurgeAfter     time.Duration
	// DurableConversations stores sessions in sqlite instead of process memory.
	DurableConversations bool

	// Absence classification thresholds, in minutes
	ShortAbsenceMaxMinutes int
	HalfDayMaxMinutes      int

	// Reply customization
	FallbackContact string

	// Supervisor notifications (disabled when the API key is empty)
	ResendAPIKey    string
	EmailFrom       string
	SupervisorEmail string
}

func LoadFromEnv() *Config {
	cfg := &Config{
		// Required
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),

		// Optional with defaults
		DBPath:            getEnvOrDefault("ATTENDBOT_DB_PATH", "./attendbot.db"),
		HTTPPort:          getEnvAsIntOrDefault("ATTENDBOT_HTTP_PORT", 8080),
		ClaudeModel:       getEnvOrDefault("ATTENDBOT_CLAUDE_MODEL", "claude-sonnet-4-20250514"),
		ClaudeTemperature: getEnvAsFloatOrDefault("ATTENDBOT_CLAUDE_TEMPERATURE", 0.1),
		ClaudeTimeout:     getEnvAsDurationOrDefault("ATTENDBOT_CLAUDE_TIMEOUT", 15*time.Second),

		FollowUpWindow:       getEnvAsDurationOrDefault("ATTENDBOT_FOLLOWUP_WINDOW", 10*time.Minute),
		PurgeAfter:           getEnvAsDurationOrDefault("ATTENDBOT_PURGE_AFTER", 15*time.Minute),
		DurableConversations: getEnvAsBoolOrDefault("ATTENDBOT_DURABLE_CONVERSATIONS", false),

		ShortAbsenceMaxMinutes: getEnvAsIntOrDefault("ATTENDBOT_SHORT_ABSENCE_MAX", 120),
		HalfDayMaxMinutes:      getEnvAsIntOrDefault("ATTENDBOT_HALF_DAY_MAX", 240),

		FallbackContact: getEnvOrDefault("ATTENDBOT_FALLBACK_CONTACT", "your supervisor"),

		ResendAPIKey:    os.Getenv("RESEND_API_KEY"),
		EmailFrom:       getEnvOrDefault("ATTENDBOT_EMAIL_FROM", "Attendbot <attendance@resend.dev>"),
		SupervisorEmail: os.Getenv("ATTENDBOT_SUPERVISOR_EMAIL"),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
