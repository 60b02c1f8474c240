package config

import (
	"os"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string // optional; empty = in-memory store only
	CORSOrigins string
	// Conversion service
	ConvertBaseURL string
	ConvertEngine  string // auto, adobe or libreoffice
	// Naming assistant (OpenAI-compatible endpoint)
	AssistantBaseURL string
	AssistantAPIKey  string
	AssistantModel   string
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),

		ConvertBaseURL: getEnv("CONVERT_BASE_URL", "http://localhost:8787"),
		ConvertEngine:  getEnv("CONVERT_ENGINE", "auto"),

		AssistantBaseURL: getEnv("ASSISTANT_BASE_URL", ""),
		AssistantAPIKey:  getEnv("ASSISTANT_API_KEY", ""),
		AssistantModel:   getEnv("ASSISTANT_MODEL", "llama-3.2-1b-instruct"),

		// Debug defaults to true outside prod
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
