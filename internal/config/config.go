// Package config provides configuration loading and validation for the server.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds everything the server needs, loaded from the environment.
// At least one provider API key must be set; providers without a key are
// skipped when the fallback chain is assembled.
type Config struct {
	// Provider credentials and model selection
	OpenAIAPIKey string `validate:"required_without_all=GroqAPIKey GeminiAPIKey"`
	OpenAIModel  string
	GroqAPIKey   string `validate:"required_without_all=OpenAIAPIKey GeminiAPIKey"`
	GroqModel    string
	GeminiAPIKey string `validate:"required_without_all=OpenAIAPIKey GroqAPIKey"`
	GeminiModel  string

	// Persistence
	DatabaseURL string `validate:"required"`

	// Auth
	JWTSecret string `validate:"required,min=16"`

	// HTTP server
	Port int `validate:"gte=1,lte=65535"`

	// Logging
	LogJSON bool
	Debug   bool
}

// Defaults applied when the corresponding variable is unset
const (
	defaultOpenAIModel = "gpt-4o-mini"
	defaultGroqModel   = "llama-3.3-70b-versatile"
	defaultGeminiModel = "gemini-2.0-flash"
	defaultPort        = 8080
)

// Load reads configuration from the environment. A .env file in the working
// directory is applied first if present; real environment variables win.
func Load() (*Config, error) {
	// Missing .env is fine, env vars may be set directly
	_ = godotenv.Load()

	cfg := &Config{
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  envOr("OPENAI_MODEL", defaultOpenAIModel),
		GroqAPIKey:   os.Getenv("GROQ_API_KEY"),
		GroqModel:    envOr("GROQ_MODEL", defaultGroqModel),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  envOr("GEMINI_MODEL", defaultGeminiModel),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		LogJSON:      envBool("LOG_JSON"),
		Debug:        envBool("DEBUG"),
	}

	port := defaultPort
	if raw := os.Getenv("PORT"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT value %q: %w", raw, err)
		}
		port = parsed
	}
	cfg.Port = port

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration has valid values
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envBool(key string) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && value
}
