package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds every runtime knob, loaded from .env / process environment.
type Config struct {
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`
	DebugMode  bool   `env:"DEBUG_MODE" envDefault:"false"`

	DBPath string `env:"DB_PATH" envDefault:"./ev_chatbot.db"`

	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	GeminiModel   string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash-preview-09-2025"`
	GeminiBaseURL string `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com"`

	SystemInstruction string `env:"SYSTEM_INSTRUCTION" envDefault:"You are a friendly, helpful, and concise multimodal AI assistant. Provide detailed and accurate responses, especially when analyzing uploaded images."`
	// Turns of prior history sent with each request; 0 means unbounded.
	MaxHistoryTurns int `env:"MAX_HISTORY_TURNS" envDefault:"10"`

	JWTSecretKey     string        `env:"JWT_SECRET_KEY"`
	SessionTTL       time.Duration `env:"SESSION_TTL" envDefault:"1h"`
	SignupInviteCode string        `env:"SIGNUP_INVITE_CODE"`

	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"8388608"`
}

var ErrMissingJWTSecret = errors.New("config: JWT_SECRET_KEY is not set")

// Load reads .env (if present) and parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.JWTSecretKey == "" {
		return nil, ErrMissingJWTSecret
	}
	return cfg, nil
}
