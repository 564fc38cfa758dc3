// Package config provides configuration loading and validation for the
// mood agent. Values resolve from environment variables first, then
// from a JSON secrets file.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// DefaultSecretsFile is consulted when SECRETS_FILE is not set.
const DefaultSecretsFile = "secrets.json"

// DefaultPort is the HTTP listen port when PORT is not set.
const DefaultPort = 8080

// Config holds everything the agent needs at startup.
type Config struct {
	GeminiAPIKey  string `json:"gemini_api_key" validate:"required"`
	TMDBAPIKey    string `json:"tmdb_api_key" validate:"required"`
	TMDBLanguage  string `json:"tmdb_language,omitempty"`
	SessionSecret string `json:"session_secret,omitempty"`
	Port          int    `json:"port,omitempty" validate:"gte=0,lte=65535"`
}

// secretsFile mirrors the JSON secrets document. Only keys, never
// operational settings, live there.
type secretsFile struct {
	GeminiAPIKey  string `json:"gemini_api_key"`
	TMDBAPIKey    string `json:"tmdb_api_key"`
	SessionSecret string `json:"session_secret"`
}

// Load resolves the configuration. Environment variables win; keys
// still missing afterwards are read from the secrets file. A missing
// secrets file is only an error when a required key has no other
// source.
func Load() (*Config, error) {
	cfg := &Config{
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		TMDBAPIKey:    os.Getenv("TMDB_API_KEY"),
		TMDBLanguage:  os.Getenv("TMDB_LANGUAGE"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		Port:          DefaultPort,
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", portStr, err)
		}
		cfg.Port = port
	}

	if cfg.GeminiAPIKey == "" || cfg.TMDBAPIKey == "" || cfg.SessionSecret == "" {
		if err := cfg.fillFromSecretsFile(secretsPath()); err != nil {
			return nil, err
		}
	}

	if cfg.SessionSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
		cfg.SessionSecret = secret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// fillFromSecretsFile fills missing keys from the JSON secrets file at
// path. The file being absent is not an error here; Validate catches
// the case where a required key ends up with no source at all.
func (c *Config) fillFromSecretsFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read secrets file %s: %w", path, err)
	}

	var secrets secretsFile
	if err := json.Unmarshal(data, &secrets); err != nil {
		return fmt.Errorf("failed to parse secrets file %s: %w", path, err)
	}

	if c.GeminiAPIKey == "" {
		c.GeminiAPIKey = secrets.GeminiAPIKey
	}
	if c.TMDBAPIKey == "" {
		c.TMDBAPIKey = secrets.TMDBAPIKey
	}
	if c.SessionSecret == "" {
		c.SessionSecret = secrets.SessionSecret
	}
	return nil
}

func secretsPath() string {
	if path := os.Getenv("SECRETS_FILE"); path != "" {
		return path
	}
	return DefaultSecretsFile
}

// randomSecret returns a fresh per-process token signing secret.
// Sessions are in-memory only, so tokens not surviving a restart is
// acceptable.
func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
