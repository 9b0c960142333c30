// Package config reads bandprep settings from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/abhisek/bandprep/internal/identity"
	"github.com/abhisek/bandprep/internal/submit"
)

// Config holds all application configuration. LLM settings live in
// llm.ConfigFromEnv.
type Config struct {
	ResultsURL string
	UserID     string
	AuthToken  string

	// DBPath is empty unless set; store.DefaultDBPath applies then.
	DBPath string

	LogLevel  string
	LogFormat string
	LogFile   string

	ServerAddr string
	JWTSecret  string
	TokenTTL   time.Duration

	// SubmitTimeout bounds the result POST. Zero leaves the transport
	// default in place.
	SubmitTimeout time.Duration
}

// Load reads configuration from environment variables with defaults.
// A .env file in the working directory is loaded first if present.
func Load() *Config {
	_ = godotenv.Load() // .env is optional
	return fromEnv()
}

func fromEnv() *Config {
	return &Config{
		ResultsURL:    getEnv("BANDPREP_RESULTS_URL", submit.DefaultEndpoint),
		UserID:        getEnv("BANDPREP_USER_ID", ""),
		AuthToken:     getEnv("BANDPREP_AUTH_TOKEN", ""),
		DBPath:        getEnv("BANDPREP_DB", ""),
		LogLevel:      getEnv("BANDPREP_LOG_LEVEL", "info"),
		LogFormat:     getEnv("BANDPREP_LOG_FORMAT", "json"),
		LogFile:       getEnv("BANDPREP_LOG_FILE", ""),
		ServerAddr:    getEnv("BANDPREP_SERVER_ADDR", ":8080"),
		JWTSecret:     getEnv("BANDPREP_JWT_SECRET", "change-this-dev-secret"),
		TokenTTL:      time.Duration(getEnvInt("BANDPREP_TOKEN_TTL_HOURS", 24)) * time.Hour,
		SubmitTimeout: time.Duration(getEnvInt("BANDPREP_SUBMIT_TIMEOUT_SECONDS", 0)) * time.Second,
	}
}

// Identity returns the credential source for submissions.
func (c *Config) Identity() identity.Source {
	return identity.Static{UserID: c.UserID, AuthToken: c.AuthToken}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
