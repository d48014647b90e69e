package config

import (
	"os"
	"strings"
)

const (
	defaultDBPath     = "./workspace.db"
	defaultPort       = "8080"
	defaultAppVersion = "JulineMart v2"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	DBPath     string
	Port       string
	AppVersion string
	Debug      bool
	LogFile    string
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: local dev keeps its settings in a dotenv file.
	// Missing file is fine; production should use real env injection.
	_ = loadDotEnv(".env")

	cfg := Config{
		DBPath:     os.Getenv("DB_PATH"),
		Port:       os.Getenv("PORT"),
		AppVersion: os.Getenv("APP_VERSION"),
		Debug:      isTruthy(os.Getenv("DEBUG")),
		LogFile:    os.Getenv("LOG_FILE"),
	}

	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.AppVersion == "" {
		cfg.AppVersion = defaultAppVersion
	}

	return cfg
}

func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes":
		return true
	}
	return false
}
