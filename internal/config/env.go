package config

import (
	"os"
	"strings"
)

// loadFromEnv overrides config from TAREFAS_* environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TAREFAS_DATA_FILE"); v != "" {
		cfg.DataFile = v
	}
	if v := os.Getenv("TAREFAS_STORAGE"); v != "" {
		cfg.Storage = v
	}
	if v := os.Getenv("TAREFAS_DB_FILE"); v != "" {
		cfg.DatabaseFile = v
	}
	if v := os.Getenv("TAREFAS_DEFAULT_PRIORITY"); v != "" {
		cfg.DefaultPriority = v
	}
	if v := os.Getenv("TAREFAS_LOG_DIR"); v != "" {
		cfg.LogDir = v
	}
	if v := os.Getenv("TAREFAS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TAREFAS_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("TAREFAS_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
	}
	if v := os.Getenv("TAREFAS_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
	}
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
