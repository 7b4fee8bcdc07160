package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tarefas configuration file
# Values can be overridden by TAREFAS_* environment variables or CLI flags

# Task data file (relative to the working directory)
data_file = "tarefas.json"

# Storage backend: file, sqlite or memory
storage = "file"

# SQLite database used when storage = "sqlite"
database_file = "tarefas.db"

# Priority for new tasks when none is given: Alta, Média or Baixa
default_priority = "Média"

# Log directory for TUI sessions (supports ~ expansion)
log_dir = "~/.tarefas/logs"

# Logging: debug, info, warn, error
log_level = "info"
# text, json or logfmt
log_format = "text"
log_timestamps = false
log_caller = false
`
}
