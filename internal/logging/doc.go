// Package logging builds charmbracelet/log loggers for the CLI and keeps
// per-run log files for terminal UI sessions.
//
// Session logs live under <log_dir>/<list>-<hash>/<session-id>.log, where
// the list name comes from the data file and the hash of its absolute
// path keeps lists with the same file name apart.
package logging
