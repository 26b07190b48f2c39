// Package logging assembles structured slog loggers and formatting helpers used
// across anydl.
//
// It owns the configurable console/JSON handlers, tees warnings to stderr
// while the log file keeps full detail, and exposes context-aware helpers so
// backend and orchestrator code automatically tag log lines with the
// submission request ID and batch ordinal. The package also provides a no-op
// logger for tests and wiring code that cannot fail.
package logging
