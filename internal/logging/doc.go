// Package logging provides structured logging helpers built on log/slog.
//
// It defines the canonical attribute keys used across the codebase so
// that log entries from different components can be correlated, and a
// few helpers for logging sensitive values safely.
package logging
