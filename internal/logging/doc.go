// Package logging assembles the structured slog loggers used across
// rollclean components.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so pipeline code can automatically tag
// log lines with roll paths and run identifiers. The package also provides a
// no-op logger for tests.
package logging
