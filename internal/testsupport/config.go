package testsupport

import (
	"path/filepath"
	"testing"

	"rollclean/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ExportRoot = filepath.Join(base, "export")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.JournalPath = filepath.Join(base, "journal.db")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithGeneration overrides the scanner generation profile.
func WithGeneration(generation string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Scanner.Generation = generation
	}
}

// WithPadding overrides the roll and frame padding widths.
func WithPadding(roll, frame int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Naming.RollPadding = roll
		cfg.Naming.FramePadding = frame
	}
}
