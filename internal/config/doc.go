// Package config loads, normalizes, and validates the TOML configuration
// that drives rollclean.
//
// Configuration resolves from an explicit --config path, then
// ~/.config/rollclean/config.toml, then ./rollclean.toml, falling back to
// built-in defaults when no file exists. All path values are tilde-expanded
// and made absolute before any other package sees them.
package config
