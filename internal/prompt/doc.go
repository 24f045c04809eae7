// Package prompt handles the interactive per-roll black and white decision.
package prompt
