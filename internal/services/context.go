package services

import "context"

type contextKey string

const (
	rollKey  contextKey = "roll"
	runIDKey contextKey = "run_id"
)

// WithRoll annotates context with the roll directory being processed.
func WithRoll(ctx context.Context, roll string) context.Context {
	if roll == "" {
		return ctx
	}
	return context.WithValue(ctx, rollKey, roll)
}

// RollFromContext returns the roll directory if present.
func RollFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(rollKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRunID annotates context with the run correlation identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run correlation identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
