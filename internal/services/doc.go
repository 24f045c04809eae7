// Package services defines shared utilities consumed by the workflow runner
// and the external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp roll paths and run correlation identifiers
//     for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     into the run/roll/image recovery granularity the runner enforces.
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability) stays uniform across components.
package services
