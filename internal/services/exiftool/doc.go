// Package exiftool wraps the exiftool CLI in stay-open mode for batch
// metadata writes.
package exiftool
