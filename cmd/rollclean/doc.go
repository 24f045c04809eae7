// Package main hosts the rollclean CLI entrypoint and command graph.
//
// The Cobra-based command tree covers batch processing of scanner exports,
// journal maintenance, EXIF verification of processed rolls, and
// configuration scaffolding. It centralizes configuration resolution and
// structured logging setup so subcommands can focus on user experience.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
