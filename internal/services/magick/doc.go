// Package magick wraps the ImageMagick CLI for format conversion, grayscale
// rewrites, and chroma inspection.
package magick
