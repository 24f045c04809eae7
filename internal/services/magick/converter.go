package magick

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"rollclean/internal/services"
)

var commandContext = exec.CommandContext

// ChromaStats summarizes the chroma channel of an image, normalized to 0..1.
// Nearly colorless scans are almost certainly black and white film.
type ChromaStats struct {
	Mean float64
	Max  float64
}

// LikelyBW reports whether the stats indicate a black and white frame.
func (s ChromaStats) LikelyBW() bool {
	return s.Mean < 0.02 && s.Max < 0.05
}

// Converter defines the image operations the processing workflow needs.
type Converter interface {
	ConvertToTIFF(ctx context.Context, bmpPath string) (string, error)
	Grayscale(ctx context.Context, path string) error
	InspectChroma(ctx context.Context, path string) (ChromaStats, error)
}

// CLI shells out to ImageMagick.
type CLI struct {
	binary string
}

// New constructs an ImageMagick client.
func New(binary string) (*CLI, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("magick binary required")
	}
	return &CLI{binary: binary}, nil
}

// ConvertToTIFF rewrites a BMP as an LZW-compressed TIFF alongside it and
// removes the BMP. Returns the new file path.
func (c *CLI) ConvertToTIFF(ctx context.Context, bmpPath string) (string, error) {
	if bmpPath == "" {
		return "", errors.New("image path required")
	}
	tifPath := strings.TrimSuffix(bmpPath, filepath.Ext(bmpPath)) + ".tif"

	if _, err := c.run(ctx, bmpPath, "-compress", "LZW", tifPath); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "magick", "convert to tiff", bmpPath, err)
	}
	if err := os.Remove(bmpPath); err != nil {
		return "", fmt.Errorf("remove source bmp: %w", err)
	}
	return tifPath, nil
}

// Grayscale rewrites the image in place as single-channel grayscale.
func (c *CLI) Grayscale(ctx context.Context, path string) error {
	if path == "" {
		return errors.New("image path required")
	}
	if _, err := c.run(ctx, path, "-type", "Grayscale", path); err != nil {
		return services.Wrap(services.ErrExternalTool, "magick", "grayscale", path, err)
	}
	return nil
}

// InspectChroma measures the chroma channel in HCL colorspace. The fx
// escapes report values already normalized by the quantum range.
func (c *CLI) InspectChroma(ctx context.Context, path string) (ChromaStats, error) {
	if path == "" {
		return ChromaStats{}, errors.New("image path required")
	}
	output, err := c.run(ctx, path, "-colorspace", "HCL", "-format", "%[fx:mean.g] %[fx:maxima.g]", "info:")
	if err != nil {
		return ChromaStats{}, services.Wrap(services.ErrExternalTool, "magick", "inspect chroma", path, err)
	}

	fields := strings.Fields(strings.TrimSpace(output))
	if len(fields) != 2 {
		return ChromaStats{}, services.Wrap(services.ErrExternalTool, "magick", "inspect chroma",
			fmt.Sprintf("%s: unexpected output %q", path, strings.TrimSpace(output)), nil)
	}
	mean, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return ChromaStats{}, fmt.Errorf("parse chroma mean %q: %w", fields[0], err)
	}
	max, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return ChromaStats{}, fmt.Errorf("parse chroma max %q: %w", fields[1], err)
	}
	return ChromaStats{Mean: mean, Max: max}, nil
}

func (c *CLI) run(ctx context.Context, args ...string) (string, error) {
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("%s: %w", msg, err)
		}
		return "", err
	}
	return stdout.String(), nil
}
