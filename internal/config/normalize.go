package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeScanner()
	c.normalizeTools()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.ExportRoot) != "" {
		if c.Paths.ExportRoot, err = expandPath(c.Paths.ExportRoot); err != nil {
			return fmt.Errorf("paths.export_root: %w", err)
		}
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.JournalPath) == "" {
		c.Paths.JournalPath = defaultJournalPath
	}
	if c.Paths.JournalPath, err = expandPath(c.Paths.JournalPath); err != nil {
		return fmt.Errorf("paths.journal_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeScanner() {
	c.Scanner.Generation = strings.ToLower(strings.TrimSpace(c.Scanner.Generation))
	if c.Scanner.Generation == "" {
		c.Scanner.Generation = defaultGeneration
	}
	if strings.TrimSpace(c.Scanner.Make) == "" {
		c.Scanner.Make = defaultScannerMake
	}
	if strings.TrimSpace(c.Scanner.Model) == "" {
		c.Scanner.Model = defaultScannerModel
	}
}

func (c *Config) normalizeTools() {
	c.Exiftool.Binary = strings.TrimSpace(c.Exiftool.Binary)
	if c.Exiftool.Binary == "" {
		c.Exiftool.Binary = defaultExiftoolBinary
	}
	c.Magick.Binary = strings.TrimSpace(c.Magick.Binary)
	if c.Magick.Binary == "" {
		c.Magick.Binary = defaultMagickBinary
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
