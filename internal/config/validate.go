package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScanner(); err != nil {
		return err
	}
	if err := c.validateNaming(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateScanner() error {
	switch c.Scanner.Generation {
	case "ms01", "c4c5":
		return nil
	default:
		return fmt.Errorf("scanner.generation must be one of ms01, c4c5 (got %q)", c.Scanner.Generation)
	}
}

func (c *Config) validateNaming() error {
	if c.Naming.RollPadding < 1 || c.Naming.RollPadding > 10 {
		return errors.New("naming.roll_padding must be between 1 and 10")
	}
	if c.Naming.FramePadding < 1 || c.Naming.FramePadding > 10 {
		return errors.New("naming.frame_padding must be between 1 and 10")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error (got %q)", c.Logging.Level)
	}
	return nil
}
