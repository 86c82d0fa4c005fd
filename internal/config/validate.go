package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.RawDir == "" {
		return errors.New("paths.raw_dir must be set")
	}
	if c.Paths.DatasetDir == "" {
		return errors.New("paths.dataset_dir must be set")
	}
	if c.Paths.RawDir == c.Paths.DatasetDir {
		return errors.New("paths.raw_dir and paths.dataset_dir must differ")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	return ensurePositiveMap(map[string]int{
		"pipeline.min_text_length":      c.Pipeline.MinTextLength,
		"pipeline.workers":              c.Pipeline.Workers,
		"pipeline.load_timeout_seconds": c.Pipeline.LoadTimeoutSeconds,
	})
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
