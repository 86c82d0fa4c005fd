package config

import "strings"

// normalize expands paths and canonicalizes string fields after decoding.
func (c *Config) normalize() error {
	var err error
	if c.Paths.RawDir, err = expandPath(strings.TrimSpace(c.Paths.RawDir)); err != nil {
		return err
	}
	if c.Paths.DatasetDir, err = expandPath(strings.TrimSpace(c.Paths.DatasetDir)); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return err
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}
