package config

import (
	"errors"
	"fmt"
	"math"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDedupe(); err != nil {
		return err
	}
	if err := c.validateFields(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateDedupe() error {
	t := c.Dedupe.Threshold
	if math.IsNaN(t) || t < 0 || t > 100 {
		return fmt.Errorf("dedupe.threshold must be between 0 and 100, got %v", t)
	}
	switch c.Dedupe.Mode {
	case ModeLink, ModeMerge:
	default:
		return fmt.Errorf("dedupe.mode must be %q or %q, got %q", ModeLink, ModeMerge, c.Dedupe.Mode)
	}
	if c.Dedupe.Workers < 0 {
		return errors.New("dedupe.workers must be zero or positive")
	}
	return nil
}

func (c *Config) validateFields() error {
	names := map[string]string{}
	for _, f := range []struct{ key, value string }{
		{"fields.phone", c.Fields.Phone},
		{"fields.email", c.Fields.Email},
		{"fields.name", c.Fields.Name},
	} {
		if f.value == "" {
			return fmt.Errorf("%s must be set", f.key)
		}
		if other, ok := names[f.value]; ok {
			return fmt.Errorf("%s and %s both name field %q", other, f.key, f.value)
		}
		names[f.value] = f.key
	}
	return nil
}

func (c *Config) validateOutput() error {
	switch c.Output.ReportFormat {
	case "table", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("output.report_format must be table, json, or yaml, got %q", c.Output.ReportFormat)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
