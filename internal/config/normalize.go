package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeDedupe(); err != nil {
		return err
	}
	c.normalizeFields()
	c.Output.ReportFormat = strings.ToLower(strings.TrimSpace(c.Output.ReportFormat))
	if c.Output.ReportFormat == "" {
		c.Output.ReportFormat = defaultReportFormat
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeDedupe() error {
	if value, ok := os.LookupEnv("CONTACTMERGE_THRESHOLD"); ok && strings.TrimSpace(value) != "" {
		threshold, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return fmt.Errorf("CONTACTMERGE_THRESHOLD: %w", err)
		}
		c.Dedupe.Threshold = threshold
	}
	c.Dedupe.Mode = strings.ToLower(strings.TrimSpace(c.Dedupe.Mode))
	if c.Dedupe.Mode == "" {
		c.Dedupe.Mode = defaultMode
	}
	return nil
}

// Field names are matched exactly against input headers, so only surrounding
// whitespace is removed. Blank names fall back to the defaults.
func (c *Config) normalizeFields() {
	c.Fields.Phone = strings.TrimSpace(c.Fields.Phone)
	if c.Fields.Phone == "" {
		c.Fields.Phone = defaultPhoneField
	}
	c.Fields.Email = strings.TrimSpace(c.Fields.Email)
	if c.Fields.Email == "" {
		c.Fields.Email = defaultEmailField
	}
	c.Fields.Name = strings.TrimSpace(c.Fields.Name)
	if c.Fields.Name == "" {
		c.Fields.Name = defaultNameField
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	if value, ok := os.LookupEnv("CONTACTMERGE_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if file := strings.TrimSpace(c.Logging.File); file != "" {
		expanded, err := expandPath(file)
		if err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
		c.Logging.File = expanded
	}
	return nil
}
