package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

var validLogLevels = map[string]bool{
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

var validLogFormats = map[string]bool{
	"console": true,
	"text":    true,
	"json":    true,
}

// Validate checks the config for invalid values and returns all errors found.
// Out-of-range numbers are clamped and invalid names reset to their defaults,
// so the returned errors are warnings; each one is also logged.
func (c *Config) Validate() []error {
	var errs []error
	def := Default()

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Errorf("log_level %q is not valid (use debug, info, warn, error), using %q", c.LogLevel, def.LogLevel))
		c.LogLevel = def.LogLevel
	}

	if !validLogFormats[strings.ToLower(c.LogFormat)] {
		errs = append(errs, fmt.Errorf("log_format %q is not valid (use console, text or json), using %q", c.LogFormat, def.LogFormat))
		c.LogFormat = def.LogFormat
	}

	if c.LogFile != "" && !filepath.IsAbs(c.LogFile) {
		errs = append(errs, fmt.Errorf("log_file %q must be an absolute path, file logging disabled", c.LogFile))
		c.LogFile = ""
	}

	if c.LogMaxSizeMB < 1 {
		errs = append(errs, fmt.Errorf("log_max_size_mb %d is below minimum 1, clamping", c.LogMaxSizeMB))
		c.LogMaxSizeMB = 1
	} else if c.LogMaxSizeMB > 1024 {
		errs = append(errs, fmt.Errorf("log_max_size_mb %d exceeds maximum 1024, clamping", c.LogMaxSizeMB))
		c.LogMaxSizeMB = 1024
	}

	if c.LogMaxBackups < 0 {
		errs = append(errs, fmt.Errorf("log_max_backups %d is negative, clamping", c.LogMaxBackups))
		c.LogMaxBackups = 0
	} else if c.LogMaxBackups > 100 {
		errs = append(errs, fmt.Errorf("log_max_backups %d exceeds maximum 100, clamping", c.LogMaxBackups))
		c.LogMaxBackups = 100
	}

	if c.CommandTimeoutSeconds < 1 {
		errs = append(errs, fmt.Errorf("command_timeout_seconds %d is below minimum 1, clamping", c.CommandTimeoutSeconds))
		c.CommandTimeoutSeconds = 1
	} else if c.CommandTimeoutSeconds > 3600 {
		errs = append(errs, fmt.Errorf("command_timeout_seconds %d exceeds maximum 3600, clamping", c.CommandTimeoutSeconds))
		c.CommandTimeoutSeconds = 3600
	}

	for _, err := range errs {
		slog.Warn("config validation", "error", err)
	}

	return errs
}
