package config

import (
	"errors"
	"io"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings for rhelconvert.
type Config struct {
	LogLevel              string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat             string `mapstructure:"log_format" yaml:"log_format"`
	LogFile               string `mapstructure:"log_file" yaml:"log_file"`
	LogMaxSizeMB          int    `mapstructure:"log_max_size_mb" yaml:"log_max_size_mb"`
	LogMaxBackups         int    `mapstructure:"log_max_backups" yaml:"log_max_backups"`
	CommandTimeoutSeconds int    `mapstructure:"command_timeout_seconds" yaml:"command_timeout_seconds"`
}

func Default() *Config {
	return &Config{
		LogLevel:              "info",
		LogFormat:             "console",
		LogFile:               filepath.Join(LogDir, "rhelconvert.log"),
		LogMaxSizeMB:          20,
		LogMaxBackups:         5,
		CommandTimeoutSeconds: 600,
	}
}

const (
	// ConfigDir is searched for rhelconvert.yaml when no file is given.
	ConfigDir = "/etc/rhelconvert"
	// LogDir holds the default log file.
	LogDir = "/var/log/rhelconvert"
)

// Load reads the config file (explicit path or the default search path) and
// RHELCONVERT_* environment overrides on top of Default(). A missing default
// config file is not an error.
func Load(cfgFile string) (*Config, error) {
	cfg := Default()
	v := viper.New()

	for key, value := range defaultsMap(cfg) {
		v.SetDefault(key, value)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("rhelconvert")
		v.SetConfigType("yaml")
		v.AddConfigPath(ConfigDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("RHELCONVERT")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WriteYAML renders the effective config.
func (c *Config) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

func defaultsMap(cfg *Config) map[string]any {
	return map[string]any{
		"log_level":               cfg.LogLevel,
		"log_format":              cfg.LogFormat,
		"log_file":                cfg.LogFile,
		"log_max_size_mb":         cfg.LogMaxSizeMB,
		"log_max_backups":         cfg.LogMaxBackups,
		"command_timeout_seconds": cfg.CommandTimeoutSeconds,
	}
}
