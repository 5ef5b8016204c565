package config

import (
	"fmt"
	"net"
	"slices"

	"github.com/caarlos0/env/v11"
)

// LogLevels lists the accepted values of the log level setting
var LogLevels = []string{"trace", "debug", "info", "warn", "error"}

// Config holds process settings read from the environment.
// Command line flags take precedence over these values.
type Config struct {
	DBPath   string `env:"GEOEDIT_DB_PATH"`
	LogLevel string `env:"GEOEDIT_LOG_LEVEL" envDefault:"info"`

	// LogFile enables a rotating log file in addition to stderr.
	LogFile       string `env:"GEOEDIT_LOG_FILE"`
	LogMaxSizeMB  int    `env:"GEOEDIT_LOG_MAX_SIZE_MB" envDefault:"50"`
	LogMaxBackups int    `env:"GEOEDIT_LOG_MAX_BACKUPS" envDefault:"5"`
	LogMaxAgeDays int    `env:"GEOEDIT_LOG_MAX_AGE_DAYS" envDefault:"30"`
	LogCompress   bool   `env:"GEOEDIT_LOG_COMPRESS" envDefault:"true"`

	ListenAddr string `env:"GEOEDIT_LISTEN_ADDR" envDefault:"127.0.0.1:8270"`
	// AllowSubnet restricts websocket clients to a CIDR range. Empty allows all.
	AllowSubnet string `env:"GEOEDIT_ALLOW_SUBNET"`
}

// Load reads the configuration from the environment
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// Validate checks values the environment parser cannot
func (c *Config) Validate() error {
	if !slices.Contains(LogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level %q (expected one of %v)", c.LogLevel, LogLevels)
	}
	if c.LogMaxSizeMB <= 0 {
		return fmt.Errorf("log max size must be positive, got %d", c.LogMaxSizeMB)
	}
	if c.LogMaxBackups < 0 || c.LogMaxAgeDays < 0 {
		return fmt.Errorf("log retention values must not be negative")
	}
	if _, err := c.AllowedNet(); err != nil {
		return err
	}
	return nil
}

// AllowedNet parses AllowSubnet. It returns nil when no subnet is configured.
func (c *Config) AllowedNet() (*net.IPNet, error) {
	return ParseSubnet(c.AllowSubnet)
}

// ParseSubnet parses a CIDR for the listen allow-list. An empty string means
// no restriction and yields a nil network.
func ParseSubnet(cidr string) (*net.IPNet, error) {
	if cidr == "" {
		return nil, nil
	}
	_, ipNet, err := net.ParseCIDR(cidr)
	if err != nil {
		return nil, fmt.Errorf("invalid allowed subnet %q: %w", cidr, err)
	}
	return ipNet, nil
}
