package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds the server configuration. It is built once at startup and
// never mutated afterwards; everything downstream receives it by injection.
type Config struct {
	// Dir is the share root. Validate makes it absolute and resolves
	// symlinks so containment checks have a canonical base.
	Dir  string `mapstructure:"dir"`
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	// Hidden includes dot-prefixed entries in directory listings.
	Hidden bool `mapstructure:"hidden"`

	// NoQR suppresses the terminal QR code at startup.
	NoQR bool `mapstructure:"no_qr"`
	// QRFile, when set, is a path to write a PNG QR code to.
	QRFile string `mapstructure:"qr_png"`

	Logging LoggingConfig `mapstructure:"logging"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" or "json"
	File   string `mapstructure:"file"`   // optional log file path
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Dir:  ".",
		Host: "0.0.0.0",
		Port: 8000,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// SetDefaults registers default values on a viper instance.
// Priority when loading: flags > environment variables > defaults.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("dir", d.Dir)
	v.SetDefault("host", d.Host)
	v.SetDefault("port", d.Port)
	v.SetDefault("hidden", d.Hidden)
	v.SetDefault("no_qr", d.NoQR)
	v.SetDefault("qr_png", d.QRFile)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.file", d.Logging.File)
}

// FromViper unmarshals a viper instance into a Config.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration and canonicalizes the share root.
// It fails fast when the share directory is missing or unreadable.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}

	abs, err := filepath.Abs(c.Dir)
	if err != nil {
		return fmt.Errorf("failed to resolve share directory %q: %w", c.Dir, err)
	}
	// Resolve symlinks up front so every later containment check runs
	// against the canonical root.
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("share directory %q does not exist", abs)
		}
		return fmt.Errorf("failed to resolve share directory %q: %w", abs, err)
	}
	info, err := os.Stat(real)
	if err != nil {
		return fmt.Errorf("failed to stat share directory %q: %w", real, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("share path %q is not a directory", real)
	}
	// Readability probe: a share root we cannot list is useless.
	if _, err := os.ReadDir(real); err != nil {
		return fmt.Errorf("share directory %q is not readable: %w", real, err)
	}
	c.Dir = real
	return nil
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// BaseURL returns the advertised URL for the given local IP.
func (c *Config) BaseURL(ip string) string {
	return "http://" + net.JoinHostPort(ip, strconv.Itoa(c.Port)) + "/"
}
