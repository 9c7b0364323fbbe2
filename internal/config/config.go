// Package config loads receiver-side settings from TOML.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ServerConfig settings for the MLLP receiver and its admin surface.
type ServerConfig struct {
	ListenAddr     string   `toml:"listen_addr"`
	AdminAddr      string   `toml:"admin_addr"`
	CorsOrigins    []string `toml:"cors_origins"`
	ReadTimeoutSec int      `toml:"read_timeout_seconds"`
}

// ReadTimeout converts the configured seconds into a duration; zero
// disables the per-read deadline.
func (c ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSec) * time.Second
}

// LoadServerConfig reads path, applies defaults, and validates. An empty
// path yields the defaults.
func LoadServerConfig(path string) (ServerConfig, error) {
	var cfg ServerConfig
	if path != "" {
		if err := loadToml(path, &cfg); err != nil {
			return ServerConfig{}, err
		}
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":2575"
	}
	if cfg.AdminAddr == "" {
		cfg.AdminAddr = ":9090"
	}
	if err := ValidateServerConfig(cfg); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateServerConfig(cfg ServerConfig) error {
	if strings.TrimSpace(cfg.ListenAddr) == "" {
		return fmt.Errorf("server config missing listen_addr")
	}
	if strings.TrimSpace(cfg.AdminAddr) == "" {
		return fmt.Errorf("server config missing admin_addr")
	}
	if cfg.ReadTimeoutSec < 0 {
		return fmt.Errorf("server config read_timeout_seconds must not be negative")
	}
	return nil
}
