// Package config loads taskcanvas.toml and applies environment overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	// FileName is looked up in the working directory when no path is given.
	FileName = "taskcanvas.toml"
	// EnvEndpoint overrides service.endpoint.
	EnvEndpoint = "TASKCANVAS_API_URL"
	// DefaultEndpoint is used when nothing is configured or discovered.
	DefaultEndpoint = "http://localhost:8080/graphql"
)

const (
	TransportHTTP = "http"
	TransportWS   = "ws"
)

// Config represents the taskcanvas.toml configuration file
type Config struct {
	Service ServiceConfig `toml:"service"`
	Canvas  CanvasConfig  `toml:"canvas"`
}

type ServiceConfig struct {
	// GraphQL endpoint; empty means discover, then DefaultEndpoint
	Endpoint string `toml:"endpoint"`
	// "http" or "ws"
	Transport string `toml:"transport"`
	// Browse the LAN for a canvas service when no endpoint is set
	Discover        bool   `toml:"discover"`
	DiscoverTimeout string `toml:"discover_timeout"`
	// Use in-memory mock data when the service is unreachable
	Fallback bool `toml:"fallback"`
}

type CanvasConfig struct {
	Width          int     `toml:"width"`
	Height         int     `toml:"height"`
	MinShapeExtent float64 `toml:"min_shape_extent"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Service: ServiceConfig{
			Transport:       TransportHTTP,
			Discover:        true,
			DiscoverTimeout: "2s",
			Fallback:        true,
		},
		Canvas: CanvasConfig{
			Width:  800,
			Height: 600,
		},
	}
}

// Load reads the file at path, or FileName when path is empty. A missing
// file yields the defaults. The environment override is applied last.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = FileName
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// defaults
	case err != nil:
		return cfg, fmt.Errorf("failed to read %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if v := strings.TrimSpace(os.Getenv(EnvEndpoint)); v != "" {
		cfg.Service.Endpoint = v
	}
	return cfg, cfg.Validate()
}

// Validate checks values a file may have set wrongly.
func (c Config) Validate() error {
	switch c.Service.Transport {
	case TransportHTTP, TransportWS:
	default:
		return fmt.Errorf("service.transport must be %q or %q, got %q", TransportHTTP, TransportWS, c.Service.Transport)
	}
	if _, err := c.Service.Timeout(); err != nil {
		return err
	}
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("canvas size must be positive, got %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Canvas.MinShapeExtent < 0 {
		return fmt.Errorf("canvas.min_shape_extent must not be negative")
	}
	return nil
}

// Timeout parses DiscoverTimeout. Empty means no discovery wait.
func (s ServiceConfig) Timeout() (time.Duration, error) {
	if s.DiscoverTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.DiscoverTimeout)
	if err != nil {
		return 0, fmt.Errorf("service.discover_timeout: %w", err)
	}
	return d, nil
}

// Save writes the configuration to path.
func Save(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
