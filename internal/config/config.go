// Package config holds the tunable constants of the selection pipeline and
// the board checks, loaded from defaults, an optional YAML file, a .env file
// and ARBOARD_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid config")

// Defaults
const (
	DefaultRaycastDistance    = 5.0
	DefaultScaleFactor        = 0.1
	DefaultMinEdgeLength      = 1e-3
	DefaultBoardProbeDistance = 0.1
	DefaultTiltThreshold      = 0.8
	DefaultPollInterval       = time.Second
)

// Environment variable names
const (
	EnvRaycastDistance    = "ARBOARD_RAYCAST_DISTANCE"
	EnvScaleFactor        = "ARBOARD_SCALE_FACTOR"
	EnvMinEdgeLength      = "ARBOARD_MIN_EDGE_LENGTH"
	EnvBoardProbeDistance = "ARBOARD_BOARD_PROBE_DISTANCE"
	EnvTiltThreshold      = "ARBOARD_TILT_THRESHOLD"
	EnvPollInterval       = "ARBOARD_POLL_INTERVAL"
)

// Config holds all tunables
type Config struct {
	RaycastDistance    float64       // Max distance of the surface-picking ray
	ScaleFactor        float64       // World units to board local scale (board prefab is 10x10)
	MinEdgeLength      float64       // Shorter rectangle edges are rejected as degenerate
	BoardProbeDistance float64       // Half length of the image-on-board probe ray
	TiltThreshold      float64       // Minimum dot(image up, board up)
	PollInterval       time.Duration // Tracked image polling period
}

// fileConfig mirrors Config for YAML decoding. Nil fields keep their
// current value so partial files are safe.
type fileConfig struct {
	RaycastDistance    *float64 `yaml:"raycast_distance"`
	ScaleFactor        *float64 `yaml:"scale_factor"`
	MinEdgeLength      *float64 `yaml:"min_edge_length"`
	BoardProbeDistance *float64 `yaml:"board_probe_distance"`
	TiltThreshold      *float64 `yaml:"tilt_threshold"`
	PollInterval       *string  `yaml:"poll_interval"` // duration string like "500ms"
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		RaycastDistance:    DefaultRaycastDistance,
		ScaleFactor:        DefaultScaleFactor,
		MinEdgeLength:      DefaultMinEdgeLength,
		BoardProbeDistance: DefaultBoardProbeDistance,
		TiltThreshold:      DefaultTiltThreshold,
		PollInterval:       DefaultPollInterval,
	}
}

// Load reads a YAML file on top of the defaults
func Load(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.MergeFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MergeFile overlays the values present in a YAML file
func (c *Config) MergeFile(path string) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	setFloat(&c.RaycastDistance, fc.RaycastDistance)
	setFloat(&c.ScaleFactor, fc.ScaleFactor)
	setFloat(&c.MinEdgeLength, fc.MinEdgeLength)
	setFloat(&c.BoardProbeDistance, fc.BoardProbeDistance)
	setFloat(&c.TiltThreshold, fc.TiltThreshold)
	if fc.PollInterval != nil {
		d, err := time.ParseDuration(*fc.PollInterval)
		if err != nil {
			return fmt.Errorf("%w: poll_interval %q: %v", ErrInvalid, *fc.PollInterval, err)
		}
		c.PollInterval = d
	}
	return nil
}

// ApplyEnv loads a .env file from the working directory (if any) and then
// applies ARBOARD_* variables
func (c *Config) ApplyEnv() error {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return fmt.Errorf("failed to load .env: %w", err)
		}
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{EnvRaycastDistance, &c.RaycastDistance},
		{EnvScaleFactor, &c.ScaleFactor},
		{EnvMinEdgeLength, &c.MinEdgeLength},
		{EnvBoardProbeDistance, &c.BoardProbeDistance},
		{EnvTiltThreshold, &c.TiltThreshold},
	}
	for _, f := range floats {
		raw := os.Getenv(f.key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalid, f.key, raw)
		}
		*f.dst = v
	}

	if raw := os.Getenv(EnvPollInterval); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalid, EnvPollInterval, raw)
		}
		c.PollInterval = d
	}
	return nil
}

// Validate checks ranges
func (c *Config) Validate() error {
	switch {
	case c.RaycastDistance <= 0:
		return fmt.Errorf("%w: raycast distance must be positive, got %v", ErrInvalid, c.RaycastDistance)
	case c.ScaleFactor <= 0:
		return fmt.Errorf("%w: scale factor must be positive, got %v", ErrInvalid, c.ScaleFactor)
	case c.MinEdgeLength < 0:
		return fmt.Errorf("%w: min edge length must not be negative, got %v", ErrInvalid, c.MinEdgeLength)
	case c.BoardProbeDistance <= 0:
		return fmt.Errorf("%w: board probe distance must be positive, got %v", ErrInvalid, c.BoardProbeDistance)
	case c.TiltThreshold < -1 || c.TiltThreshold > 1:
		return fmt.Errorf("%w: tilt threshold must be within [-1, 1], got %v", ErrInvalid, c.TiltThreshold)
	case c.PollInterval <= 0:
		return fmt.Errorf("%w: poll interval must be positive, got %v", ErrInvalid, c.PollInterval)
	}
	return nil
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
