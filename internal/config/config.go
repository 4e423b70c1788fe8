// Package config loads optional defaults for the ellipsoid-fit command from a
// TOML file. Command-line flags take precedence over every value here.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/philipparndt/goellipsoid/pkg/ellipsoid"
)

// Defaults used when a key is absent
const (
	DefaultWatchDebounce = 300 * time.Millisecond
	DefaultTargetRadius  = 1.0
	DefaultPrecision     = 6
)

// Config holds the settings a config file may provide. Nil fields fall back
// to the defaults returned by the Get* accessors.
type Config struct {
	Type          *string  `toml:"type"`
	Dedupe        *bool    `toml:"dedupe"`
	Details       *bool    `toml:"details"`
	WatchDebounce *string  `toml:"watch_debounce"` // duration string like "300ms"
	TargetRadius  *float64 `toml:"target_radius"`
	Precision     *int     `toml:"precision"`

	MergeTolerance *float64 `toml:"merge_tolerance"`
}

// Load reads a TOML config file. Unknown keys are rejected so typos do not
// silently fall back to defaults.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configured values are usable
func (c *Config) Validate() error {
	if c.Type != nil {
		if _, err := ellipsoid.ParseType(*c.Type); err != nil {
			return err
		}
	}

	if c.WatchDebounce != nil {
		d, err := time.ParseDuration(*c.WatchDebounce)
		if err != nil {
			return fmt.Errorf("invalid watch_debounce '%s': %w", *c.WatchDebounce, err)
		}
		if d < 0 {
			return fmt.Errorf("watch_debounce must not be negative, got %s", d)
		}
	}

	if c.TargetRadius != nil && *c.TargetRadius <= 0 {
		return fmt.Errorf("target_radius must be positive, got %g", *c.TargetRadius)
	}

	if c.MergeTolerance != nil && *c.MergeTolerance < 0 {
		return fmt.Errorf("merge_tolerance must not be negative, got %g", *c.MergeTolerance)
	}

	if c.Precision != nil && (*c.Precision < 0 || *c.Precision > 17) {
		return fmt.Errorf("precision must be between 0 and 17, got %d", *c.Precision)
	}

	return nil
}

// GetType returns the configured ellipsoid type or Arbitrary
func (c *Config) GetType() ellipsoid.Type {
	if c.Type == nil {
		return ellipsoid.Arbitrary
	}
	t, err := ellipsoid.ParseType(*c.Type)
	if err != nil {
		return ellipsoid.Arbitrary
	}
	return t
}

// GetDedupe reports whether duplicate points are removed before fitting
func (c *Config) GetDedupe() bool {
	if c.Dedupe == nil {
		return false
	}
	return *c.Dedupe
}

// GetDetails reports whether fit output includes coefficients and eigenpairs
func (c *Config) GetDetails() bool {
	if c.Details == nil {
		return false
	}
	return *c.Details
}

// GetWatchDebounce returns the delay between a file change and the refit
func (c *Config) GetWatchDebounce() time.Duration {
	if c.WatchDebounce == nil {
		return DefaultWatchDebounce
	}
	d, err := time.ParseDuration(*c.WatchDebounce)
	if err != nil {
		return DefaultWatchDebounce
	}
	return d
}

// GetTargetRadius returns the sphere radius calibration maps onto
func (c *Config) GetTargetRadius() float64 {
	if c.TargetRadius == nil {
		return DefaultTargetRadius
	}
	return *c.TargetRadius
}

// GetPrecision returns the number of decimals in printed values
func (c *Config) GetPrecision() int {
	if c.Precision == nil {
		return DefaultPrecision
	}
	return *c.Precision
}

// GetMergeTolerance returns the distance below which points are merged, zero
// when merging is off
func (c *Config) GetMergeTolerance() float64 {
	if c.MergeTolerance == nil {
		return 0
	}
	return *c.MergeTolerance
}
