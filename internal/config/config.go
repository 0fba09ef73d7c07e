package config

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"slices"
	"strings"

	"github.com/MeKo-Tech/imgbatch/internal/batch"
	"github.com/MeKo-Tech/imgbatch/internal/codec"
	"github.com/MeKo-Tech/imgbatch/internal/transform"
)

const infoLevel = "info"

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel:  infoLevel,
		Verbose:   false,
		InputDir:  batch.DefaultInputDir,
		OutputDir: batch.DefaultOutputDir,
		Pattern:   batch.DefaultPattern,
		Transform: TransformConfig{
			ScaleFactor: transform.DefaultScaleFactor,
			Filter:      string(transform.FilterNearest),
		},
		Output: OutputConfig{
			JPEGQuality: codec.DefaultJPEGQuality,
			AutoOrient:  false,
		},
		Concurrency: ConcurrencyConfig{
			MaxTasks: 0,
		},
	}
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	// Validate log level
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	if c.InputDir == "" {
		return errors.New("invalid input_dir: must not be empty")
	}
	if c.OutputDir == "" {
		return errors.New("invalid output_dir: must not be empty")
	}
	if _, err := filepath.Match(c.Pattern, ""); err != nil || c.Pattern == "" {
		return fmt.Errorf("invalid pattern: %q", c.Pattern)
	}

	if !(c.Transform.ScaleFactor > 0) || math.IsInf(c.Transform.ScaleFactor, 0) {
		return fmt.Errorf("invalid transform.scale_factor: %v (must be positive and finite)", c.Transform.ScaleFactor)
	}
	if _, err := transform.ParseFilter(c.Transform.Filter); err != nil {
		return fmt.Errorf("invalid transform.filter: %w", err)
	}

	if c.Output.JPEGQuality < 1 || c.Output.JPEGQuality > 100 {
		return fmt.Errorf("invalid output.jpeg_quality: %d (must be between 1 and 100)", c.Output.JPEGQuality)
	}
	if c.Concurrency.MaxTasks < 0 {
		return fmt.Errorf("invalid concurrency.max_tasks: %d (must be >= 0)", c.Concurrency.MaxTasks)
	}

	return nil
}

// ToBatchConfig converts the config to the batch orchestrator's configuration.
func (c *Config) ToBatchConfig() (batch.Config, error) {
	filter, err := transform.ParseFilter(c.Transform.Filter)
	if err != nil {
		return batch.Config{}, err
	}
	return batch.Config{
		InputDir:        c.InputDir,
		OutputDir:       c.OutputDir,
		Pattern:         c.Pattern,
		CaseInsensitive: c.CaseInsensitive,
		ScaleFactor:     c.Transform.ScaleFactor,
		Filter:          filter,
		JPEGQuality:     c.Output.JPEGQuality,
		AutoOrient:      c.Output.AutoOrient,
		MaxConcurrent:   c.Concurrency.MaxTasks,
	}, nil
}
