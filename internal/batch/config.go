package batch

import (
	"errors"
	"fmt"
	"math"

	"github.com/MeKo-Tech/imgbatch/internal/codec"
	"github.com/MeKo-Tech/imgbatch/internal/transform"
)

// Default directories and pattern.
const (
	DefaultInputDir  = "images"
	DefaultOutputDir = "processed_images"
	DefaultPattern   = "*.jpg"
)

// Config holds all configuration for one batch run.
type Config struct {
	// Directories
	InputDir  string
	OutputDir string

	// File discovery settings
	Pattern         string
	CaseInsensitive bool

	// Transform settings
	ScaleFactor float64
	Filter      transform.Filter

	// Output settings
	JPEGQuality int
	AutoOrient  bool

	// MaxConcurrent bounds the number of tasks running at once. Zero means
	// one goroutine per input.
	MaxConcurrent int
}

// DefaultConfig returns the settings of the classic two-directory batch.
func DefaultConfig() Config {
	return Config{
		InputDir:    DefaultInputDir,
		OutputDir:   DefaultOutputDir,
		Pattern:     DefaultPattern,
		ScaleFactor: transform.DefaultScaleFactor,
		Filter:      transform.FilterNearest,
		JPEGQuality: codec.DefaultJPEGQuality,
	}
}

// Validate checks the configuration for values a run cannot work with.
func (c Config) Validate() error {
	if c.InputDir == "" {
		return errors.New("input directory must not be empty")
	}
	if c.OutputDir == "" {
		return errors.New("output directory must not be empty")
	}
	if c.Pattern == "" {
		return errors.New("file pattern must not be empty")
	}
	if _, err := matchPattern(c.Pattern, "", c.CaseInsensitive); err != nil {
		return fmt.Errorf("invalid file pattern %q: %w", c.Pattern, err)
	}
	if !(c.ScaleFactor > 0) || math.IsInf(c.ScaleFactor, 0) {
		return fmt.Errorf("scale factor must be positive and finite, got %v", c.ScaleFactor)
	}
	if _, err := transform.ParseFilter(string(c.Filter)); err != nil {
		return err
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg quality must be between 1 and 100, got %d", c.JPEGQuality)
	}
	if c.MaxConcurrent < 0 {
		return fmt.Errorf("max concurrent tasks must be >= 0, got %d", c.MaxConcurrent)
	}
	return nil
}
