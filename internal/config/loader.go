package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = "imgbatch"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "IMGBATCH"
)

// Loader handles loading configuration from various sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader on the global viper instance, which is where
// the CLI binds its flags.
func NewLoader() *Loader {
	return &Loader{v: viper.GetViper()}
}

// NewLoaderWithViper creates a loader on a caller-owned viper instance.
func NewLoaderWithViper(v *viper.Viper) *Loader {
	return &Loader{v: v}
}

// Load loads configuration from the search paths, environment variables and
// defaults, then validates it.
func (l *Loader) Load() (*Config, error) {
	return l.LoadWithFile("")
}

// LoadWithFile loads configuration from a specific file path. An empty path
// searches the standard locations and tolerates a missing file.
func (l *Loader) LoadWithFile(configFile string) (*Config, error) {
	cfg, err := l.LoadWithFileWithoutValidation(configFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadWithFileWithoutValidation is LoadWithFile minus Validate, used by
// `config show` to display broken configurations.
func (l *Loader) LoadWithFileWithoutValidation(configFile string) (*Config, error) {
	l.setupEnvironmentVariables()
	l.setDefaults()

	if configFile != "" {
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", configFile)
		}
		l.v.SetConfigFile(configFile)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	} else {
		l.v.SetConfigName(ConfigFileName)
		l.v.SetConfigType("yaml")
		l.addConfigPaths()

		if err := l.v.ReadInConfig(); err != nil {
			// A missing config file is fine, defaults and env vars still apply.
			var configFileNotFoundError viper.ConfigFileNotFoundError
			if !errors.As(err, &configFileNotFoundError) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var config Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// Set sets a value in the configuration.
func (l *Loader) Set(key string, value any) {
	l.v.Set(key, value)
}

// GetConfigFileUsed returns the path of the config file used.
func (l *Loader) GetConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// GetViper returns the underlying viper instance.
func (l *Loader) GetViper() *viper.Viper {
	return l.v
}

// addConfigPaths adds the standard configuration search paths.
func (l *Loader) addConfigPaths() {
	for _, p := range GetConfigSearchPaths() {
		l.v.AddConfigPath(p)
	}
}

// setupEnvironmentVariables configures environment variable handling.
func (l *Loader) setupEnvironmentVariables() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.AutomaticEnv()

	// transform.scale_factor -> IMGBATCH_TRANSFORM_SCALE_FACTOR
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

// setDefaults sets default values for all configuration options.
func (l *Loader) setDefaults() {
	defaults := DefaultConfig()

	// Global settings
	l.v.SetDefault("log_level", defaults.LogLevel)
	l.v.SetDefault("verbose", defaults.Verbose)

	// Directories and discovery
	l.v.SetDefault("input_dir", defaults.InputDir)
	l.v.SetDefault("output_dir", defaults.OutputDir)
	l.v.SetDefault("pattern", defaults.Pattern)
	l.v.SetDefault("case_insensitive", defaults.CaseInsensitive)

	// Transform defaults
	l.v.SetDefault("transform.scale_factor", defaults.Transform.ScaleFactor)
	l.v.SetDefault("transform.filter", defaults.Transform.Filter)

	// Output defaults
	l.v.SetDefault("output.jpeg_quality", defaults.Output.JPEGQuality)
	l.v.SetDefault("output.auto_orient", defaults.Output.AutoOrient)

	l.v.SetDefault("concurrency.max_tasks", defaults.Concurrency.MaxTasks)
	l.v.SetDefault("metrics.textfile", defaults.Metrics.Textfile)
}

// WriteConfigToFile writes the current configuration to a file.
func (l *Loader) WriteConfigToFile(filename string) error {
	return l.v.WriteConfigAs(filename)
}

// GenerateDefaultConfigFile writes the default configuration to filename
// (imgbatch.yaml when empty). Existing files are not overwritten.
func GenerateDefaultConfigFile(filename string) error {
	loader := NewLoaderWithViper(viper.New())
	loader.setDefaults()

	if filename == "" {
		filename = ConfigFileName + ".yaml"
	}

	return loader.v.SafeWriteConfigAs(filename)
}

// GetConfigSearchPaths returns the paths where configuration files are searched.
func GetConfigSearchPaths() []string {
	paths := []string{"."}

	home, homeErr := os.UserHomeDir()
	if homeErr == nil {
		paths = append(paths, home)
	}

	if configDir, exists := os.LookupEnv("XDG_CONFIG_HOME"); exists {
		paths = append(paths, filepath.Join(configDir, "imgbatch"))
	} else if homeErr == nil {
		paths = append(paths, filepath.Join(home, ".config", "imgbatch"))
	}

	return append(paths, "/etc/imgbatch")
}
