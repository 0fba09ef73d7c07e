package config

// Config represents the complete configuration for imgbatch. It is loaded from
// configuration files, environment variables and command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Directories and discovery
	InputDir        string `mapstructure:"input_dir" yaml:"input_dir" json:"input_dir"`
	OutputDir       string `mapstructure:"output_dir" yaml:"output_dir" json:"output_dir"`
	Pattern         string `mapstructure:"pattern" yaml:"pattern" json:"pattern"`
	CaseInsensitive bool   `mapstructure:"case_insensitive" yaml:"case_insensitive" json:"case_insensitive"`

	Transform   TransformConfig   `mapstructure:"transform" yaml:"transform" json:"transform"`
	Output      OutputConfig      `mapstructure:"output" yaml:"output" json:"output"`
	Concurrency ConcurrencyConfig `mapstructure:"concurrency" yaml:"concurrency" json:"concurrency"`
	Metrics     MetricsConfig     `mapstructure:"metrics" yaml:"metrics" json:"metrics"`
}

// TransformConfig contains the pixel transform settings.
type TransformConfig struct {
	ScaleFactor float64 `mapstructure:"scale_factor" yaml:"scale_factor" json:"scale_factor"`
	Filter      string  `mapstructure:"filter" yaml:"filter" json:"filter"`
}

// OutputConfig contains encoder settings.
type OutputConfig struct {
	JPEGQuality int  `mapstructure:"jpeg_quality" yaml:"jpeg_quality" json:"jpeg_quality"`
	AutoOrient  bool `mapstructure:"auto_orient" yaml:"auto_orient" json:"auto_orient"`
}

// ConcurrencyConfig bounds task parallelism. MaxTasks 0 means one goroutine per image.
type ConcurrencyConfig struct {
	MaxTasks int `mapstructure:"max_tasks" yaml:"max_tasks" json:"max_tasks"`
}

// MetricsConfig controls the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile" yaml:"textfile" json:"textfile"`
}
