package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/imgbatch/internal/config"
	"github.com/MeKo-Tech/imgbatch/internal/version"
)

// app carries the state shared by one command tree.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
}

// NewRootCommand builds a fresh imgbatch command tree with its own viper
// instance, so it can be executed repeatedly in one process.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "imgbatch",
		Short: "Concurrent batch image downscaler and grayscale converter",
		Long: `imgbatch converts every matching image of an input directory into a
downscaled grayscale copy in an output directory. Each image is handled by its
own goroutine; a broken image is reported and skipped without affecting the rest.

Examples:
  imgbatch run
  imgbatch run --input photos --output thumbs --scale 0.25
  imgbatch run --filter lanczos --max-tasks 8 --metrics-file imgbatch.prom
  imgbatch config show`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, _ := cmd.Flags().GetBool("version")
			if v {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), version.String())
				return nil
			}
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "",
		"config file (default is search in ., $HOME, $XDG_CONFIG_HOME/imgbatch, /etc/imgbatch)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.Flags().Bool("version", false, "print version information and exit")

	_ = a.v.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = a.v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(newRunCommand(a))
	rootCmd.AddCommand(newConfigCommand(a))

	return rootCmd
}

// Execute runs the command tree. This is called by main.main().
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// GetRootCommand returns a fresh root command for tests, which can execute it
// without calling os.Exit().
func GetRootCommand() *cobra.Command {
	return NewRootCommand()
}

// initConfig loads the configuration (file, env, flags) without validating it,
// and installs the JSON logger on stderr. Commands validate what they use.
func (a *app) initConfig(logOut io.Writer) error {
	cfg, err := config.NewLoaderWithViper(a.v).LoadWithFileWithoutValidation(a.cfgFile)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	a.cfg = cfg

	// Verbose wins over log_level
	var logLevel slog.Level
	if cfg.Verbose {
		logLevel = slog.LevelDebug
	} else {
		switch cfg.LogLevel {
		case "debug":
			logLevel = slog.LevelDebug
		case "warn":
			logLevel = slog.LevelWarn
		case "error":
			logLevel = slog.LevelError
		default:
			logLevel = slog.LevelInfo
		}
	}

	a.logger = slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(a.logger)
	return nil
}
