package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/imgbatch/internal/batch"
	"github.com/MeKo-Tech/imgbatch/internal/codec"
	"github.com/MeKo-Tech/imgbatch/internal/metrics"
	"github.com/MeKo-Tech/imgbatch/internal/transform"
)

// runFlags maps run flags to configuration keys.
var runFlags = map[string]string{
	"input":        "input_dir",
	"output":       "output_dir",
	"pattern":      "pattern",
	"ignore-case":  "case_insensitive",
	"scale":        "transform.scale_factor",
	"filter":       "transform.filter",
	"quality":      "output.jpeg_quality",
	"auto-orient":  "output.auto_orient",
	"max-tasks":    "concurrency.max_tasks",
	"metrics-file": "metrics.textfile",
}

func newRunCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Downscale and grayscale every matching image of the input directory",
		Long: `Process all images matching the pattern in the input directory. Each image
is scaled by the scale factor, converted to grayscale and written under the same
file name into the output directory, which is created if needed.

One line is printed per image as soon as it finishes, followed by the total
elapsed time. Images that fail are reported and do not affect the exit status.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBatch(cmd)
		},
	}

	f := cmd.Flags()
	f.StringP("input", "i", batch.DefaultInputDir, "input directory")
	f.StringP("output", "o", batch.DefaultOutputDir, "output directory (created if missing)")
	f.String("pattern", batch.DefaultPattern, "file name glob selecting input images")
	f.Bool("ignore-case", false, "match the pattern case-insensitively")
	f.Float64("scale", transform.DefaultScaleFactor, "scale factor applied to both dimensions")
	f.String("filter", string(transform.FilterNearest), "resampling filter (nearest, bilinear, box, lanczos)")
	f.Int("quality", codec.DefaultJPEGQuality, "JPEG encoder quality (1-100)")
	f.Bool("auto-orient", false, "apply the EXIF orientation tag when decoding")
	f.Int("max-tasks", 0, "maximum images processed at once (0 = one goroutine per image)")
	f.String("metrics-file", "", "write Prometheus metrics to this textfile after the run")

	for flag, key := range runFlags {
		_ = a.v.BindPFlag(key, f.Lookup(flag))
	}

	return cmd
}

func (a *app) runBatch(cmd *cobra.Command) error {
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	bc, err := a.cfg.ToBatchConfig()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	rec := metrics.New(reg)

	o, err := batch.New(bc,
		batch.WithReporter(batch.NewConsoleReporter(cmd.OutOrStdout())),
		batch.WithLogger(a.logger),
		batch.WithMetrics(rec),
	)
	if err != nil {
		return err
	}

	// Cancellation only stops tasks that have not started yet.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := o.Run(ctx); err != nil {
		return err
	}

	if path := a.cfg.Metrics.Textfile; path != "" {
		if err := metrics.WriteTextfile(path, reg); err != nil {
			a.logger.Warn("Could not export metrics", "path", path, "error", err)
		}
	}
	return nil
}
