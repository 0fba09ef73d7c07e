// Package batch converts every matching image of an input directory, one
// concurrent task per file, and reports the elapsed time once all are done.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/pool"

	"github.com/MeKo-Tech/imgbatch/internal/codec"
	"github.com/MeKo-Tech/imgbatch/internal/common"
	"github.com/MeKo-Tech/imgbatch/internal/metrics"
	"github.com/MeKo-Tech/imgbatch/internal/task"
)

// Summary describes a finished batch. Per-image outcomes are only reported
// through the Reporter and metrics.
type Summary struct {
	RunID    string
	Files    int
	Duration time.Duration
}

// Orchestrator runs batches for one configuration.
type Orchestrator struct {
	cfg       Config
	codec     codec.Codec
	reporter  Reporter
	logger    *slog.Logger
	metrics   *metrics.Recorder
	processor *task.Processor
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithReporter sets where per-image and final lines go.
func WithReporter(r Reporter) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.reporter = r
		}
	}
}

// WithCodec replaces the file codec built from the config.
func WithCodec(c codec.Codec) Option {
	return func(o *Orchestrator) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records task and batch metrics on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(o *Orchestrator) { o.metrics = r }
}

// New validates cfg and builds an Orchestrator.
func New(cfg Config, opts ...Option) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid batch configuration: %w", err)
	}

	o := &Orchestrator{
		cfg:      cfg,
		reporter: discardReporter{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.codec == nil {
		o.codec = codec.New(
			codec.WithJPEGQuality(cfg.JPEGQuality),
			codec.WithAutoOrientation(cfg.AutoOrient),
		)
	}
	o.processor = task.NewProcessor(o.codec,
		task.WithScaleFactor(cfg.ScaleFactor),
		task.WithFilter(cfg.Filter),
		task.WithLogger(o.logger),
		task.WithMetrics(o.metrics),
	)
	return o, nil
}

// Run creates the output directory, lists the inputs and processes each in
// its own goroutine. It returns only after every task has finished. Failing
// images do not fail the run; only directory setup and listing errors do.
func (o *Orchestrator) Run(ctx context.Context) (*Summary, error) {
	timer := common.NewNamedTimer("batch")
	runID := uuid.NewString()
	logger := o.logger.With("run_id", runID)

	if err := os.MkdirAll(o.cfg.OutputDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	files, err := discoverImageFiles(o.cfg.InputDir, o.cfg.Pattern, o.cfg.CaseInsensitive)
	if err != nil {
		return nil, fmt.Errorf("failed to discover image files: %w", err)
	}

	logger.Info("Starting batch",
		"input_dir", o.cfg.InputDir,
		"output_dir", o.cfg.OutputDir,
		"files", len(files),
		"max_concurrent", o.cfg.MaxConcurrent)
	o.metrics.BatchStarted(len(files))

	o.spawn(ctx, files)

	elapsed := timer.Stop()
	o.reporter.Done(elapsed)
	o.metrics.BatchFinished(elapsed)
	logger.Info("Batch completed", "files", len(files), "duration_ms", elapsed.Milliseconds())

	return &Summary{RunID: runID, Files: len(files), Duration: elapsed}, nil
}

// spawn starts one task per file and waits for all of them.
func (o *Orchestrator) spawn(ctx context.Context, files []string) {
	work := func(path string) func() {
		return func() {
			o.reporter.Report(o.processor.Process(ctx, path, o.cfg.OutputDir))
		}
	}

	if o.cfg.MaxConcurrent > 0 {
		p := pool.New().WithMaxGoroutines(o.cfg.MaxConcurrent)
		for _, path := range files {
			p.Go(work(path))
		}
		p.Wait()
		return
	}

	var wg conc.WaitGroup
	for _, path := range files {
		wg.Go(work(path))
	}
	wg.Wait()
}

// RunBatch processes inputDir into outputDir with default settings, printing
// results to stdout.
func RunBatch(ctx context.Context, inputDir, outputDir string) (*Summary, error) {
	cfg := DefaultConfig()
	cfg.InputDir = inputDir
	cfg.OutputDir = outputDir

	o, err := New(cfg, WithReporter(NewConsoleReporter(os.Stdout)))
	if err != nil {
		return nil, err
	}
	return o.Run(ctx)
}
