// Package task runs the decode, scale, grayscale and encode steps for one image
// and turns every failure into a tagged Result.
package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/sourcegraph/conc/panics"

	"github.com/MeKo-Tech/imgbatch/internal/codec"
	"github.com/MeKo-Tech/imgbatch/internal/common"
	"github.com/MeKo-Tech/imgbatch/internal/metrics"
	"github.com/MeKo-Tech/imgbatch/internal/raster"
	"github.com/MeKo-Tech/imgbatch/internal/transform"
)

// Kind classifies the outcome of one image task.
type Kind int

const (
	KindNone Kind = iota
	KindDecode
	KindInvalidDimension
	KindEncode
	KindCanceled
	KindPanic
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "ok"
	case KindDecode:
		return "decode"
	case KindInvalidDimension:
		return "invalid_dimension"
	case KindEncode:
		return "encode"
	case KindCanceled:
		return "canceled"
	case KindPanic:
		return "panic"
	case KindOther:
		return "other"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Result is the outcome of processing a single input file.
type Result struct {
	InputPath  string
	OutputPath string
	Kind       Kind
	Err        error
	Duration   time.Duration
}

// OK reports whether the output file was written.
func (r Result) OK() bool {
	return r.Kind == KindNone
}

// Message returns the error text, or an empty string on success.
func (r Result) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Classify maps an error returned by the processing steps to a Kind.
// Recovered panics are tagged by Process itself.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	case codec.IsDecode(err):
		return KindDecode
	case codec.IsEncode(err):
		return KindEncode
	case errors.Is(err, raster.ErrInvalidDimension):
		return KindInvalidDimension
	default:
		return KindOther
	}
}

// OutputPath returns the file an input is written to: same base name, in outputDir.
func OutputPath(inputPath, outputDir string) string {
	return filepath.Join(outputDir, filepath.Base(inputPath))
}

// Processor holds the per-image pipeline settings. It is safe for concurrent
// use as long as its Codec is.
type Processor struct {
	codec   codec.Codec
	factor  float64
	filter  transform.Filter
	logger  *slog.Logger
	metrics *metrics.Recorder
}

// Option configures a Processor.
type Option func(*Processor)

// WithScaleFactor sets the downscale factor.
func WithScaleFactor(f float64) Option {
	return func(p *Processor) { p.factor = f }
}

// WithFilter selects the resampling filter.
func WithFilter(f transform.Filter) Option {
	return func(p *Processor) { p.filter = f }
}

// WithLogger sets the logger used for per-task debug output.
func WithLogger(l *slog.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithMetrics records task outcomes on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(p *Processor) { p.metrics = r }
}

// NewProcessor creates a Processor around c.
func NewProcessor(c codec.Codec, opts ...Option) *Processor {
	p := &Processor{
		codec:  c,
		factor: transform.DefaultScaleFactor,
		filter: transform.FilterNearest,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process converts inputPath and writes the result into outputDir. It never
// panics and never returns an error directly; the outcome is in the Result.
// A context that is already done yields KindCanceled without touching the file.
func (p *Processor) Process(ctx context.Context, inputPath, outputDir string) Result {
	timer := common.NewTimer()
	res := Result{
		InputPath:  inputPath,
		OutputPath: OutputPath(inputPath, outputDir),
	}

	p.metrics.TaskStarted()

	var err error
	if cerr := ctx.Err(); cerr != nil {
		err = fmt.Errorf("skipped %s: %w", inputPath, cerr)
		res.Kind = KindCanceled
	} else {
		var pc panics.Catcher
		pc.Try(func() {
			err = p.run(inputPath, res.OutputPath)
		})
		if r := pc.Recovered(); r != nil {
			p.logger.Error("Recovered panic in image task", "input", inputPath, "stack", string(r.Stack))
			err = fmt.Errorf("panic: %v", r.Value)
			res.Kind = KindPanic
		} else {
			res.Kind = Classify(err)
		}
	}

	res.Err = err
	res.Duration = timer.Stop()
	p.metrics.TaskFinished(res.Kind.String(), res.Duration)

	if res.OK() {
		p.logger.Debug("Image processed", "input", inputPath, "output", res.OutputPath,
			"duration_ms", res.Duration.Milliseconds())
	} else {
		p.logger.Debug("Image failed", "input", inputPath, "kind", res.Kind.String(), "error", err)
	}
	return res
}

func (p *Processor) run(inputPath, outputPath string) error {
	buf, err := p.codec.Decode(inputPath)
	if err != nil {
		return err
	}

	scaled, err := transform.Scale(buf, p.factor, p.filter)
	buf.Release()
	if err != nil {
		return fmt.Errorf("scale %s: %w", inputPath, err)
	}

	gray := transform.ConvertToGrayscale(scaled)
	scaled.Release()
	defer gray.Release()
	return p.codec.Encode(gray, outputPath)
}
