// Package metrics instruments image tasks and batches with Prometheus.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder owns the batch collectors. A nil *Recorder is valid and records nothing.
type Recorder struct {
	imagesTotal   *prometheus.CounterVec
	imageDuration *prometheus.HistogramVec
	inFlight      prometheus.Gauge
	batchImages   prometheus.Gauge
	batchDuration prometheus.Histogram
	batchesTotal  prometheus.Counter
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		imagesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "imgbatch_images_total",
				Help: "Total number of images handled, by outcome",
			},
			[]string{"status"}, // status: ok, decode, invalid_dimension, encode, canceled, panic
		),
		imageDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "imgbatch_image_duration_seconds",
				Help:    "Time spent decoding, transforming and encoding one image",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"status"},
		),
		inFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "imgbatch_tasks_in_flight",
				Help: "Number of image tasks currently running",
			},
		),
		batchImages: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "imgbatch_batch_images",
				Help: "Number of input images discovered by the last batch",
			},
		),
		batchDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "imgbatch_batch_duration_seconds",
				Help:    "Wall-clock duration of a whole batch",
				Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 25, 50, 100},
			},
		),
		batchesTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "imgbatch_batches_total",
				Help: "Total number of completed batches",
			},
		),
	}
}

// TaskStarted marks one task as running.
func (r *Recorder) TaskStarted() {
	if r == nil {
		return
	}
	r.inFlight.Inc()
}

// TaskFinished records a task outcome and its duration.
func (r *Recorder) TaskFinished(status string, d time.Duration) {
	if r == nil {
		return
	}
	r.inFlight.Dec()
	r.imagesTotal.WithLabelValues(status).Inc()
	r.imageDuration.WithLabelValues(status).Observe(d.Seconds())
}

// BatchStarted records how many inputs a batch discovered.
func (r *Recorder) BatchStarted(images int) {
	if r == nil {
		return
	}
	r.batchImages.Set(float64(images))
}

// BatchFinished records a completed batch.
func (r *Recorder) BatchFinished(d time.Duration) {
	if r == nil {
		return
	}
	r.batchesTotal.Inc()
	r.batchDuration.Observe(d.Seconds())
}

// WriteTextfile writes everything gathered by g to path in the Prometheus
// text exposition format, for pickup by node_exporter's textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
