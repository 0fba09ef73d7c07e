package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Tasks(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.TaskStarted()
	r.TaskStarted()
	assert.InDelta(t, 2, testutil.ToFloat64(r.inFlight), 0)

	r.TaskFinished("ok", 10*time.Millisecond)
	r.TaskFinished("decode", time.Millisecond)

	assert.InDelta(t, 0, testutil.ToFloat64(r.inFlight), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.imagesTotal.WithLabelValues("ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.imagesTotal.WithLabelValues("decode")), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(r.imageDuration))
}

func TestRecorder_Batch(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.BatchStarted(7)
	r.BatchFinished(time.Second)

	assert.InDelta(t, 7, testutil.ToFloat64(r.batchImages), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.batchesTotal), 0)
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.TaskStarted()
		r.TaskFinished("ok", time.Millisecond)
		r.BatchStarted(1)
		r.BatchFinished(time.Millisecond)
	})
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)
	r.BatchStarted(3)

	path := filepath.Join(t.TempDir(), "imgbatch.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "imgbatch_batch_images 3")
}

func TestWriteTextfile_BadPath(t *testing.T) {
	reg := prometheus.NewRegistry()
	err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"), reg)
	require.Error(t, err)
}
