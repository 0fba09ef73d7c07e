package batch

import (
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/MeKo-Tech/imgbatch/internal/task"
)

// Reporter receives task results as they happen and the final batch timing.
// Implementations must be safe for concurrent use.
type Reporter interface {
	Report(res task.Result)
	Done(elapsed time.Duration)
}

// ConsoleReporter writes one line per event to w.
type ConsoleReporter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsoleReporter creates a reporter writing to w.
func NewConsoleReporter(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{w: w}
}

// Report prints the success or failure line for one image.
func (r *ConsoleReporter) Report(res task.Result) {
	if res.OK() {
		r.println("Image processed and saved: " + res.OutputPath)
		return
	}
	r.println(fmt.Sprintf("Error processing image %s: %s", res.InputPath, res.Message()))
}

// Done prints the total elapsed time in seconds.
func (r *ConsoleReporter) Done(elapsed time.Duration) {
	r.println("All images processed in " + FormatSeconds(elapsed) + " seconds.")
}

func (r *ConsoleReporter) println(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = io.WriteString(r.w, line+"\n")
}

// FormatSeconds renders d as decimal seconds without trailing zeros.
func FormatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}

// discardReporter drops everything.
type discardReporter struct{}

func (discardReporter) Report(task.Result)  {}
func (discardReporter) Done(time.Duration) {}
