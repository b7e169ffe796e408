package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/yieldbox-deploy/internal/usecase"
)

// SpinnerSink shows a spinner for long running steps and prints stage
// completions with their duration
type SpinnerSink struct {
	mu      sync.Mutex
	out     io.Writer
	spinner *spinner.Spinner
	stage   string
	started time.Time
	running bool
}

var _ usecase.ProgressSink = (*SpinnerSink)(nil)

// NewSpinnerSink creates a spinner sink writing to stderr
func NewSpinnerSink() *SpinnerSink {
	return newSpinnerSink(os.Stderr)
}

func newSpinnerSink(out io.Writer) *SpinnerSink {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false
	return &SpinnerSink{out: out, spinner: s}
}

// OnProgress handles progress events
func (r *SpinnerSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.Stage != r.stage {
		r.completeStage()
		r.stage = event.Stage
		r.started = time.Now()
	}

	if !event.Spinner {
		r.running = false
		r.spinner.Stop()
		if event.Message != "" {
			fmt.Fprintln(r.out, color.New(color.FgGreen).Sprint("✓ ")+event.Message)
		}
		return
	}

	suffix := " " + event.Message
	if event.Total > 1 {
		suffix = fmt.Sprintf(" [%d/%d] %s", event.Current, event.Total, event.Message)
	}
	r.spinner.Suffix = suffix
	r.running = true
	if !r.spinner.Active() {
		r.spinner.Start()
	}
}

// Info prints an info message
func (r *SpinnerSink) Info(message string) {
	r.print(color.New(color.FgCyan), message)
}

// Error prints an error message
func (r *SpinnerSink) Error(message string) {
	r.print(color.New(color.FgRed), message)
}

// Stop halts the spinner if it is running
func (r *SpinnerSink) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = false
	r.spinner.Stop()
}

func (r *SpinnerSink) print(c *color.Color, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}

	fmt.Fprintln(r.out, c.Sprint(message))

	if wasActive {
		r.spinner.Start()
	}
}

// completeStage prints the duration of a stage that ran with the spinner
func (r *SpinnerSink) completeStage() {
	if r.stage == "" || !r.running {
		return
	}
	r.running = false
	r.spinner.Stop()
	elapsed := time.Since(r.started).Round(time.Millisecond)
	fmt.Fprintf(r.out, "%s%s %s\n",
		color.New(color.FgGreen).Sprint("✓"),
		r.spinner.Suffix,
		color.New(color.Faint).Sprintf("(%s)", elapsed))
}
