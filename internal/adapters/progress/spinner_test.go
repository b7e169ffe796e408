package progress

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/trebuchet-org/yieldbox-deploy/internal/usecase"
)

func TestSpinnerSink(t *testing.T) {
	color.NoColor = true
	ctx := context.Background()

	var buf bytes.Buffer
	sink := newSpinnerSink(&buf)

	sink.OnProgress(ctx, usecase.ProgressEvent{Stage: "execute", Current: 1, Total: 2, Message: "Deploying YieldBoxURIBuilder", Spinner: true})
	assert.Equal(t, " [1/2] Deploying YieldBoxURIBuilder", sink.spinner.Suffix)

	sink.OnProgress(ctx, usecase.ProgressEvent{Stage: "execute", Current: 2, Total: 2, Message: "Deploying YieldBox", Spinner: true})
	assert.Equal(t, " [2/2] Deploying YieldBox", sink.spinner.Suffix)

	sink.Info("Verified YieldBox")
	sink.Error("Verification of YieldBoxURIBuilder failed")

	sink.OnProgress(ctx, usecase.ProgressEvent{Stage: "complete", Message: "YieldBox deployed"})
	assert.False(t, sink.spinner.Active())

	out := buf.String()
	assert.Contains(t, out, "Verified YieldBox")
	assert.Contains(t, out, "Verification of YieldBoxURIBuilder failed")
	assert.Contains(t, out, "✓ YieldBox deployed")
	assert.Contains(t, out, "Deploying YieldBox (")
}

func TestNopSink(t *testing.T) {
	sink := NewNopSink()
	sink.OnProgress(context.Background(), usecase.ProgressEvent{Message: "ignored"})
	sink.Info("ignored")
	sink.Error("ignored")
}
