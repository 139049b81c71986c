package observability

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestFlushTelemetry_NilLogger(t *testing.T) {
	if err := FlushTelemetry(context.Background(), nil); err != nil {
		t.Errorf("FlushTelemetry(nil) error = %v, want nil", err)
	}
}

func TestFlushTelemetry_NopLogger(t *testing.T) {
	if err := FlushTelemetry(context.Background(), zap.NewNop()); err != nil {
		t.Errorf("FlushTelemetry(nop) error = %v, want nil", err)
	}
}

// TestFlushTelemetry_CancelledContext verifies flushing is skipped once the shutdown budget is spent.
func TestFlushTelemetry_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := FlushTelemetry(ctx, zap.NewNop()); !errors.Is(err, context.Canceled) {
		t.Errorf("FlushTelemetry(cancelled) error = %v, want context.Canceled", err)
	}
}
