package observability

import (
	"context"
	"errors"
	"fmt"
	"syscall"

	"go.uber.org/zap"
)

// FlushTelemetry flushes telemetry buffers before process exit.
// For pull-based Prometheus, metrics are already exposed; this mainly flushes logs.
// Call during graceful shutdown after in-flight requests have drained.
func FlushTelemetry(ctx context.Context, logger *zap.Logger) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("flush telemetry: %w", err)
	}
	if logger == nil {
		return nil
	}
	if err := logger.Sync(); err != nil && !unsyncable(err) {
		return fmt.Errorf("flush logs: %w", err)
	}
	return nil
}

// unsyncable reports errors from fsync on terminals and pipes (stderr in containers).
func unsyncable(err error) bool {
	return errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY)
}
