package lifecycle

import (
	"sync/atomic"
	"time"
)

// Phases reported by Phase.
const (
	PhaseStarting     = "starting"
	PhaseServing      = "serving"
	PhaseShuttingDown = "shutting-down"
)

var (
	shuttingDown atomic.Bool
	readyAt      atomic.Int64 // unix nanoseconds; zero means ready
)

// SetShuttingDown sets the shutdown flag. Call when SIGTERM/SIGINT received.
// Health handler returns 503 with status shutting-down while true.
func SetShuttingDown(v bool) {
	shuttingDown.Store(v)
}

// IsShuttingDown returns true if the process is draining and should not receive new traffic.
func IsShuttingDown() bool {
	return shuttingDown.Load()
}

// MarkStarted records process start; the process reports starting until readyDelay has elapsed.
func MarkStarted(readyDelay time.Duration) {
	if readyDelay <= 0 {
		readyAt.Store(0)
		return
	}
	readyAt.Store(time.Now().Add(readyDelay).UnixNano())
}

// IsReady reports whether the ready delay has elapsed.
func IsReady() bool {
	at := readyAt.Load()
	return at == 0 || time.Now().UnixNano() >= at
}

// Phase returns the current lifecycle phase. Shutdown takes precedence.
func Phase() string {
	switch {
	case IsShuttingDown():
		return PhaseShuttingDown
	case !IsReady():
		return PhaseStarting
	default:
		return PhaseServing
	}
}
