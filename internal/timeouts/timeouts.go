// Package timeouts defines timing constants used throughout the application.
// Each can be overridden at runtime through configuration.
package timeouts

import "time"

const (
	// Operation Deadlines

	// DefaultOperationTimeout is the deadline for a single driver operation:
	// locating the window, marshalling the work onto the UI thread and waiting
	// for its result.
	DefaultOperationTimeout = 5 * time.Second

	// CloseTimeout is the maximum time to wait for a window to stop showing
	// after a close request has been posted.
	CloseTimeout = 5 * time.Second

	// WindowAppearTimeout is the maximum time a scenario waits for its window
	// before the first step runs.
	WindowAppearTimeout = 30 * time.Second

	// Polling Intervals

	// StatePollingInterval is the delay between checks when waiting for state
	// changes such as a window appearing or going away.
	StatePollingInterval = 100 * time.Millisecond

	// Shutdown

	// ShutdownGracePeriod bounds how long the CLI waits for the UI thread to
	// drain before exiting.
	ShutdownGracePeriod = 2 * time.Second
)
