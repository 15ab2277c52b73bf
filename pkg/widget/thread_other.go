//go:build !linux && !windows

package widget

// No portable thread id here; only dispatch contexts identify the UI thread.
func currentThreadID() int64 { return 0 }
