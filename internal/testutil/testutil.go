package testutil

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/Norgate-AV/tyburn/pkg/widget"
)

// CreateTempDir creates a temporary directory for testing
func CreateTempDir(t *testing.T) string {
	t.Helper()

	dir, err := os.MkdirTemp("", "tyburn-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

// WriteFile writes content to name inside dir and returns the path
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	return path
}

// NewStartedToolkit returns a running toolkit that is stopped when the test
// ends.
func NewStartedToolkit(t *testing.T, opts ...widget.Options) *widget.Toolkit {
	t.Helper()

	var o widget.Options
	if len(opts) > 0 {
		o = opts[0]
	}

	o.PanicHandler = func(r any) { t.Errorf("panic on UI thread: %v", r) }

	tk := widget.New(o)
	tk.Start()
	t.Cleanup(tk.Stop)

	return tk
}

// SkipWithoutThreadIdentity skips tests that call into the toolkit from
// listeners with no dispatch context, which needs OS thread ids.
func SkipWithoutThreadIdentity(t *testing.T) {
	t.Helper()

	if runtime.GOOS != "linux" && runtime.GOOS != "windows" {
		t.Skip("UI thread is identified by context only on " + runtime.GOOS)
	}
}

// OnUI runs fn on the toolkit's UI thread and waits for it to return.
func OnUI(t *testing.T, tk *widget.Toolkit, fn func(ctx context.Context)) {
	t.Helper()

	done := make(chan struct{})
	if err := tk.InvokeLater(func(ctx context.Context) {
		defer close(done)
		fn(ctx)
	}); err != nil {
		t.Fatalf("Failed to schedule UI task: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("UI task did not complete")
	}
}

// ShowWindow builds a window named name, lets build populate its content
// pane and shows it. The window is visible when ShowWindow returns.
func ShowWindow(t *testing.T, tk *widget.Toolkit, name string, build func(w *widget.Window)) *widget.Window {
	t.Helper()

	w := widget.NewWindow(tk, name)
	OnUI(t, tk, func(context.Context) {
		if build != nil {
			build(w)
		}
	})

	if err := w.SetVisible(true); err != nil {
		t.Fatalf("Failed to show window: %v", err)
	}

	OnUI(t, tk, func(context.Context) {})
	return w
}
