// Package headless detects environments where no UI can be driven.
package headless

import "errors"

// ErrHeadless is returned when there is no running UI thread to drive.
var ErrHeadless = errors.New("headless environment: no UI thread available")

// UI reports whether the toolkit's event loop is accepting work.
// *widget.Toolkit satisfies it.
type UI interface {
	Running() bool
}

// Checker fails fast before any operation touches the UI.
type Checker struct {
	ui     UI
	forced bool
}

// New returns a Checker for ui. When forced is set every check fails, as
// configured by TYBURN_HEADLESS.
func New(ui UI, forced bool) *Checker {
	return &Checker{ui: ui, forced: forced}
}

// Check returns ErrHeadless when the UI cannot be driven.
func (c *Checker) Check() error {
	if c.forced || c.ui == nil || !c.ui.Running() {
		return ErrHeadless
	}

	return nil
}
