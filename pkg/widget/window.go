package widget

import (
	"context"
	"sync/atomic"
)

// CloseOperation selects what a window does when asked to close.
type CloseOperation int

const (
	HideOnClose CloseOperation = iota
	DisposeOnClose
	DoNothingOnClose
)

// Window is a top-level container with a content pane.
type Window struct {
	base
	tk         *Toolkit
	content    *Panel
	closeOp    CloseOperation
	focusOwner Component
	onClosing  []func(w *Window)

	showing  atomic.Bool
	disposed atomic.Bool
}

// NewWindow returns a hidden window named name with an empty content pane.
func NewWindow(tk *Toolkit, name string) *Window {
	w := &Window{tk: tk}
	w.self = w
	w.name = name
	w.SetContentPane(NewPanel())
	return w
}

func (w *Window) Kind() Kind { return KindContainer }

// Toolkit returns the toolkit that owns the window.
func (w *Window) Toolkit() *Toolkit { return w.tk }

// ContentPane returns the panel holding the window's controls.
func (w *Window) ContentPane() *Panel { return w.content }

// SetContentPane replaces the window's content pane.
func (w *Window) SetContentPane(p *Panel) {
	if w.content != nil {
		w.content.setParent(nil)
	}

	p.setParent(w)
	w.content = p
}

// Children returns the content pane.
func (w *Window) Children() []Component {
	return []Component{w.content}
}

// SetDefaultCloseOperation selects the response to close requests.
func (w *Window) SetDefaultCloseOperation(op CloseOperation) { w.closeOp = op }

// OnClosing registers fn to run on the UI thread when a close is requested.
func (w *Window) OnClosing(fn func(w *Window)) {
	w.onClosing = append(w.onClosing, fn)
}

// IsShowing reports whether the window is displayed. Safe from any goroutine.
func (w *Window) IsShowing() bool { return w.showing.Load() }

// IsDisposed reports whether the window has been disposed. Safe from any
// goroutine.
func (w *Window) IsDisposed() bool { return w.disposed.Load() }

// FocusOwner returns the component holding focus within the window.
func (w *Window) FocusOwner() Component { return w.focusOwner }

// SetVisible shows or hides the window. The change is applied on the UI
// thread, so the window becomes visible asynchronously.
func (w *Window) SetVisible(visible bool) error {
	return w.tk.InvokeLater(func(context.Context) {
		if visible {
			w.show()
		} else {
			w.hide()
		}
	})
}

// Dispose hides the window and releases it from the toolkit's registry. The
// change is applied on the UI thread.
func (w *Window) Dispose() error {
	return w.tk.InvokeLater(func(context.Context) {
		w.dispose()
	})
}

// PostClosing queues a close request, the same path a user clicking the
// window's close box would take.
func (w *Window) PostClosing() error {
	return w.tk.InvokeLater(func(context.Context) {
		w.processClosing()
	})
}

func (w *Window) show() {
	w.disposed.Store(false)
	w.tk.register(w)
	w.showing.Store(true)
}

func (w *Window) hide() {
	w.showing.Store(false)
}

func (w *Window) dispose() {
	w.showing.Store(false)
	w.disposed.Store(true)
	w.focusOwner = nil
	w.tk.unregister(w)
}

func (w *Window) processClosing() {
	if !w.IsShowing() {
		return
	}

	for _, fn := range w.onClosing {
		fn(w)
	}

	switch w.closeOp {
	case HideOnClose:
		w.hide()
	case DisposeOnClose:
		w.dispose()
	}
}

func (w *Window) setFocusOwner(c Component) {
	if w.focusOwner == c {
		return
	}

	old := w.focusOwner
	w.focusOwner = c

	if old != nil {
		old.focusLost()
	}

	c.focusGained()
}
