// Package widget is a small retained-mode widget toolkit with a single UI
// thread. Every read or write of widget state, and every event dispatch, must
// happen on that thread; other goroutines hand work to it with InvokeLater.
//
// The toolkit is deliberately close to the classic desktop model: top-level
// windows hold a content pane, containers hold children in insertion order,
// components carry key listeners plus input/action maps, and buttons, text
// fields and combo boxes fire action events.
package widget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"
)

// DefaultQueueSize is the capacity of the UI event queue.
const DefaultQueueSize = 256

// ErrStopped is returned when work is handed to a toolkit whose UI thread is
// not running.
var ErrStopped = errors.New("widget: UI thread is not running")

// Options configures a Toolkit.
type Options struct {
	// QueueSize is the capacity of the UI event queue (default: 256).
	QueueSize int

	// SelectAllOnFocus makes text fields select their whole content when
	// they gain focus, as some platforms do.
	SelectAllOnFocus bool

	// PanicHandler is called on the UI thread when a task panics. If nil the
	// panic is logged through slog.Default.
	PanicHandler func(recovered any)
}

type dispatchKey struct{}

// Toolkit owns the UI thread, the registry of top-level windows and the focus
// bookkeeping.
type Toolkit struct {
	opts    Options
	queue   chan func(context.Context)
	done    chan struct{}
	exited  chan struct{}
	started atomic.Bool
	running atomic.Bool
	stop    sync.Once

	// OS thread the UI loop is locked to, 0 when unknown or not running
	uiThread atomic.Int64

	// UI thread only
	windows []*Window
}

// New creates a toolkit. Call Start to launch its UI thread.
func New(opts Options) *Toolkit {
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}

	return &Toolkit{
		opts:   opts,
		queue:  make(chan func(context.Context), opts.QueueSize),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
}

// Start launches the UI thread. Calling it more than once has no effect.
func (t *Toolkit) Start() {
	if !t.started.CompareAndSwap(false, true) {
		return
	}

	t.running.Store(true)
	go t.loop()
}

// Stop terminates the UI thread after the task currently running, if any.
// Queued tasks that have not started are dropped.
func (t *Toolkit) Stop() {
	t.stop.Do(func() {
		t.running.Store(false)
		close(t.done)
	})

	if t.started.Load() {
		<-t.exited
	}
}

// Running reports whether the UI thread is accepting work.
func (t *Toolkit) Running() bool {
	return t.running.Load()
}

// InvokeLater queues task for execution on the UI thread. The context passed
// to task identifies the UI thread (see IsDispatchContext).
func (t *Toolkit) InvokeLater(task func(ctx context.Context)) error {
	if !t.running.Load() {
		return ErrStopped
	}

	select {
	case t.queue <- task:
		return nil
	case <-t.done:
		return ErrStopped
	}
}

// IsDispatchContext reports whether the caller is running on this toolkit's
// UI thread: either ctx was handed out by the UI thread, or the calling
// goroutine is the UI loop itself, as in a listener called with no context.
func (t *Toolkit) IsDispatchContext(ctx context.Context) bool {
	if ctx != nil {
		if owner, _ := ctx.Value(dispatchKey{}).(*Toolkit); owner == t {
			return true
		}
	}

	return t.IsDispatchThread()
}

// IsDispatchThread reports whether the calling goroutine is the UI loop. The
// loop is locked to its OS thread, so no other goroutine can run there.
func (t *Toolkit) IsDispatchThread() bool {
	id := t.uiThread.Load()
	return id != 0 && id == currentThreadID()
}

// Windows returns the displayed top-level windows in the order they were
// first shown. UI thread only.
func (t *Toolkit) Windows() []*Window {
	shown := make([]*Window, 0, len(t.windows))
	for _, w := range t.windows {
		if w.IsShowing() {
			shown = append(shown, w)
		}
	}

	return shown
}

// FocusOwner returns the focus owner of the most recently shown window that
// has one. UI thread only.
func (t *Toolkit) FocusOwner() Component {
	for i := len(t.windows) - 1; i >= 0; i-- {
		w := t.windows[i]
		if w.IsShowing() && w.FocusOwner() != nil {
			return w.FocusOwner()
		}
	}

	return nil
}

func (t *Toolkit) register(w *Window) {
	if !slices.Contains(t.windows, w) {
		t.windows = append(t.windows, w)
	}
}

func (t *Toolkit) unregister(w *Window) {
	t.windows = slices.DeleteFunc(t.windows, func(x *Window) bool { return x == w })
}

func (t *Toolkit) loop() {
	// Native toolkits require their event loop to stay on one OS thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(t.exited)

	t.uiThread.Store(currentThreadID())
	defer t.uiThread.Store(0)

	ctx := context.WithValue(context.Background(), dispatchKey{}, t)

	for {
		select {
		case <-t.done:
			return
		case task := <-t.queue:
			t.run(ctx, task)
		}
	}
}

func (t *Toolkit) run(ctx context.Context, task func(context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			if t.opts.PanicHandler != nil {
				t.opts.PanicHandler(r)
				return
			}

			slog.Default().Error("Panic on UI thread", slog.String("panic", fmt.Sprint(r)))
		}
	}()

	task(ctx)
}
