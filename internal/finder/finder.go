// Package finder locates top-level windows and named components.
//
// Lookups walk live widget state, so every function here except the Finder
// methods must run on the UI thread. The Finder methods marshal their work
// through a threaded.Gateway.
package finder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/Norgate-AV/tyburn/internal/logger"
	"github.com/Norgate-AV/tyburn/internal/threaded"
	"github.com/Norgate-AV/tyburn/internal/timeouts"
	"github.com/Norgate-AV/tyburn/pkg/widget"
)

// ErrWindowNotFound is returned by WindowNamed when no showing window has
// the requested name.
var ErrWindowNotFound = errors.New("window not found")

// ComponentNotFoundError reports that no component named Name exists below
// the window named Root.
type ComponentNotFoundError struct {
	Name string
	Root string
}

func (e *ComponentNotFoundError) Error() string {
	return fmt.Sprintf("component %q not found in window %q", e.Name, e.Root)
}

// Registry lists the showing top-level windows in the order they were first
// shown. *widget.Toolkit satisfies it.
type Registry interface {
	Windows() []*widget.Window
}

// WindowNamed returns the first showing window named name.
func WindowNamed(reg Registry, name string) (*widget.Window, error) {
	for _, w := range reg.Windows() {
		if w.Name() == name && w.IsShowing() {
			return w, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrWindowNotFound, name)
}

// Find returns the first component named name below root, searching depth
// first in child order. Containers are candidates too; root itself is not.
func Find(root widget.Container, name string) (widget.Component, error) {
	if c := find(root, name); c != nil {
		return c, nil
	}

	return nil, &ComponentNotFoundError{Name: name, Root: root.Name()}
}

func find(parent widget.Container, name string) widget.Component {
	for _, child := range parent.Children() {
		if child.Name() == name {
			return child
		}

		if sub, ok := child.(widget.Container); ok {
			if c := find(sub, name); c != nil {
				return c
			}
		}
	}

	return nil
}

// Finder resolves windows by name, waiting for them to appear.
type Finder struct {
	gateway  *threaded.Gateway
	registry Registry
	log      logger.LoggerInterface
	interval time.Duration
}

// New creates a Finder. A nil log disables logging.
func New(gateway *threaded.Gateway, registry Registry, log logger.LoggerInterface) *Finder {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &Finder{
		gateway:  gateway,
		registry: registry,
		log:      log,
		interval: timeouts.StatePollingInterval,
	}
}

// WithInterval sets the delay between window lookups.
func (f *Finder) WithInterval(d time.Duration) *Finder {
	if d > 0 {
		f.interval = d
	}

	return f
}

// Poll looks up the window named windowName and, once it is showing, runs fn
// against it on the UI thread. Lookup and fn share one UI task so the window
// cannot go away in between. Until the window appears Poll retries every
// interval; when ctx expires it returns a *threaded.TimeoutError. Errors from
// fn are returned as is.
//
// Called on the UI thread, Poll looks once and returns ErrWindowNotFound
// rather than wait, since nothing else can run there until it returns.
func (f *Finder) Poll(ctx context.Context, windowName string, fn func(ctx context.Context, w *widget.Window) error) error {
	if f.gateway.OnUIThread(ctx) {
		return f.gateway.Run(ctx, "window "+windowName, func(ctx context.Context) error {
			w, err := WindowNamed(f.registry, windowName)
			if err != nil {
				return err
			}

			return fn(ctx, w)
		})
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.gateway.Timeout())
		defer cancel()
	}

	limiter := rate.NewLimiter(rate.Every(f.interval), 1)
	attempt := func() (bool, error) {
		err := f.gateway.Run(ctx, "window "+windowName, func(ctx context.Context) error {
			w, err := WindowNamed(f.registry, windowName)
			if err != nil {
				return err
			}

			return fn(ctx, w)
		})

		if errors.Is(err, ErrWindowNotFound) {
			return false, nil
		}

		return err == nil, err
	}

	tries := 0
	for limiter.Wait(ctx) == nil {
		tries++
		done, err := attempt()
		if isTimeout(err) {
			break
		}

		if done || err != nil {
			return err
		}
	}

	// The limiter gives up once the next slot falls past the deadline, so
	// take one last look while time remains.
	if ctx.Err() == nil {
		tries++
		if done, err := attempt(); done || (err != nil && !isTimeout(err)) {
			return err
		}
	}

	f.log.Debug("Window did not appear", "window", windowName, "tries", tries)

	if err := ctx.Err(); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("window %q: %w", windowName, err)
	}

	return &threaded.TimeoutError{Op: fmt.Sprintf("window %q to appear", windowName), Err: context.DeadlineExceeded}
}

func isTimeout(err error) bool {
	var te *threaded.TimeoutError
	return errors.As(err, &te)
}

// ResolveWindow waits for the window named name to be showing.
func (f *Finder) ResolveWindow(ctx context.Context, name string) (*widget.Window, error) {
	var found *widget.Window

	err := f.Poll(ctx, name, func(_ context.Context, w *widget.Window) error {
		found = w
		return nil
	})
	if err != nil {
		return nil, err
	}

	return found, nil
}

// WaitUntilHidden polls until w stops showing or ctx expires. On the UI
// thread it cannot wait, so it returns at once; a close posted from there
// takes effect after the current UI task.
func (f *Finder) WaitUntilHidden(ctx context.Context, w *widget.Window) error {
	if f.gateway.OnUIThread(ctx) {
		return nil
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.gateway.Timeout())
		defer cancel()
	}

	limiter := rate.NewLimiter(rate.Every(f.interval), 1)

	for limiter.Wait(ctx) == nil {
		showing, err := threaded.Call(ctx, f.gateway, "window state", func(context.Context) (bool, error) {
			return w.IsShowing(), nil
		})
		if err != nil {
			if isTimeout(err) {
				break
			}

			return err
		}

		if !showing {
			return nil
		}
	}

	// Final check at the deadline.
	if !w.IsShowing() {
		return nil
	}

	if err := ctx.Err(); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("window %q: %w", w.Name(), err)
	}

	return &threaded.TimeoutError{Op: fmt.Sprintf("window %q to close", w.Name()), Err: context.DeadlineExceeded}
}
