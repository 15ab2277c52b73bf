// Package threaded marshals work onto the UI thread and waits for its result
// under a deadline.
package threaded

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Norgate-AV/tyburn/internal/headless"
	"github.com/Norgate-AV/tyburn/internal/logger"
	"github.com/Norgate-AV/tyburn/internal/timeouts"
)

// TimeoutError reports that an operation did not complete before its
// deadline. It unwraps to context.DeadlineExceeded.
type TimeoutError struct {
	Op  string
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out waiting for %s", e.Op)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// Scheduler is the part of the toolkit the gateway needs.
type Scheduler interface {
	InvokeLater(task func(ctx context.Context)) error
	IsDispatchContext(ctx context.Context) bool
}

// Gateway runs actions on the UI thread on behalf of other goroutines.
type Gateway struct {
	sched   Scheduler
	log     logger.LoggerInterface
	timeout time.Duration
}

// New creates a gateway feeding sched. A nil log disables logging.
func New(sched Scheduler, log logger.LoggerInterface) *Gateway {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &Gateway{
		sched:   sched,
		log:     log,
		timeout: timeouts.DefaultOperationTimeout,
	}
}

// WithTimeout sets the deadline applied to contexts that carry none.
func (g *Gateway) WithTimeout(d time.Duration) *Gateway {
	if d > 0 {
		g.timeout = d
	}

	return g
}

// Timeout returns the default deadline.
func (g *Gateway) Timeout() time.Duration { return g.timeout }

// OnUIThread reports whether the caller is running on the UI thread, where
// Run executes synchronously and waiting for other UI work would deadlock.
func (g *Gateway) OnUIThread(ctx context.Context) bool {
	return g.sched.IsDispatchContext(ctx)
}

// Run executes action on the UI thread and waits for it to finish. When
// called from the UI thread itself the action runs synchronously. If the
// deadline passes first a *TimeoutError is returned and the action, once it
// eventually runs, has its result discarded.
func (g *Gateway) Run(ctx context.Context, what string, action func(ctx context.Context) error) error {
	_, err := Call(ctx, g, what, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, action(ctx)
	})

	return err
}

type result[T any] struct {
	val T
	err error
}

// Call is Run for actions that produce a value.
func Call[T any](ctx context.Context, g *Gateway, what string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if g.OnUIThread(ctx) {
		return guard(ctx, what, fn)
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	if err := ctx.Err(); err != nil {
		return zero, contextError(what, err)
	}

	// Buffered so a late action never blocks the UI thread.
	done := make(chan result[T], 1)

	err := g.sched.InvokeLater(func(uiCtx context.Context) {
		if ctx.Err() != nil {
			g.log.Debug("Skipping expired UI action", "action", what)
			return
		}

		v, err := guard(uiCtx, what, fn)
		done <- result[T]{val: v, err: err}
	})
	if err != nil {
		return zero, fmt.Errorf("%s: %w: %w", what, headless.ErrHeadless, err)
	}

	select {
	case r := <-done:
		return r.val, r.err
	case <-ctx.Done():
		g.log.Debug("UI action did not complete in time", "action", what)
		return zero, contextError(what, ctx.Err())
	}
}

func guard[T any](ctx context.Context, what string, fn func(ctx context.Context) (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic on UI thread: %v", what, r)
		}
	}()

	return fn(ctx)
}

func contextError(what string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Op: what, Err: err}
	}

	return fmt.Errorf("%s: %w", what, err)
}
