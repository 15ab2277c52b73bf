package interfaces

import (
	"context"
	"time"

	"github.com/Norgate-AV/tyburn/internal/events"
	"github.com/Norgate-AV/tyburn/pkg/widget"
)

// WindowLocator waits for named windows and runs work against them on the
// UI thread
type WindowLocator interface {
	Poll(ctx context.Context, windowName string, fn func(ctx context.Context, w *widget.Window) error) error
	ResolveWindow(ctx context.Context, name string) (*widget.Window, error)
	WaitUntilHidden(ctx context.Context, w *widget.Window) error
}

// EventSynthesizer applies driver intents to components on the UI thread
type EventSynthesizer interface {
	Apply(ctx context.Context, target widget.Component, ev events.Event) error
}

// HeadlessChecker fails fast when there is no UI to drive
type HeadlessChecker interface {
	Check() error
}

// OperationRecorder records the outcome of each driver operation
type OperationRecorder interface {
	Observe(op string, err error, d time.Duration)
}
