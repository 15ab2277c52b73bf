package tyburn

import (
	"github.com/Norgate-AV/tyburn/internal/events"
	"github.com/Norgate-AV/tyburn/internal/finder"
	"github.com/Norgate-AV/tyburn/internal/headless"
	"github.com/Norgate-AV/tyburn/internal/threaded"
)

type (
	// TimeoutError is returned when a window or the UI thread does not
	// respond before the deadline. errors.Is(err, context.DeadlineExceeded)
	// holds for it.
	TimeoutError = threaded.TimeoutError

	// ComponentNotFoundError is returned when the window is showing but
	// holds no component with the requested name. It is never retried.
	ComponentNotFoundError = finder.ComponentNotFoundError

	// UnsupportedOperationError is returned when the operation does not
	// apply to the component's kind.
	UnsupportedOperationError = events.UnsupportedOperationError
)

// ErrHeadless is returned by every operation when no UI thread is running.
var ErrHeadless = headless.ErrHeadless

// ErrWindowNotFound is returned by operations called from the UI thread
// itself when the window is not showing, since they cannot wait for it.
var ErrWindowNotFound = finder.ErrWindowNotFound
