// Package tyburn drives widget applications from tests: click buttons, enter
// text, press keys and close windows by name, with every widget access
// marshalled onto the toolkit's UI thread.
//
// A WindowControl binds to a window name, not a window. Each operation looks
// the window up again, waiting for it to appear, so a control stays valid
// across the window being closed and reopened.
package tyburn

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Norgate-AV/tyburn/internal/config"
	"github.com/Norgate-AV/tyburn/internal/events"
	"github.com/Norgate-AV/tyburn/internal/finder"
	"github.com/Norgate-AV/tyburn/internal/headless"
	"github.com/Norgate-AV/tyburn/internal/interfaces"
	"github.com/Norgate-AV/tyburn/internal/logger"
	"github.com/Norgate-AV/tyburn/internal/metrics"
	"github.com/Norgate-AV/tyburn/internal/threaded"
	"github.com/Norgate-AV/tyburn/pkg/widget"
)

// Operation names used in logs and metrics.
const (
	OpClickButton   = "click_button"
	OpEnterText     = "enter_text"
	OpFindComponent = "find_component"
	OpReadText      = "read_text"
	OpPressKeychar  = "press_keychar"
	OpPressKeycode  = "press_keycode"
	OpCloseWindow   = "close_window"
	OpWaitForWindow = "wait_for_window"
)

type settings struct {
	cfg      *config.Config
	log      logger.LoggerInterface
	metrics  *metrics.Metrics
	headless interfaces.HeadlessChecker
}

// Option customises a WindowControl.
type Option func(*settings)

// WithTimeout sets the deadline for operations whose context carries none.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.cfg.Timeout = d
		}
	}
}

// WithCloseTimeout sets how long CloseWindow waits for the window to go away.
func WithCloseTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.cfg.CloseTimeout = d
		}
	}
}

// WithPollInterval sets the delay between window lookups.
func WithPollInterval(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.cfg.PollInterval = d
		}
	}
}

// Config holds the timing and headless settings a WindowControl starts from.
type Config = config.Config

// DefaultConfig returns the built-in settings, ignoring the environment.
func DefaultConfig() *Config { return config.Default() }

// LoadConfig reads the settings from TYBURN_* environment variables.
func LoadConfig() (*Config, error) { return config.Load() }

// WithConfig replaces the settings loaded from the environment.
func WithConfig(cfg *Config) Option {
	return func(s *settings) {
		if cfg != nil {
			c := *cfg
			s.cfg = &c
		}
	}
}

// WithLogger logs operations to log. The default discards everything.
func WithLogger(log *slog.Logger) Option {
	return func(s *settings) {
		if log != nil {
			s.log = logger.FromSlog(log)
		}
	}
}

// WithMetrics records every operation in Prometheus metrics registered
// with reg. Controls sharing a registry share the metrics.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(s *settings) {
		if reg != nil {
			s.metrics = metrics.New(reg)
		}
	}
}

// WithHeadlessChecker replaces the default check, which fails when the
// toolkit's UI thread is not running or TYBURN_HEADLESS is set.
func WithHeadlessChecker(c interfaces.HeadlessChecker) Option {
	return func(s *settings) {
		if c != nil {
			s.headless = c
		}
	}
}

// WindowControl drives the window with a given name.
type WindowControl struct {
	name         string
	tk           *widget.Toolkit
	gateway      *threaded.Gateway
	locator      interfaces.WindowLocator
	synth        interfaces.EventSynthesizer
	headless     interfaces.HeadlessChecker
	metrics      interfaces.OperationRecorder
	log          logger.LoggerInterface
	timeout      time.Duration
	closeTimeout time.Duration
}

// New returns a control for the window named windowName in tk. The window
// need not exist yet. Settings start from the TYBURN_* environment.
func New(tk *widget.Toolkit, windowName string, opts ...Option) *WindowControl {
	s := &settings{
		cfg: config.LoadOrDefault(),
		log: logger.NewNoOpLogger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.headless == nil {
		s.headless = headless.New(tk, s.cfg.Headless)
	}

	log := s.log.With("window", windowName)
	gateway := threaded.New(tk, log).WithTimeout(s.cfg.Timeout)

	c := &WindowControl{
		name:         windowName,
		tk:           tk,
		gateway:      gateway,
		locator:      finder.New(gateway, tk, log).WithInterval(s.cfg.PollInterval),
		synth:        events.New(log),
		headless:     s.headless,
		log:          log,
		timeout:      s.cfg.Timeout,
		closeTimeout: s.cfg.CloseTimeout,
	}

	if s.metrics != nil {
		c.metrics = s.metrics
	}

	return c
}

// WindowName returns the name this control is bound to.
func (c *WindowControl) WindowName() string { return c.name }

// ClickButton activates the button named name once, notifying each of its
// action listeners.
func (c *WindowControl) ClickButton(name string) error {
	return c.ClickButtonContext(context.Background(), name)
}

// ClickButtonContext is ClickButton bounded by ctx instead of the default
// timeout when ctx has a deadline.
func (c *WindowControl) ClickButtonContext(ctx context.Context, name string) error {
	return c.do(ctx, OpClickButton, name, func(ctx context.Context, w *widget.Window) error {
		target, err := finder.Find(w, name)
		if err != nil {
			return err
		}

		return c.synth.Apply(ctx, target, events.Activate())
	})
}

// EnterText sets the content of the text component named name to value. On a
// combo box it selects value, or for an editable one types it into the
// editor and commits it.
func (c *WindowControl) EnterText(name, value string) error {
	return c.EnterTextContext(context.Background(), name, value)
}

// EnterTextContext is EnterText bounded by ctx.
func (c *WindowControl) EnterTextContext(ctx context.Context, name, value string) error {
	return c.do(ctx, OpEnterText, name, func(ctx context.Context, w *widget.Window) error {
		target, err := finder.Find(w, name)
		if err != nil {
			return err
		}

		return c.synth.Apply(ctx, target, events.ForText(target, value))
	})
}

// FindComponent returns the component named name. The result may only be
// inspected for identity and thread-safe state; drive it through this
// control or on the UI thread.
func (c *WindowControl) FindComponent(name string) (widget.Component, error) {
	return c.FindComponentContext(context.Background(), name)
}

// FindComponentContext is FindComponent bounded by ctx.
func (c *WindowControl) FindComponentContext(ctx context.Context, name string) (widget.Component, error) {
	var found widget.Component

	err := c.do(ctx, OpFindComponent, name, func(_ context.Context, w *widget.Window) error {
		target, err := finder.Find(w, name)
		found = target
		return err
	})
	if err != nil {
		return nil, err
	}

	return found, nil
}

// ReadText returns the content of the text component named name, or the
// selection of a combo box.
func (c *WindowControl) ReadText(name string) (string, error) {
	return c.ReadTextContext(context.Background(), name)
}

// ReadTextContext is ReadText bounded by ctx.
func (c *WindowControl) ReadTextContext(ctx context.Context, name string) (string, error) {
	var text string

	err := c.do(ctx, OpReadText, name, func(_ context.Context, w *widget.Window) error {
		target, err := finder.Find(w, name)
		if err != nil {
			return err
		}

		switch t := target.(type) {
		case *widget.ComboBox:
			text, _ = t.SelectedItem()
		case widget.TextComponent:
			text = t.Text()
		default:
			return &events.UnsupportedOperationError{Op: "read text", Component: name, Kind: target.Kind()}
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	return text, nil
}

// PressKeychar types r on the window's focus owner, or on its content pane
// when nothing has focus.
func (c *WindowControl) PressKeychar(r rune) error {
	return c.PressKeycharContext(context.Background(), r)
}

// PressKeycharContext is PressKeychar bounded by ctx.
func (c *WindowControl) PressKeycharContext(ctx context.Context, r rune) error {
	return c.do(ctx, OpPressKeychar, fmt.Sprintf("%q", r), func(ctx context.Context, w *widget.Window) error {
		return c.synth.Apply(ctx, events.FocusTarget(w), events.KeyChar(r))
	})
}

// PressKeycode presses and releases the key code on the window's focus
// owner, or on its content pane when nothing has focus.
func (c *WindowControl) PressKeycode(code widget.KeyCode) error {
	return c.PressKeycodeContext(context.Background(), code)
}

// PressKeycodeContext is PressKeycode bounded by ctx.
func (c *WindowControl) PressKeycodeContext(ctx context.Context, code widget.KeyCode) error {
	return c.do(ctx, OpPressKeycode, fmt.Sprintf("keycode %d", code), func(ctx context.Context, w *widget.Window) error {
		return c.synth.Apply(ctx, events.FocusTarget(w), events.KeyCode(code))
	})
}

// WaitForWindow blocks until the window is showing.
func (c *WindowControl) WaitForWindow(ctx context.Context) error {
	return c.do(ctx, OpWaitForWindow, c.name, func(context.Context, *widget.Window) error {
		return nil
	})
}

// CloseWindow asks the window to close the way its close box would and waits
// for it to stop showing. A window that is not showing is left alone, so
// repeated calls succeed.
func (c *WindowControl) CloseWindow() error {
	return c.CloseWindowContext(context.Background())
}

// CloseWindowContext is CloseWindow bounded by ctx instead of the close
// timeout when ctx has a deadline. Called on the UI thread it posts the
// request and returns without waiting.
func (c *WindowControl) CloseWindowContext(ctx context.Context) (err error) {
	log := c.log.With("op_id", uuid.NewString(), "op", OpCloseWindow)
	start := time.Now()

	defer func() {
		c.observe(OpCloseWindow, err, time.Since(start))
		if err != nil {
			log.Debug("Operation failed", "error", err)
		}
	}()

	if err := c.headless.Check(); err != nil {
		return fmt.Errorf("%s: %w", OpCloseWindow, err)
	}

	ctx, cancel := withDefaultDeadline(ctx, c.closeTimeout)
	defer cancel()

	// The lookup is queued behind everything already pending on the UI
	// thread, so a window shown just before this call is seen.
	w, err := threaded.Call(ctx, c.gateway, "close lookup", func(context.Context) (*widget.Window, error) {
		w, _ := finder.WindowNamed(c.tk, c.name)
		return w, nil
	})
	if err != nil {
		return err
	}

	if w == nil {
		log.Debug("Window not showing, nothing to close")
		return nil
	}

	log.Debug("Posting close request")
	if err := w.PostClosing(); err != nil {
		return fmt.Errorf("%s: %w: %w", OpCloseWindow, headless.ErrHeadless, err)
	}

	if err := c.locator.WaitUntilHidden(ctx, w); err != nil {
		return err
	}

	log.Debug("Window closed")
	return nil
}

// do runs fn against the window once it is showing, under the operation's
// deadline.
func (c *WindowControl) do(ctx context.Context, op, target string, fn func(ctx context.Context, w *widget.Window) error) (err error) {
	log := c.log.With("op_id", uuid.NewString(), "op", op, "target", target)
	start := time.Now()

	defer func() {
		c.observe(op, err, time.Since(start))
		if err != nil {
			log.Debug("Operation failed", "error", err, "elapsed", time.Since(start))
			return
		}

		log.Debug("Operation complete", "elapsed", time.Since(start))
	}()

	if err := c.headless.Check(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := withDefaultDeadline(ctx, c.timeout)
	defer cancel()

	return c.locator.Poll(ctx, c.name, fn)
}

func (c *WindowControl) observe(op string, err error, d time.Duration) {
	if c.metrics != nil {
		c.metrics.Observe(op, err, d)
	}
}

func withDefaultDeadline(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, d)
}
