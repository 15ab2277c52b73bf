package script

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/Norgate-AV/tyburn/internal/logger"
	"github.com/Norgate-AV/tyburn/internal/timeouts"
	"github.com/Norgate-AV/tyburn/pkg/widget"
)

// ErrExpectationFailed is returned when an expect_text step reads a
// different value.
var ErrExpectationFailed = errors.New("expectation failed")

// Controller is the window driver a scenario runs against.
// *tyburn.WindowControl satisfies it.
type Controller interface {
	WaitForWindow(ctx context.Context) error
	ClickButtonContext(ctx context.Context, name string) error
	EnterTextContext(ctx context.Context, name, value string) error
	ReadTextContext(ctx context.Context, name string) (string, error)
	FindComponentContext(ctx context.Context, name string) (widget.Component, error)
	PressKeycharContext(ctx context.Context, r rune) error
	PressKeycodeContext(ctx context.Context, code widget.KeyCode) error
	CloseWindowContext(ctx context.Context) error
}

// StepResult is the outcome of one step.
type StepResult struct {
	Index    int
	Label    string
	Action   string
	Err      error
	Duration time.Duration
}

// Report lists the steps that ran. Steps after the first failure are not
// attempted.
type Report struct {
	Window string
	Steps  []StepResult
}

// Failed returns the first failed step, if any.
func (r *Report) Failed() (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Err != nil {
			return s, true
		}
	}

	return StepResult{}, false
}

// Runner executes scenarios.
type Runner struct {
	log logger.LoggerInterface
}

// NewRunner returns a Runner. A nil log disables logging.
func NewRunner(log logger.LoggerInterface) *Runner {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &Runner{log: log}
}

// Run performs the scenario's steps in order and stops at the first failure,
// which is also returned.
func (r *Runner) Run(ctx context.Context, c Controller, sc *Scenario) (*Report, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	timeout, _ := sc.TimeoutDuration()
	report := &Report{Window: sc.Window}

	r.log.Info("Running scenario", "window", sc.Window, "steps", len(sc.Steps))

	waitCtx, cancel := context.WithTimeout(ctx, timeouts.WindowAppearTimeout)
	err := c.WaitForWindow(waitCtx)
	cancel()

	if err != nil {
		r.log.Error("Window did not appear", "window", sc.Window, "error", err)
		return report, fmt.Errorf("waiting for window %q: %w", sc.Window, err)
	}

	for i, step := range sc.Steps {
		res := StepResult{Index: i + 1, Label: step.Label, Action: step.Action()}

		start := time.Now()
		res.Err = r.runStep(ctx, c, step, timeout)
		res.Duration = time.Since(start)
		report.Steps = append(report.Steps, res)

		if res.Err != nil {
			r.log.Error("Step failed", "step", res.Index, "action", res.Action, "error", res.Err)
			return report, fmt.Errorf("step %d (%s): %w", res.Index, res.Action, res.Err)
		}

		r.log.Info("Step passed", "step", res.Index, "action", res.Action, "elapsed", res.Duration.Round(time.Millisecond))
	}

	return report, nil
}

func (r *Runner) runStep(ctx context.Context, c Controller, step Step, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	switch {
	case step.Click != "":
		return c.ClickButtonContext(ctx, step.Click)

	case step.EnterText != nil:
		return c.EnterTextContext(ctx, step.EnterText.Name, step.EnterText.Value)

	case step.ExpectText != nil:
		got, err := c.ReadTextContext(ctx, step.ExpectText.Name)
		if err != nil {
			return err
		}

		if got != step.ExpectText.Value {
			return fmt.Errorf("%w: %s is %q, want %q", ErrExpectationFailed, step.ExpectText.Name, got, step.ExpectText.Value)
		}

		return nil

	case step.PressKeychar != "":
		ch, _ := utf8.DecodeRuneInString(step.PressKeychar)
		return c.PressKeycharContext(ctx, ch)

	case step.PressKeycode != "":
		code, err := ParseKeyCode(step.PressKeycode)
		if err != nil {
			return err
		}

		return c.PressKeycodeContext(ctx, code)

	case step.Find != "":
		_, err := c.FindComponentContext(ctx, step.Find)
		return err

	case step.Close:
		return c.CloseWindowContext(ctx)
	}

	return errors.New("no action given")
}
