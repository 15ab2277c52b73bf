// Package script loads YAML scenario files and runs them against a window.
package script

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/Norgate-AV/tyburn/pkg/widget"
)

// Scenario is a named window plus the steps to perform on it, in order.
type Scenario struct {
	Window  string `yaml:"window"`
	Timeout string `yaml:"timeout,omitempty"`
	Steps   []Step `yaml:"steps"`
}

// TextArgs names a component and a value.
type TextArgs struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// Step holds exactly one action.
type Step struct {
	Label        string    `yaml:"label,omitempty"`
	Click        string    `yaml:"click,omitempty"`
	EnterText    *TextArgs `yaml:"enter_text,omitempty"`
	ExpectText   *TextArgs `yaml:"expect_text,omitempty"`
	PressKeychar string    `yaml:"press_keychar,omitempty"`
	PressKeycode string    `yaml:"press_keycode,omitempty"`
	Find         string    `yaml:"find,omitempty"`
	Close        bool      `yaml:"close,omitempty"`
}

// Action returns the name of the step's action.
func (s Step) Action() string {
	switch {
	case s.Click != "":
		return "click"
	case s.EnterText != nil:
		return "enter_text"
	case s.ExpectText != nil:
		return "expect_text"
	case s.PressKeychar != "":
		return "press_keychar"
	case s.PressKeycode != "":
		return "press_keycode"
	case s.Find != "":
		return "find"
	case s.Close:
		return "close"
	default:
		return ""
	}
}

func (s Step) actionCount() int {
	n := 0
	for _, set := range []bool{
		s.Click != "",
		s.EnterText != nil,
		s.ExpectText != nil,
		s.PressKeychar != "",
		s.PressKeycode != "",
		s.Find != "",
		s.Close,
	} {
		if set {
			n++
		}
	}

	return n
}

// Load reads and validates the scenario at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}

	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return sc, nil
}

// Parse decodes and validates a scenario. Unknown keys are rejected.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}

	if err := sc.Validate(); err != nil {
		return nil, err
	}

	return &sc, nil
}

// Validate checks that the scenario can run.
func (sc *Scenario) Validate() error {
	var errs []error

	if strings.TrimSpace(sc.Window) == "" {
		errs = append(errs, errors.New("window is required"))
	}

	if _, err := sc.TimeoutDuration(); err != nil {
		errs = append(errs, err)
	}

	if len(sc.Steps) == 0 {
		errs = append(errs, errors.New("at least one step is required"))
	}

	for i, step := range sc.Steps {
		if err := step.validate(); err != nil {
			errs = append(errs, fmt.Errorf("step %d: %w", i+1, err))
		}
	}

	return errors.Join(errs...)
}

// TimeoutDuration returns the per-step timeout, or zero when unset.
func (sc *Scenario) TimeoutDuration() (time.Duration, error) {
	if sc.Timeout == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(sc.Timeout)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid timeout %q", sc.Timeout)
	}

	return d, nil
}

func (s Step) validate() error {
	switch s.actionCount() {
	case 0:
		return errors.New("no action given")
	case 1:
	default:
		return errors.New("more than one action given")
	}

	switch {
	case s.EnterText != nil && s.EnterText.Name == "":
		return errors.New("enter_text needs a name")
	case s.ExpectText != nil && s.ExpectText.Name == "":
		return errors.New("expect_text needs a name")
	case s.PressKeychar != "" && utf8.RuneCountInString(s.PressKeychar) != 1:
		return fmt.Errorf("press_keychar takes one character, got %q", s.PressKeychar)
	case s.PressKeycode != "":
		if _, err := ParseKeyCode(s.PressKeycode); err != nil {
			return err
		}
	}

	return nil
}

var keyNames = map[string]widget.KeyCode{
	"backspace": widget.KeyBackSpace,
	"tab":       widget.KeyTab,
	"enter":     widget.KeyEnter,
	"shift":     widget.KeyShift,
	"control":   widget.KeyControl,
	"alt":       widget.KeyAlt,
	"escape":    widget.KeyEscape,
	"space":     widget.KeySpace,
	"pageup":    widget.KeyPageUp,
	"pagedown":  widget.KeyPageDown,
	"end":       widget.KeyEnd,
	"home":      widget.KeyHome,
	"left":      widget.KeyLeft,
	"up":        widget.KeyUp,
	"right":     widget.KeyRight,
	"down":      widget.KeyDown,
	"delete":    widget.KeyDelete,
}

// ParseKeyCode accepts a key name (Enter, F5, A, 7) or a numeric key code.
func ParseKeyCode(s string) (widget.KeyCode, error) {
	name := strings.ToLower(strings.TrimSpace(s))

	if code, ok := keyNames[name]; ok {
		return code, nil
	}

	if len(name) > 1 && name[0] == 'f' {
		if n, err := strconv.Atoi(name[1:]); err == nil && n >= 1 && n <= 12 {
			return widget.KeyF1 + widget.KeyCode(n-1), nil
		}
	}

	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			code, _ := widget.KeyCodeForRune(r)
			return code, nil
		}
	}

	if n, err := strconv.Atoi(name); err == nil && n > 0 {
		return widget.KeyCode(n), nil
	}

	return widget.KeyUndefined, fmt.Errorf("unknown key %q", s)
}
