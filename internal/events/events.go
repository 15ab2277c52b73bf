// Package events turns driver intents into the event sequences a user would
// produce on a widget.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/Norgate-AV/tyburn/internal/logger"
	"github.com/Norgate-AV/tyburn/pkg/widget"
)

// Kind identifies a synthetic event.
type Kind int

const (
	KindActivate Kind = iota
	KindReplaceText
	KindSelectOrAppend
	KindKeyChar
	KindKeyCode
)

func (k Kind) String() string {
	switch k {
	case KindActivate:
		return "activate"
	case KindReplaceText:
		return "replace-text"
	case KindSelectOrAppend:
		return "select-or-append"
	case KindKeyChar:
		return "key-char"
	case KindKeyCode:
		return "key-code"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Event is a single driver intent.
type Event struct {
	Kind Kind
	Text string
	Char rune
	Code widget.KeyCode
}

func Activate() Event { return Event{Kind: KindActivate} }

func ReplaceText(s string) Event { return Event{Kind: KindReplaceText, Text: s} }

func SelectOrAppend(s string) Event { return Event{Kind: KindSelectOrAppend, Text: s} }

func KeyChar(r rune) Event { return Event{Kind: KindKeyChar, Char: r} }

func KeyCode(code widget.KeyCode) Event { return Event{Kind: KindKeyCode, Code: code} }

// ForText picks the text-entry event matching c's kind.
func ForText(c widget.Component, value string) Event {
	if c.Kind() == widget.KindChoice {
		return SelectOrAppend(value)
	}

	return ReplaceText(value)
}

// UnsupportedOperationError reports an event that makes no sense for the
// target component.
type UnsupportedOperationError struct {
	Op        string
	Component string
	Kind      widget.Kind
	Reason    string
}

func (e *UnsupportedOperationError) Error() string {
	msg := fmt.Sprintf("cannot %s on %s component %q", e.Op, e.Kind, e.Component)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}

	return msg
}

// Synthesizer applies events to components. Apply must run on the UI thread.
type Synthesizer struct {
	log logger.LoggerInterface
}

// New returns a Synthesizer. A nil log disables logging.
func New(log logger.LoggerInterface) *Synthesizer {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &Synthesizer{log: log}
}

// Apply dispatches ev to target.
func (s *Synthesizer) Apply(_ context.Context, target widget.Component, ev Event) error {
	switch ev.Kind {
	case KindActivate:
		b, ok := target.(*widget.Button)
		if !ok {
			return unsupported(target, ev, "")
		}

		s.log.Debug("Clicking", "component", target.Name())
		b.DoClick()
		return nil

	case KindReplaceText:
		t, ok := target.(widget.TextComponent)
		if !ok {
			return unsupported(target, ev, "")
		}

		t.SetText(ev.Text)
		return nil

	case KindSelectOrAppend:
		return s.selectOrAppend(target, ev)

	case KindKeyChar:
		s.pressChar(target, ev.Char)
		return nil

	case KindKeyCode:
		s.pressCode(target, ev.Code)
		return nil
	}

	return unsupported(target, ev, "")
}

func (s *Synthesizer) selectOrAppend(target widget.Component, ev Event) error {
	combo, ok := target.(*widget.ComboBox)
	if !ok {
		return unsupported(target, ev, "")
	}

	if !combo.Editable() {
		if combo.IndexOf(ev.Text) < 0 {
			return unsupported(target, ev, fmt.Sprintf("%q is not one of the items", ev.Text))
		}

		combo.SetSelectedItem(ev.Text)
		return nil
	}

	editor := combo.Editor()
	editor.RequestFocus()

	for _, r := range ev.Text {
		s.pressChar(editor, r)
	}

	s.pressCode(editor, widget.KeyEnter)
	return nil
}

// pressChar sends pressed, typed and released events for r.
func (s *Synthesizer) pressChar(target widget.Component, r rune) {
	code, ok := widget.KeyCodeForRune(r)
	if !ok {
		code = widget.KeyUndefined
	}

	now := time.Now()
	s.deliver(target, &widget.KeyEvent{ID: widget.KeyPressed, Code: code, Char: r, When: now})
	s.deliver(target, &widget.KeyEvent{ID: widget.KeyTyped, Code: widget.KeyUndefined, Char: r, When: now})
	s.deliver(target, &widget.KeyEvent{ID: widget.KeyReleased, Code: code, Char: r, When: now})
}

// pressCode sends pressed and released events for code, with a typed event
// in between when the key produces a character.
func (s *Synthesizer) pressCode(target widget.Component, code widget.KeyCode) {
	r := widget.RuneForKeyCode(code)

	now := time.Now()
	s.deliver(target, &widget.KeyEvent{ID: widget.KeyPressed, Code: code, Char: r, When: now})

	if r != widget.CharUndefined {
		s.deliver(target, &widget.KeyEvent{ID: widget.KeyTyped, Code: widget.KeyUndefined, Char: r, When: now})
	}

	s.deliver(target, &widget.KeyEvent{ID: widget.KeyReleased, Code: code, Char: r, When: now})
}

// deliver runs the key paths for e. Raw listeners always see it. After that
// the target's own binding wins, then its default handling, and only an
// event the target left alone reaches the bindings of its ancestors, nearest
// first. A listener consuming e skips default handling but not bindings.
func (s *Synthesizer) deliver(target widget.Component, e *widget.KeyEvent) {
	e.Source = target
	target.FireKeyEvent(e)
	consumed := e.IsConsumed()

	stroke := widget.KeyStrokeForEvent(e)
	if s.invokeBinding(target, target, stroke, e) {
		return
	}

	if !consumed {
		target.HandleKeyDefault(e)
		if e.IsConsumed() {
			return
		}
	}

	for anc := target.Parent(); anc != nil; anc = anc.Parent() {
		if s.invokeBinding(target, anc, stroke, e) {
			return
		}
	}
}

// invokeBinding runs the enabled action bound to stroke on holder. A disabled
// action counts as no binding.
func (s *Synthesizer) invokeBinding(target, holder widget.Component, stroke widget.KeyStroke, e *widget.KeyEvent) bool {
	action, key, ok := widget.BindingOn(holder, stroke)
	if !ok {
		return false
	}

	if !action.Enabled() {
		s.log.Debug("Key binding disabled", "action", key)
		return false
	}

	s.log.Debug("Invoking key binding", "action", key, "component", target.Name())
	action.ActionPerformed(widget.ActionEvent{Source: target, Command: key, When: e.When})
	return true
}

// FocusTarget returns where key events for w go: its focus owner when that
// is still showing, else its content pane.
func FocusTarget(w *widget.Window) widget.Component {
	if owner := w.FocusOwner(); owner != nil && owner.IsShowing() {
		return owner
	}

	return w.ContentPane()
}

func unsupported(target widget.Component, ev Event, reason string) error {
	return &UnsupportedOperationError{
		Op:        ev.Kind.String(),
		Component: target.Name(),
		Kind:      target.Kind(),
		Reason:    reason,
	}
}
