package widget

import "time"

// ActionEvent is delivered to action listeners when a control is activated.
type ActionEvent struct {
	Source  Component
	Command string
	When    time.Time
}

// ActionListener receives action events.
type ActionListener interface {
	ActionPerformed(e ActionEvent)
}

// ActionListenerFunc adapts a function to ActionListener.
type ActionListenerFunc func(e ActionEvent)

func (f ActionListenerFunc) ActionPerformed(e ActionEvent) { f(e) }

// Action is a bindable command that can be switched off.
type Action interface {
	ActionListener
	Enabled() bool
}

// BasicAction is an Action backed by a function.
type BasicAction struct {
	fn      func(e ActionEvent)
	enabled bool
}

// NewAction returns an enabled action that runs fn.
func NewAction(fn func(e ActionEvent)) *BasicAction {
	return &BasicAction{fn: fn, enabled: true}
}

func (a *BasicAction) ActionPerformed(e ActionEvent) {
	if a.fn != nil {
		a.fn(e)
	}
}

func (a *BasicAction) Enabled() bool { return a.enabled }

func (a *BasicAction) SetEnabled(enabled bool) { a.enabled = enabled }

// InputMap binds key strokes to action keys.
type InputMap struct {
	bindings map[KeyStroke]string
}

// Put binds stroke to actionKey. An empty key removes the binding.
func (m *InputMap) Put(stroke KeyStroke, actionKey string) {
	if m.bindings == nil {
		m.bindings = make(map[KeyStroke]string)
	}

	if actionKey == "" {
		delete(m.bindings, stroke)
		return
	}

	m.bindings[stroke] = actionKey
}

// Get returns the action key bound to stroke.
func (m *InputMap) Get(stroke KeyStroke) (string, bool) {
	key, ok := m.bindings[stroke]
	return key, ok
}

// ActionMap maps action keys to actions.
type ActionMap struct {
	actions map[string]Action
}

// Put registers action under key. A nil action removes the entry.
func (m *ActionMap) Put(key string, action Action) {
	if m.actions == nil {
		m.actions = make(map[string]Action)
	}

	if action == nil {
		delete(m.actions, key)
		return
	}

	m.actions[key] = action
}

// Get returns the action registered under key.
func (m *ActionMap) Get(key string) (Action, bool) {
	a, ok := m.actions[key]
	return a, ok
}

// BindingOn resolves stroke against the input and action maps of c alone.
// UI thread only.
func BindingOn(c Component, stroke KeyStroke) (Action, string, bool) {
	key, ok := c.InputMap().Get(stroke)
	if !ok {
		return nil, "", false
	}

	action, ok := c.ActionMap().Get(key)
	if !ok {
		return nil, "", false
	}

	return action, key, true
}
