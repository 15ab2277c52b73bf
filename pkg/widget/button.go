package widget

import "time"

// Button fires an action event when clicked.
type Button struct {
	base
	label     string
	command   string
	listeners []ActionListener
}

// NewButton returns a button showing label.
func NewButton(label string) *Button {
	b := &Button{label: label}
	b.self = b
	return b
}

func (b *Button) Kind() Kind { return KindButton }

// Label returns the button text.
func (b *Button) Label() string { return b.label }

// SetActionCommand overrides the command string carried by action events. By
// default it is the label.
func (b *Button) SetActionCommand(cmd string) { b.command = cmd }

// AddActionListener registers l for clicks.
func (b *Button) AddActionListener(l ActionListener) {
	b.listeners = append(b.listeners, l)
}

// DoClick activates the button as a pointer click would, notifying every
// action listener once.
func (b *Button) DoClick() {
	cmd := b.command
	if cmd == "" {
		cmd = b.label
	}

	fireAction(b.listeners, ActionEvent{Source: b, Command: cmd, When: time.Now()})
}

func fireAction(listeners []ActionListener, e ActionEvent) {
	// Copy so a listener that registers another one does not see it fire.
	snapshot := make([]ActionListener, len(listeners))
	copy(snapshot, listeners)

	for _, l := range snapshot {
		l.ActionPerformed(e)
	}
}
