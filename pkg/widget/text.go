package widget

import "time"

// TextComponent is implemented by widgets holding editable text.
type TextComponent interface {
	Component
	Text() string
	SetText(s string)
	ReplaceSelection(s string)
	SelectAll()
	Selection() (start, end int)
}

// textModel stores text as runes with a caret and a selection.
type textModel struct {
	text     []rune
	selStart int
	selEnd   int
}

func (m *textModel) Text() string { return string(m.text) }

// SetText replaces the content and leaves the caret at the end.
func (m *textModel) SetText(s string) {
	m.text = []rune(s)
	m.selStart = len(m.text)
	m.selEnd = len(m.text)
}

// ReplaceSelection replaces the selected range (or inserts at the caret).
func (m *textModel) ReplaceSelection(s string) {
	ins := []rune(s)
	out := make([]rune, 0, len(m.text)-(m.selEnd-m.selStart)+len(ins))
	out = append(out, m.text[:m.selStart]...)
	out = append(out, ins...)
	out = append(out, m.text[m.selEnd:]...)

	m.text = out
	m.selStart += len(ins)
	m.selEnd = m.selStart
}

func (m *textModel) SelectAll() {
	m.selStart = 0
	m.selEnd = len(m.text)
}

// Select sets the selection to [start, end), clamped to the content.
func (m *textModel) Select(start, end int) {
	start = max(0, min(start, len(m.text)))
	end = max(start, min(end, len(m.text)))
	m.selStart, m.selEnd = start, end
}

// SetCaret collapses the selection at pos.
func (m *textModel) SetCaret(pos int) { m.Select(pos, pos) }

func (m *textModel) Selection() (int, int) { return m.selStart, m.selEnd }

func (m *textModel) deleteBackward() {
	if m.selStart != m.selEnd {
		m.ReplaceSelection("")
		return
	}

	if m.selStart == 0 {
		return
	}

	m.selStart--
	m.ReplaceSelection("")
}

// typeKey applies the editing behaviour shared by single and multi line text.
func (m *textModel) typeKey(e *KeyEvent) bool {
	switch {
	case e.ID == KeyTyped && IsPrintable(e.Char):
		m.ReplaceSelection(string(e.Char))
		return true
	case e.ID == KeyPressed && e.Code == KeyBackSpace:
		m.deleteBackward()
		return true
	}

	return false
}

// TextField is a single line text input. Pressing Enter fires its action
// listeners.
type TextField struct {
	base
	textModel
	selectOnFocus bool
	listeners     []ActionListener
}

// NewTextField returns an empty text field.
func NewTextField() *TextField {
	f := &TextField{}
	f.self = f
	return f
}

func (f *TextField) Kind() Kind { return KindText }

// SetSelectAllOnFocus makes this field select its content on focus
// regardless of the toolkit default.
func (f *TextField) SetSelectAllOnFocus(on bool) { f.selectOnFocus = on }

// AddActionListener registers l for Enter presses.
func (f *TextField) AddActionListener(l ActionListener) {
	f.listeners = append(f.listeners, l)
}

func (f *TextField) HandleKeyDefault(e *KeyEvent) {
	if f.typeKey(e) {
		e.Consume()
		return
	}

	if e.ID == KeyPressed && e.Code == KeyEnter {
		e.Consume()
		fireAction(f.listeners, ActionEvent{Source: f, Command: f.Text(), When: time.Now()})
	}
}

func (f *TextField) focusGained() {
	if f.selectOnFocus {
		f.SelectAll()
		return
	}

	if w := WindowOf(f); w != nil && w.tk != nil && w.tk.opts.SelectAllOnFocus {
		f.SelectAll()
	}
}

// TextArea is a multi line text input. Enter inserts a newline.
type TextArea struct {
	base
	textModel
}

// NewTextArea returns an empty text area.
func NewTextArea() *TextArea {
	a := &TextArea{}
	a.self = a
	return a
}

func (a *TextArea) Kind() Kind { return KindText }

func (a *TextArea) HandleKeyDefault(e *KeyEvent) {
	if e.ID == KeyTyped && e.Char == '\n' {
		a.ReplaceSelection("\n")
		e.Consume()
		return
	}

	if e.ID == KeyPressed && e.Code == KeyEnter {
		e.Consume()
		return
	}

	if a.typeKey(e) {
		e.Consume()
	}
}
