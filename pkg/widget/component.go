package widget

import "time"

// Kind classifies a component for event synthesis.
type Kind int

const (
	KindGeneric Kind = iota
	KindContainer
	KindButton
	KindText
	KindChoice
)

func (k Kind) String() string {
	switch k {
	case KindContainer:
		return "container"
	case KindButton:
		return "button"
	case KindText:
		return "text"
	case KindChoice:
		return "choice"
	default:
		return "generic"
	}
}

// Component is any widget that can live in a window's tree. Methods other
// than Name, Kind and IsShowing must only be called on the UI thread.
type Component interface {
	Name() string
	SetName(name string)
	Kind() Kind
	Parent() Component
	IsShowing() bool

	AddKeyListener(l KeyListener)
	KeyListeners() []KeyListener
	InputMap() *InputMap
	ActionMap() *ActionMap

	// FireKeyEvent notifies the registered key listeners of e.
	FireKeyEvent(e *KeyEvent)

	// HandleKeyDefault applies the component's own response to e, such as
	// inserting a typed character into a text field, and consumes e when it
	// did something.
	HandleKeyDefault(e *KeyEvent)

	// RequestFocus makes the component the focus owner of its window.
	RequestFocus()

	setParent(p Component)
	focusGained()
	focusLost()
}

// Container is a component with ordered children.
type Container interface {
	Component
	Children() []Component
}

// base carries the state shared by every component. Concrete widgets embed it
// and set self so events and focus refer to the outer value.
type base struct {
	self         Component
	name         string
	parent       Component
	keyListeners []KeyListener
	inputMap     InputMap
	actionMap    ActionMap
}

func (b *base) Name() string { return b.name }

func (b *base) SetName(name string) { b.name = name }

func (b *base) Parent() Component { return b.parent }

func (b *base) setParent(p Component) { b.parent = p }

func (b *base) IsShowing() bool {
	if b.parent == nil {
		return false
	}

	return b.parent.IsShowing()
}

func (b *base) AddKeyListener(l KeyListener) {
	b.keyListeners = append(b.keyListeners, l)
}

func (b *base) KeyListeners() []KeyListener {
	out := make([]KeyListener, len(b.keyListeners))
	copy(out, b.keyListeners)
	return out
}

func (b *base) InputMap() *InputMap { return &b.inputMap }

func (b *base) ActionMap() *ActionMap { return &b.actionMap }

func (b *base) FireKeyEvent(e *KeyEvent) {
	if e.Source == nil {
		e.Source = b.self
	}

	if e.When.IsZero() {
		e.When = time.Now()
	}

	for _, l := range b.keyListeners {
		switch e.ID {
		case KeyPressed:
			l.KeyPressed(e)
		case KeyTyped:
			l.KeyTyped(e)
		case KeyReleased:
			l.KeyReleased(e)
		}
	}
}

func (b *base) HandleKeyDefault(*KeyEvent) {}

func (b *base) RequestFocus() {
	if w := WindowOf(b.self); w != nil {
		w.setFocusOwner(b.self)
	}
}

func (b *base) focusGained() {}

func (b *base) focusLost() {}

// WindowOf returns the top-level window containing c, or nil.
func WindowOf(c Component) *Window {
	for cur := c; cur != nil; cur = cur.Parent() {
		if w, ok := cur.(*Window); ok {
			return w
		}
	}

	return nil
}

// Panel is a generic container.
type Panel struct {
	base
	children []Component
}

// NewPanel returns an empty panel.
func NewPanel() *Panel {
	p := &Panel{}
	p.self = p
	return p
}

func (p *Panel) Kind() Kind { return KindContainer }

// Add appends c to the panel's children, detaching it from any previous
// container.
func (p *Panel) Add(c Component) {
	if old, ok := c.Parent().(*Panel); ok && old != nil {
		old.Remove(c)
	}

	c.setParent(p)
	p.children = append(p.children, c)
}

// Remove detaches c from the panel.
func (p *Panel) Remove(c Component) {
	for i, child := range p.children {
		if child == c {
			p.children = append(p.children[:i], p.children[i+1:]...)
			c.setParent(nil)
			return
		}
	}
}

// Children returns the panel's children in insertion order.
func (p *Panel) Children() []Component {
	out := make([]Component, len(p.children))
	copy(out, p.children)
	return out
}
