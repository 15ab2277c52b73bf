package widget

import (
	"slices"
	"time"
)

// ComboBox offers a list of items. A non-editable combo box only selects
// items from its list; an editable one also accepts free text through its
// embedded editor, committed when Enter is pressed in the editor.
type ComboBox struct {
	base
	items     []string
	selected  string
	hasSel    bool
	editable  bool
	editor    *TextField
	listeners []ActionListener
}

// NewComboBox returns a non-editable combo box holding items, with the first
// item selected.
func NewComboBox(items ...string) *ComboBox {
	c := &ComboBox{items: slices.Clone(items)}
	c.self = c

	c.editor = NewTextField()
	c.editor.SetName("ComboBox.textField")
	c.editor.setParent(c)
	c.editor.AddActionListener(ActionListenerFunc(func(ActionEvent) {
		if c.editable {
			c.SetSelectedItem(c.editor.Text())
		}
	}))

	if len(items) > 0 {
		c.SetSelectedItem(items[0])
	}

	return c
}

func (c *ComboBox) Kind() Kind { return KindChoice }

// Items returns the list entries.
func (c *ComboBox) Items() []string { return slices.Clone(c.items) }

// AddItem appends item to the list.
func (c *ComboBox) AddItem(item string) { c.items = append(c.items, item) }

// IndexOf returns the position of item in the list, or -1.
func (c *ComboBox) IndexOf(item string) int { return slices.Index(c.items, item) }

// Editable reports whether free text is accepted.
func (c *ComboBox) Editable() bool { return c.editable }

// SetEditable switches free text entry on or off.
func (c *ComboBox) SetEditable(editable bool) {
	c.editable = editable
	if editable && c.hasSel {
		c.editor.SetText(c.selected)
	}
}

// Editor returns the text field used for free text entry.
func (c *ComboBox) Editor() *TextField { return c.editor }

// SelectedItem returns the current selection.
func (c *ComboBox) SelectedItem() (string, bool) { return c.selected, c.hasSel }

// SetSelectedItem selects item. A non-editable combo box ignores items that
// are not in its list. Action listeners are notified when the selection
// changes.
func (c *ComboBox) SetSelectedItem(item string) {
	if !c.editable && c.IndexOf(item) < 0 {
		return
	}

	changed := !c.hasSel || c.selected != item
	c.selected = item
	c.hasSel = true

	if c.editor.Text() != item {
		c.editor.SetText(item)
	}

	if changed {
		fireAction(c.listeners, ActionEvent{Source: c, Command: "comboBoxChanged", When: time.Now()})
	}
}

// AddActionListener registers l for selection changes.
func (c *ComboBox) AddActionListener(l ActionListener) {
	c.listeners = append(c.listeners, l)
}
