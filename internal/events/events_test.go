package events_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norgate-AV/tyburn/internal/events"
	"github.com/Norgate-AV/tyburn/internal/testutil"
	"github.com/Norgate-AV/tyburn/pkg/widget"
)

// The synthesizer only touches widget state, so these tests drive it on the
// test goroutine against windows that are never shown.

func newWindow() *widget.Window {
	return widget.NewWindow(widget.New(widget.Options{}), "main")
}

func TestApply_ActivateButton(t *testing.T) {
	w := newWindow()
	btn := widget.NewButton("Press Me!")
	w.ContentPane().Add(btn)

	rec := testutil.NewRecordingActionListener()
	btn.AddActionListener(rec)

	require.NoError(t, events.New(nil).Apply(context.Background(), btn, events.Activate()))
	assert.Equal(t, []string{"Press Me!"}, rec.Commands())
}

func TestApply_Unsupported(t *testing.T) {
	tests := []struct {
		name   string
		target widget.Component
		ev     events.Event
	}{
		{name: "activate text", target: widget.NewTextField(), ev: events.Activate()},
		{name: "activate panel", target: widget.NewPanel(), ev: events.Activate()},
		{name: "text on button", target: widget.NewButton("x"), ev: events.ReplaceText("y")},
		{name: "select on text", target: widget.NewTextField(), ev: events.SelectOrAppend("y")},
		{name: "missing item", target: widget.NewComboBox("a", "b"), ev: events.SelectOrAppend("c")},
		{name: "unknown kind", target: widget.NewButton("x"), ev: events.Event{Kind: events.Kind(99)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.target.SetName("target")
			err := events.New(nil).Apply(context.Background(), tt.target, tt.ev)

			var ue *events.UnsupportedOperationError
			require.ErrorAs(t, err, &ue)
			assert.Equal(t, "target", ue.Component)
			assert.Equal(t, tt.target.Kind(), ue.Kind)
		})
	}
}

func TestApply_ReplaceText(t *testing.T) {
	for _, c := range []widget.TextComponent{widget.NewTextField(), widget.NewTextArea()} {
		c.SetText("old")
		require.NoError(t, events.New(nil).Apply(context.Background(), c, events.ReplaceText("new")))
		assert.Equal(t, "new", c.Text())
	}
}

func TestApply_SelectNonEditable(t *testing.T) {
	combo := widget.NewComboBox("horse", "cow", "sheep")

	require.NoError(t, events.New(nil).Apply(context.Background(), combo, events.SelectOrAppend("sheep")))

	sel, _ := combo.SelectedItem()
	assert.Equal(t, "sheep", sel)
}

func TestApply_AppendEditable(t *testing.T) {
	w := newWindow()
	combo := widget.NewComboBox("horse", "cow")
	combo.SetEditable(true)
	w.ContentPane().Add(combo)

	keys := testutil.NewRecordingKeyListener()
	combo.Editor().AddKeyListener(keys)

	require.NoError(t, events.New(nil).Apply(context.Background(), combo, events.SelectOrAppend("llama")))

	sel, _ := combo.SelectedItem()
	assert.Contains(t, sel, "llama")
	assert.Same(t, combo.Editor(), w.FocusOwner())
	// five characters plus Enter, each pressed/typed/released
	assert.Len(t, keys.Records(), 18)
}

func TestApply_KeyCharSequence(t *testing.T) {
	tests := []struct {
		name string
		r    rune
		code widget.KeyCode
	}{
		{name: "letter", r: 'q', code: widget.KeyA + 16},
		{name: "space", r: ' ', code: widget.KeySpace},
		{name: "unmappable", r: '€', code: widget.KeyUndefined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pane := widget.NewPanel()
			keys := testutil.NewRecordingKeyListener()
			pane.AddKeyListener(keys)

			require.NoError(t, events.New(nil).Apply(context.Background(), pane, events.KeyChar(tt.r)))

			assert.Equal(t, []testutil.KeyRecord{
				{ID: widget.KeyPressed, Code: tt.code, Char: tt.r},
				{ID: widget.KeyTyped, Code: widget.KeyUndefined, Char: tt.r},
				{ID: widget.KeyReleased, Code: tt.code, Char: tt.r},
			}, keys.Records())
		})
	}
}

func TestApply_KeyCodeSequence(t *testing.T) {
	pane := widget.NewPanel()
	keys := testutil.NewRecordingKeyListener()
	pane.AddKeyListener(keys)
	s := events.New(nil)

	require.NoError(t, s.Apply(context.Background(), pane, events.KeyCode(widget.KeyF1)))
	assert.Equal(t, []testutil.KeyRecord{
		{ID: widget.KeyPressed, Code: widget.KeyF1, Char: widget.CharUndefined},
		{ID: widget.KeyReleased, Code: widget.KeyF1, Char: widget.CharUndefined},
	}, keys.Records())
}

func TestApply_KeyBindingAndListenersBothFire(t *testing.T) {
	w := newWindow()
	pane := w.ContentPane()

	action := testutil.NewMockAction()
	pane.InputMap().Put(widget.KeyStrokeForChar(' '), "space")
	pane.ActionMap().Put("space", action)

	keys := testutil.NewRecordingKeyListener()
	pane.AddKeyListener(keys)

	require.NoError(t, events.New(nil).Apply(context.Background(), pane, events.KeyChar(' ')))

	assert.Equal(t, 1, action.Calls())
	assert.Len(t, keys.Records(), 3)
}

func TestApply_DisabledBindingNotInvoked(t *testing.T) {
	w := newWindow()
	pane := w.ContentPane()

	action := testutil.NewMockAction().WithEnabled(false)
	pane.InputMap().Put(widget.KeyStrokeForCode(widget.KeySpace, false), "space")
	pane.ActionMap().Put("space", action)

	require.NoError(t, events.New(nil).Apply(context.Background(), pane, events.KeyCode(widget.KeySpace)))
	assert.Zero(t, action.Calls())
}

func TestApply_TextFieldKeepsCharactersBoundOnAncestor(t *testing.T) {
	w := newWindow()
	field := widget.NewTextField()
	w.ContentPane().Add(field)

	action := testutil.NewMockAction()
	w.ContentPane().InputMap().Put(widget.KeyStrokeForChar('x'), "on-x")
	w.ContentPane().ActionMap().Put("on-x", action)

	s := events.New(nil)
	require.NoError(t, s.Apply(context.Background(), field, events.KeyChar('x')))
	require.NoError(t, s.Apply(context.Background(), field, events.KeyChar('y')))

	assert.Equal(t, "xy", field.Text())
	assert.Zero(t, action.Calls())
}

func TestApply_OwnBindingBeatsDefaultHandling(t *testing.T) {
	field := widget.NewTextField()

	action := testutil.NewMockAction()
	field.InputMap().Put(widget.KeyStrokeForChar('x'), "eat-x")
	field.ActionMap().Put("eat-x", action)

	s := events.New(nil)
	require.NoError(t, s.Apply(context.Background(), field, events.KeyChar('x')))
	require.NoError(t, s.Apply(context.Background(), field, events.KeyChar('y')))

	assert.Equal(t, "y", field.Text())
	assert.Equal(t, 1, action.Calls())
}

func TestApply_UnhandledKeyReachesAncestorBinding(t *testing.T) {
	w := newWindow()
	form := widget.NewPanel()
	field := widget.NewTextField()
	form.Add(field)
	w.ContentPane().Add(form)

	near := testutil.NewMockAction()
	far := testutil.NewMockAction()
	form.InputMap().Put(widget.KeyStrokeForCode(widget.KeyF1, false), "help")
	form.ActionMap().Put("help", near)
	w.ContentPane().InputMap().Put(widget.KeyStrokeForCode(widget.KeyF1, false), "help")
	w.ContentPane().ActionMap().Put("help", far)

	require.NoError(t, events.New(nil).Apply(context.Background(), field, events.KeyCode(widget.KeyF1)))

	assert.Equal(t, 1, near.Calls())
	assert.Zero(t, far.Calls())
}

func TestApply_DisabledAncestorBindingFallsThrough(t *testing.T) {
	w := newWindow()
	form := widget.NewPanel()
	field := widget.NewTextField()
	form.Add(field)
	w.ContentPane().Add(form)

	disabled := testutil.NewMockAction().WithEnabled(false)
	enabled := testutil.NewMockAction()
	form.InputMap().Put(widget.KeyStrokeForCode(widget.KeyF1, false), "help")
	form.ActionMap().Put("help", disabled)
	w.ContentPane().InputMap().Put(widget.KeyStrokeForCode(widget.KeyF1, false), "help")
	w.ContentPane().ActionMap().Put("help", enabled)

	require.NoError(t, events.New(nil).Apply(context.Background(), field, events.KeyCode(widget.KeyF1)))

	assert.Zero(t, disabled.Calls())
	assert.Equal(t, 1, enabled.Calls())
}

func TestApply_AppendEditableIgnoresPaneBindings(t *testing.T) {
	w := newWindow()
	combo := widget.NewComboBox("tea")
	combo.SetEditable(true)
	w.ContentPane().Add(combo)

	space := testutil.NewMockAction()
	w.ContentPane().InputMap().Put(widget.KeyStrokeForChar(' '), "count-space")
	w.ContentPane().ActionMap().Put("count-space", space)

	require.NoError(t, events.New(nil).Apply(context.Background(), combo, events.SelectOrAppend("flat white")))

	assert.Contains(t, combo.Editor().Text(), "flat white")
	sel, _ := combo.SelectedItem()
	assert.Contains(t, sel, "flat white")
	assert.Zero(t, space.Calls())
}

func TestApply_ConsumedEventSkipsDefaultHandling(t *testing.T) {
	field := widget.NewTextField()
	field.AddKeyListener(widget.KeyAdapter{OnTyped: func(e *widget.KeyEvent) {
		if e.Char == '!' {
			e.Consume()
		}
	}})

	s := events.New(nil)
	require.NoError(t, s.Apply(context.Background(), field, events.KeyChar('!')))
	require.NoError(t, s.Apply(context.Background(), field, events.KeyChar('?')))

	assert.Equal(t, "?", field.Text())
}

func TestFocusTarget(t *testing.T) {
	tk := testutil.NewStartedToolkit(t)
	w := testutil.ShowWindow(t, tk, "main", func(w *widget.Window) {
		field := widget.NewTextField()
		field.SetName("field")
		w.ContentPane().Add(field)
	})

	testutil.OnUI(t, tk, func(context.Context) {
		assert.Same(t, w.ContentPane(), events.FocusTarget(w), "nothing focused")

		field := w.ContentPane().Children()[0]
		field.RequestFocus()
		assert.Same(t, field, events.FocusTarget(w))
		assert.Same(t, field, tk.FocusOwner())
	})
}

func TestForText(t *testing.T) {
	assert.Equal(t, events.KindSelectOrAppend, events.ForText(widget.NewComboBox(), "v").Kind)
	assert.Equal(t, events.KindReplaceText, events.ForText(widget.NewTextArea(), "v").Kind)
}
