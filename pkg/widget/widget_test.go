package widget_test

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norgate-AV/tyburn/pkg/widget"
)

func startToolkit(t *testing.T, opts widget.Options) *widget.Toolkit {
	t.Helper()

	tk := widget.New(opts)
	tk.Start()
	t.Cleanup(tk.Stop)

	return tk
}

// onUI runs fn on the UI thread and waits for it.
func onUI(t *testing.T, tk *widget.Toolkit, fn func(ctx context.Context)) {
	t.Helper()

	done := make(chan struct{})
	require.NoError(t, tk.InvokeLater(func(ctx context.Context) {
		defer close(done)
		fn(ctx)
	}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("UI task did not run")
	}
}

func TestToolkit_InvokeLaterRunsInOrderOnDispatchContext(t *testing.T) {
	tk := startToolkit(t, widget.Options{})

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		require.NoError(t, tk.InvokeLater(func(ctx context.Context) {
			assert.True(t, tk.IsDispatchContext(ctx))
			order = append(order, i)
		}))
	}

	onUI(t, tk, func(context.Context) {})
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
	assert.False(t, tk.IsDispatchContext(context.Background()))
}

func TestToolkit_RecognisesUIThreadWithoutContext(t *testing.T) {
	if runtime.GOOS != "linux" && runtime.GOOS != "windows" {
		t.Skip("UI thread is identified by context only on " + runtime.GOOS)
	}

	tk := startToolkit(t, widget.Options{})
	b := widget.NewButton("ok")

	var inListener, inGoroutine bool
	b.AddActionListener(widget.ActionListenerFunc(func(widget.ActionEvent) {
		inListener = tk.IsDispatchContext(context.Background())

		done := make(chan struct{})
		go func() {
			defer close(done)
			inGoroutine = tk.IsDispatchThread()
		}()
		<-done
	}))

	onUI(t, tk, func(context.Context) { b.DoClick() })

	assert.True(t, inListener)
	assert.False(t, inGoroutine)
	assert.False(t, tk.IsDispatchThread())
}

func TestToolkit_StoppedRejectsWork(t *testing.T) {
	tk := widget.New(widget.Options{})
	assert.False(t, tk.Running())
	assert.ErrorIs(t, tk.InvokeLater(func(context.Context) {}), widget.ErrStopped)

	tk.Start()
	assert.True(t, tk.Running())
	tk.Stop()

	assert.False(t, tk.Running())
	assert.ErrorIs(t, tk.InvokeLater(func(context.Context) {}), widget.ErrStopped)
}

func TestToolkit_RecoversPanics(t *testing.T) {
	recovered := make(chan any, 1)
	tk := startToolkit(t, widget.Options{PanicHandler: func(r any) { recovered <- r }})

	require.NoError(t, tk.InvokeLater(func(context.Context) { panic("boom") }))
	onUI(t, tk, func(context.Context) {})

	assert.Equal(t, "boom", <-recovered)
}

func TestWindow_VisibilityLifecycle(t *testing.T) {
	tk := startToolkit(t, widget.Options{})
	w := widget.NewWindow(tk, "a.window")

	assert.False(t, w.IsShowing())

	require.NoError(t, w.SetVisible(true))
	onUI(t, tk, func(context.Context) {
		assert.Equal(t, []*widget.Window{w}, tk.Windows())
	})
	assert.True(t, w.IsShowing())

	require.NoError(t, w.SetVisible(false))
	onUI(t, tk, func(context.Context) {
		assert.Empty(t, tk.Windows())
	})

	require.NoError(t, w.SetVisible(true))
	require.NoError(t, w.Dispose())
	onUI(t, tk, func(context.Context) {
		assert.Empty(t, tk.Windows())
	})
	assert.True(t, w.IsDisposed())
	assert.False(t, w.IsShowing())
}

func TestWindow_PostClosingHonoursCloseOperation(t *testing.T) {
	tests := []struct {
		name         string
		op           widget.CloseOperation
		wantShowing  bool
		wantDisposed bool
	}{
		{name: "hide", op: widget.HideOnClose},
		{name: "dispose", op: widget.DisposeOnClose, wantDisposed: true},
		{name: "do nothing", op: widget.DoNothingOnClose, wantShowing: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := startToolkit(t, widget.Options{})
			w := widget.NewWindow(tk, "a.window")
			w.SetDefaultCloseOperation(tt.op)

			closing := 0
			w.OnClosing(func(*widget.Window) { closing++ })

			require.NoError(t, w.SetVisible(true))
			require.NoError(t, w.PostClosing())
			onUI(t, tk, func(context.Context) {})

			assert.Equal(t, 1, closing)
			assert.Equal(t, tt.wantShowing, w.IsShowing())
			assert.Equal(t, tt.wantDisposed, w.IsDisposed())
		})
	}
}

func TestComponent_ShowingFollowsWindow(t *testing.T) {
	tk := startToolkit(t, widget.Options{})
	w := widget.NewWindow(tk, "a.window")
	field := widget.NewTextField()
	w.ContentPane().Add(field)

	assert.Same(t, w, widget.WindowOf(field))
	assert.False(t, field.IsShowing())

	require.NoError(t, w.SetVisible(true))
	onUI(t, tk, func(context.Context) {
		assert.True(t, field.IsShowing())
	})
}

func TestPanel_AddMovesBetweenContainers(t *testing.T) {
	a, b := widget.NewPanel(), widget.NewPanel()
	btn := widget.NewButton("ok")

	a.Add(btn)
	b.Add(btn)

	assert.Empty(t, a.Children())
	assert.Equal(t, []widget.Component{btn}, b.Children())
	assert.Equal(t, widget.Component(b), btn.Parent())
}

func TestButton_DoClickNotifiesEachListenerOnce(t *testing.T) {
	btn := widget.NewButton("Press Me!")

	var got []widget.ActionEvent
	for n := 0; n < 2; n++ {
		btn.AddActionListener(widget.ActionListenerFunc(func(e widget.ActionEvent) {
			got = append(got, e)
		}))
	}

	btn.DoClick()

	require.Len(t, got, 2)
	assert.Equal(t, "Press Me!", got[0].Command)
	assert.Equal(t, widget.Component(btn), got[0].Source)
}

func TestTextField_Editing(t *testing.T) {
	f := widget.NewTextField()
	f.SetText("horse")

	f.HandleKeyDefault(&widget.KeyEvent{ID: widget.KeyTyped, Char: 'y', Code: widget.KeyUndefined})
	assert.Equal(t, "horsey", f.Text())

	f.HandleKeyDefault(&widget.KeyEvent{ID: widget.KeyPressed, Code: widget.KeyBackSpace, Char: '\b'})
	assert.Equal(t, "horse", f.Text())

	f.SelectAll()
	f.ReplaceSelection("cow")
	assert.Equal(t, "cow", f.Text())

	f.Select(0, 0)
	f.ReplaceSelection("moo ")
	assert.Equal(t, "moo cow", f.Text())

	// control characters are not inserted
	f.HandleKeyDefault(&widget.KeyEvent{ID: widget.KeyTyped, Char: '\n'})
	assert.Equal(t, "moo cow", f.Text())
}

func TestTextField_EnterFiresAction(t *testing.T) {
	f := widget.NewTextField()
	f.SetText("go")

	var cmd string
	f.AddActionListener(widget.ActionListenerFunc(func(e widget.ActionEvent) { cmd = e.Command }))
	f.HandleKeyDefault(&widget.KeyEvent{ID: widget.KeyPressed, Code: widget.KeyEnter, Char: '\n'})

	assert.Equal(t, "go", cmd)
}

func TestTextField_DefaultHandlingConsumes(t *testing.T) {
	tests := []struct {
		name     string
		ev       *widget.KeyEvent
		consumed bool
	}{
		{name: "typed letter", ev: &widget.KeyEvent{ID: widget.KeyTyped, Char: 'a'}, consumed: true},
		{name: "typed space", ev: &widget.KeyEvent{ID: widget.KeyTyped, Char: ' '}, consumed: true},
		{name: "backspace", ev: &widget.KeyEvent{ID: widget.KeyPressed, Code: widget.KeyBackSpace, Char: '\b'}, consumed: true},
		{name: "enter", ev: &widget.KeyEvent{ID: widget.KeyPressed, Code: widget.KeyEnter, Char: '\n'}, consumed: true},
		{name: "function key", ev: &widget.KeyEvent{ID: widget.KeyPressed, Code: widget.KeyF1, Char: widget.CharUndefined}},
		{name: "letter pressed", ev: &widget.KeyEvent{ID: widget.KeyPressed, Code: widget.KeyA, Char: 'a'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			widget.NewTextField().HandleKeyDefault(tt.ev)
			assert.Equal(t, tt.consumed, tt.ev.IsConsumed())
		})
	}
}

func TestTextArea_EnterInsertsNewline(t *testing.T) {
	a := widget.NewTextArea()
	a.SetText("one")
	a.HandleKeyDefault(&widget.KeyEvent{ID: widget.KeyTyped, Char: '\n'})
	a.HandleKeyDefault(&widget.KeyEvent{ID: widget.KeyTyped, Char: '2'})

	assert.Equal(t, "one\n2", a.Text())
}

func TestTextField_SelectAllOnFocus(t *testing.T) {
	tk := startToolkit(t, widget.Options{SelectAllOnFocus: true})
	w := widget.NewWindow(tk, "a.window")
	f := widget.NewTextField()
	f.SetText("horse")
	w.ContentPane().Add(f)

	onUI(t, tk, func(context.Context) {
		f.RequestFocus()
		start, end := f.Selection()
		assert.Equal(t, 0, start)
		assert.Equal(t, 5, end)
		assert.Equal(t, widget.Component(f), w.FocusOwner())
	})
}

func TestComboBox_Selection(t *testing.T) {
	c := widget.NewComboBox("horse", "cow", "sheep")

	sel, ok := c.SelectedItem()
	require.True(t, ok)
	assert.Equal(t, "horse", sel)

	changes := 0
	c.AddActionListener(widget.ActionListenerFunc(func(widget.ActionEvent) { changes++ }))

	c.SetSelectedItem("cow")
	c.SetSelectedItem("goat")
	sel, _ = c.SelectedItem()
	assert.Equal(t, "cow", sel)
	assert.Equal(t, 1, changes)

	c.SetEditable(true)
	c.SetSelectedItem("goat")
	sel, _ = c.SelectedItem()
	assert.Equal(t, "goat", sel)
	assert.Equal(t, "goat", c.Editor().Text())
}

func TestComboBox_EditorEnterCommits(t *testing.T) {
	c := widget.NewComboBox("horse", "cow")
	c.SetEditable(true)

	c.Editor().SetText("llama")
	c.Editor().HandleKeyDefault(&widget.KeyEvent{ID: widget.KeyPressed, Code: widget.KeyEnter, Char: '\n'})

	sel, _ := c.SelectedItem()
	assert.Equal(t, "llama", sel)
	assert.Equal(t, widget.Component(c), c.Editor().Parent())
}

func TestKeyCodeForRune(t *testing.T) {
	tests := []struct {
		r    rune
		code widget.KeyCode
		ok   bool
	}{
		{' ', widget.KeySpace, true},
		{'a', widget.KeyA, true},
		{'Z', widget.KeyZ, true},
		{'7', widget.Key0 + 7, true},
		{'\n', widget.KeyEnter, true},
		{'é', widget.KeyUndefined, false},
		{'€', widget.KeyUndefined, false},
	}

	for _, tt := range tests {
		code, ok := widget.KeyCodeForRune(tt.r)
		assert.Equal(t, tt.ok, ok, "rune %q", tt.r)
		assert.Equal(t, tt.code, code, "rune %q", tt.r)
	}
}

func TestRuneForKeyCode(t *testing.T) {
	assert.Equal(t, ' ', widget.RuneForKeyCode(widget.KeySpace))
	assert.Equal(t, 'q', widget.RuneForKeyCode(widget.KeyA+16))
	assert.Equal(t, widget.CharUndefined, widget.RuneForKeyCode(widget.KeyF1))
	assert.Equal(t, widget.CharUndefined, widget.RuneForKeyCode(widget.KeyLeft))
}

func TestBindingOn_OnlyLooksAtComponent(t *testing.T) {
	tk := widget.New(widget.Options{})
	w := widget.NewWindow(tk, "a.window")
	field := widget.NewTextField()
	w.ContentPane().Add(field)

	action := widget.NewAction(nil)
	w.ContentPane().InputMap().Put(widget.KeyStrokeForChar(' '), "space")
	w.ContentPane().ActionMap().Put("space", action)

	got, key, ok := widget.BindingOn(w.ContentPane(), widget.KeyStrokeForChar(' '))
	require.True(t, ok)
	assert.Equal(t, "space", key)
	assert.Same(t, action, got)

	_, _, ok = widget.BindingOn(field, widget.KeyStrokeForChar(' '))
	assert.False(t, ok, "ancestor bindings are not the field's own")

	_, _, ok = widget.BindingOn(w.ContentPane(), widget.KeyStrokeForCode(widget.KeySpace, false))
	assert.False(t, ok)

	w.ContentPane().InputMap().Put(widget.KeyStrokeForChar('x'), "missing")
	_, _, ok = widget.BindingOn(w.ContentPane(), widget.KeyStrokeForChar('x'))
	assert.False(t, ok, "input map entry without an action")
}

func TestKeyStrokeForEvent(t *testing.T) {
	typed := &widget.KeyEvent{ID: widget.KeyTyped, Char: 'x', Code: widget.KeyUndefined}
	pressed := &widget.KeyEvent{ID: widget.KeyPressed, Char: 'x', Code: widget.KeyA + 23}
	released := &widget.KeyEvent{ID: widget.KeyReleased, Char: 'x', Code: widget.KeyA + 23}

	assert.Equal(t, widget.KeyStrokeForChar('x'), widget.KeyStrokeForEvent(typed))
	assert.Equal(t, widget.KeyStrokeForCode(widget.KeyA+23, false), widget.KeyStrokeForEvent(pressed))
	assert.Equal(t, widget.KeyStrokeForCode(widget.KeyA+23, true), widget.KeyStrokeForEvent(released))
}
