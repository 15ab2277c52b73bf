// Package demo builds a small sample application for the CLI to drive.
package demo

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/Norgate-AV/tyburn/pkg/widget"
)

// WindowName is the name of the demo window.
const WindowName = "demo.window"

// Component names.
const (
	NameField      = "name"
	AnimalCombo    = "animal"
	FavouriteCombo = "favourite"
	NotesArea      = "notes"
	SubmitButton   = "submit"
	StatusField    = "status"
)

// RefreshKey is bound on the content pane.
const RefreshKey = widget.KeyF1 + 4

// Scenario is the scenario the demo command runs.
//
//go:embed scenario.yaml
var Scenario []byte

// App is the demo window and its controls. Fields must only be touched on
// the UI thread.
type App struct {
	Window    *widget.Window
	Name      *widget.TextField
	Animal    *widget.ComboBox
	Favourite *widget.ComboBox
	Notes     *widget.TextArea
	Submit    *widget.Button
	Status    *widget.TextField

	refreshes int
}

// Build creates the demo window in tk without showing it. Call it on the UI
// thread, or before anything else can see the window.
func Build(tk *widget.Toolkit) *App {
	a := &App{Window: widget.NewWindow(tk, WindowName)}
	a.Window.SetDefaultCloseOperation(widget.DisposeOnClose)

	a.Name = widget.NewTextField()
	a.Name.SetName(NameField)

	a.Animal = widget.NewComboBox("horse", "cow", "sheep")
	a.Animal.SetName(AnimalCombo)

	a.Favourite = widget.NewComboBox("tea", "coffee")
	a.Favourite.SetName(FavouriteCombo)
	a.Favourite.SetEditable(true)
	a.Favourite.Editor().SetSelectAllOnFocus(true)

	a.Notes = widget.NewTextArea()
	a.Notes.SetName(NotesArea)

	a.Submit = widget.NewButton("Submit")
	a.Submit.SetName(SubmitButton)
	a.Submit.AddActionListener(widget.ActionListenerFunc(func(widget.ActionEvent) {
		a.Status.SetText(a.summary())
	}))

	a.Status = widget.NewTextField()
	a.Status.SetName(StatusField)

	form := widget.NewPanel()
	form.SetName("form")
	form.Add(a.Name)
	form.Add(a.Animal)
	form.Add(a.Favourite)
	form.Add(a.Notes)

	pane := a.Window.ContentPane()
	pane.Add(form)
	pane.Add(a.Submit)
	pane.Add(a.Status)

	// F5 anywhere in the window counts refreshes. Text fields leave it
	// alone, so it reaches the pane from any focused control.
	pane.InputMap().Put(widget.KeyStrokeForCode(RefreshKey, false), "refresh")
	pane.ActionMap().Put("refresh", widget.NewAction(func(widget.ActionEvent) {
		a.refreshes++
		a.Status.SetText(fmt.Sprintf("refreshes: %d", a.refreshes))
	}))

	return a
}

// Show builds the demo window and makes it visible.
func Show(tk *widget.Toolkit) (*App, error) {
	built := make(chan *App, 1)
	if err := tk.InvokeLater(func(context.Context) {
		built <- Build(tk)
	}); err != nil {
		return nil, fmt.Errorf("failed to build demo window: %w", err)
	}

	a := <-built
	if err := a.Window.SetVisible(true); err != nil {
		return nil, fmt.Errorf("failed to show demo window: %w", err)
	}

	return a, nil
}

func (a *App) summary() string {
	animal, _ := a.Animal.SelectedItem()
	drink, _ := a.Favourite.SelectedItem()

	name := strings.TrimSpace(a.Name.Text())
	if name == "" {
		name = "stranger"
	}

	return fmt.Sprintf("Hello, %s: %s and %s", name, animal, drink)
}
