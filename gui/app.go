// Package gui implements the desktop assemble workbench (C12): a window
// with a source entry, an Assemble button, and a read-only output pane
// showing the hex dump or the first fatal error. Grounded on the teacher's
// fyne.io/fyne/v2 debugger GUI (debugger/gui.go) rather than its separate
// Wails-based gui/ module: Wails ships a JS frontend bundle this repo has
// no use for, and fyne is already the pack's demonstrated pure-Go toolkit
// for a windowed view onto this assembler. There is no memory view, no
// register pane, and no execution controls here: there is no VM to step.
package gui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/thumbasm/thumbasm"
)

// App is the workbench's top-level state.
type App struct {
	FyneApp fyne.App
	Window  fyne.Window

	Source *widget.Entry
	Output *widget.Entry
	Status *widget.Label
}

// NewApp builds the workbench window, ready to show with Run.
func NewApp() *App {
	a := &App{FyneApp: app.New()}
	a.Window = a.FyneApp.NewWindow("thumbasm workbench")

	a.Source = widget.NewMultiLineEntry()
	a.Source.SetPlaceHolder("mov r0,#42\nbx lr")

	a.Output = widget.NewMultiLineEntry()
	a.Output.Disable()
	a.Output.SetText("(not yet assembled)")

	a.Status = widget.NewLabel("Ready")

	assembleBtn := widget.NewButton("Assemble", a.assemble)

	left := container.NewBorder(widget.NewLabel("Source"), nil, nil, nil, a.Source)
	right := container.NewBorder(widget.NewLabel("Output"), nil, nil, nil, container.NewScroll(a.Output))

	split := container.NewHSplit(left, right)
	split.SetOffset(0.5)

	content := container.NewBorder(assembleBtn, a.Status, nil, nil, split)
	a.Window.SetContent(content)
	a.Window.Resize(fyne.NewSize(900, 560))

	return a
}

// assemble runs the current source through thumbasm.Assemble and renders
// the hex dump, or the first fatal error, into the output pane.
func (a *App) assemble() {
	lines := strings.Split(a.Source.Text, "\n")
	halfwords, err := thumbasm.Assemble(lines)
	if err != nil {
		a.Output.SetText(fmt.Sprintf("error: %v", err))
		a.Status.SetText("Assemble failed")
		return
	}

	var sb strings.Builder
	for i, w := range halfwords {
		fmt.Fprintf(&sb, "%04X", w)
		if i%8 == 7 {
			sb.WriteByte('\n')
		} else {
			sb.WriteByte(' ')
		}
	}
	a.Output.SetText(sb.String())
	a.Status.SetText(fmt.Sprintf("Assembled %d half-word(s)", len(halfwords)))
}

// Run shows the window and blocks until it's closed.
func (a *App) Run() {
	a.Window.ShowAndRun()
}
