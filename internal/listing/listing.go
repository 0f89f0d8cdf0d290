// Package listing implements a static text-mode listing viewer (C11): a
// read-only view of assembled source (address, opcode, source line) and
// its lint diagnostics on the left, and a label table (name, address,
// reference count) driven by internal/tools' xref pass on the right.
// Unlike the source this was adapted from, there is no live CPU to step:
// the listing is fixed the moment it is built.
package listing

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/thumbasm/thumbasm/internal/engine"
	"github.com/thumbasm/thumbasm/internal/tools"
)

// Row is one source line annotated with its assembled address and opcodes,
// when the line produced any.
type Row struct {
	LineNo  int
	Source  string
	Address uint32
	Opcodes []uint16
}

// LabelRow is one row of the label-table pane: a symbol's name, the address
// it resolves to, and how many places reference it.
type LabelRow struct {
	Name     string
	Address  uint32
	RefCount int
}

// Listing is the fully computed view model: assembled rows, lint
// diagnostics, and the label table, ready to render.
type Listing struct {
	Rows        []Row
	Diagnostics []*tools.LintIssue
	Labels      []LabelRow
	AssembleErr error
}

// Build assembles source, runs the linter over it, and cross-references its
// labels, producing the rows and label table a listing view renders. An
// assemble failure does not prevent a listing: every source line still gets
// a row, but no row carries an address or opcodes, and the error itself is
// recorded for display.
func Build(source string) *Listing {
	lines := strings.Split(source, "\n")
	l := &Listing{
		Diagnostics: tools.Lint(source, nil),
	}

	for i, raw := range lines {
		l.Rows = append(l.Rows, Row{LineNo: i + 1, Source: raw})
	}

	_, entries, err := engine.AssembleWithListing(lines, "")
	if err != nil {
		l.AssembleErr = err
	}
	for _, e := range entries {
		idx := e.Line - 1
		if idx >= 0 && idx < len(l.Rows) {
			l.Rows[idx].Address = e.Address
			l.Rows[idx].Opcodes = e.Opcodes
		}
	}

	for _, sym := range tools.Generate(source) {
		row := LabelRow{Name: sym.Name, RefCount: len(sym.References)}
		if sym.Definition != nil {
			row.Address = l.addressAt(sym.Definition.Line)
		}
		l.Labels = append(l.Labels, row)
	}

	return l
}

// addressAt resolves the byte address a label defined on lineNo binds to: a
// label doesn't itself occupy space, so it shares the address of the next
// instruction line. A label with no following instruction (the last thing
// in the fragment) resolves to the end of the assembled output.
func (l *Listing) addressAt(lineNo int) uint32 {
	for i := lineNo - 1; i < len(l.Rows); i++ {
		if len(l.Rows[i].Opcodes) > 0 {
			return l.Rows[i].Address
		}
	}
	var end uint32
	for _, row := range l.Rows {
		if len(row.Opcodes) > 0 {
			end = row.Address + uint32(2*len(row.Opcodes))
		}
	}
	return end
}

// View wraps the tview/tcell components making up the interactive listing
// viewer: a left pane stacking the assembled listing over its diagnostics,
// and a right pane holding the label table.
type View struct {
	App        *tview.Application
	SourceView *tview.TextView
	LintView   *tview.TextView
	LabelView  *tview.TextView
	Listing    *Listing
}

// NewView builds a ready-to-run viewer over an already computed Listing.
func NewView(l *Listing) *View {
	v := &View{Listing: l, App: tview.NewApplication()}

	v.SourceView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	v.SourceView.SetBorder(true).SetTitle(" Listing ")

	v.LintView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	v.LintView.SetBorder(true).SetTitle(" Diagnostics ")

	v.LabelView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	v.LabelView.SetBorder(true).SetTitle(" Labels ")

	v.render()

	left := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.SourceView, 0, 3, false).
		AddItem(v.LintView, 0, 1, false)

	layout := tview.NewFlex().
		AddItem(left, 0, 3, false).
		AddItem(v.LabelView, 0, 1, false)

	v.App.SetRoot(layout, true)
	v.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC || event.Rune() == 'q' {
			v.App.Stop()
			return nil
		}
		return event
	})

	return v
}

// render fills SourceView, LintView, and LabelView from the Listing.
func (v *View) render() {
	var sb strings.Builder
	for _, row := range v.Listing.Rows {
		if len(row.Opcodes) > 0 {
			hexWords := make([]string, len(row.Opcodes))
			for i, w := range row.Opcodes {
				hexWords[i] = fmt.Sprintf("%04X", w)
			}
			fmt.Fprintf(&sb, "%4d  %08X  %-14s  %s\n", row.LineNo, row.Address, strings.Join(hexWords, " "), row.Source)
		} else {
			fmt.Fprintf(&sb, "%4d  %8s  %-14s  %s\n", row.LineNo, "", "", row.Source)
		}
	}
	v.SourceView.SetText(sb.String())

	var lb strings.Builder
	if len(v.Listing.Diagnostics) == 0 {
		lb.WriteString("[green]no diagnostics[white]\n")
	}
	for _, d := range v.Listing.Diagnostics {
		color := "yellow"
		if d.Level == tools.LintError {
			color = "red"
		}
		fmt.Fprintf(&lb, "[%s]%s[white]\n", color, d.String())
	}
	if v.Listing.AssembleErr != nil {
		fmt.Fprintf(&lb, "[red]assemble: %v[white]\n", v.Listing.AssembleErr)
	}
	v.LintView.SetText(lb.String())

	var xb strings.Builder
	fmt.Fprintf(&xb, "%-16s %8s  %s\n", "NAME", "ADDRESS", "REFS")
	for _, row := range v.Listing.Labels {
		fmt.Fprintf(&xb, "%-16s %08X  %d\n", row.Name, row.Address, row.RefCount)
	}
	v.LabelView.SetText(xb.String())
}

// Run starts the interactive viewer. It blocks until the user quits.
func (v *View) Run() error {
	return v.App.SetFocus(v.SourceView).Run()
}
