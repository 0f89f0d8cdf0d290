// Package labels implements the per-fragment label table used by both passes
// of the two-pass engine.
package labels

import (
	"fmt"

	"github.com/thumbasm/thumbasm/internal/asmerr"
)

// PC is the distinguished label-table key holding "address of current
// instruction + 4" during pass 2, per the ARM pipeline convention.
const PC = "PC"

// Table maps label names to their byte address within a fragment.
//
// A fresh Table is created per Assemble call; it is populated during pass 1
// and consumed read-only during pass 2 (except for the PC key, which the
// engine rewrites before encoding every instruction line).
type Table struct {
	addrs map[string]uint32
}

// New returns an empty label table.
func New() *Table {
	return &Table{addrs: make(map[string]uint32)}
}

// Define binds name to addr. Redefining an already-defined label is a
// LabelRedefinition error; the PC pseudo-label may never be defined by
// source text.
func (t *Table) Define(name string, addr uint32, pos asmerr.Position) error {
	if name == PC {
		return fmt.Errorf("%q is a reserved label name", PC)
	}
	if _, exists := t.addrs[name]; exists {
		return asmerr.New(pos, asmerr.LabelRedefinition, "label %q already defined", name)
	}
	t.addrs[name] = addr
	return nil
}

// SetPC sets the PC pseudo-label's value for the instruction currently being
// encoded in pass 2.
func (t *Table) SetPC(addr uint32) {
	t.addrs[PC] = addr
}

// Get looks up a label's address.
func (t *Table) Get(name string) (uint32, bool) {
	v, ok := t.addrs[name]
	return v, ok
}

// Names returns every defined label name except the PC pseudo-label, for use
// by the lint/xref tooling.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.addrs))
	for name := range t.addrs {
		if name == PC {
			continue
		}
		names = append(names, name)
	}
	return names
}
