package engine_test

import (
	"reflect"
	"testing"

	"github.com/thumbasm/thumbasm/internal/asmerr"
	"github.com/thumbasm/thumbasm/internal/engine"
)

func TestAssemble_LabelRedefinitionFails(t *testing.T) {
	_, err := engine.Assemble([]string{
		"loop:",
		"nop",
		"loop:",
		"nop",
	}, "test.s")
	if err == nil {
		t.Fatal("expected a label redefinition error")
	}
	aerr, ok := err.(*asmerr.Error)
	if !ok {
		t.Fatalf("expected *asmerr.Error, got %T", err)
	}
	if aerr.Kind != asmerr.LabelRedefinition {
		t.Errorf("expected LabelRedefinition, got %v", aerr.Kind)
	}
}

func TestAssemble_UnknownMnemonicReportsLine(t *testing.T) {
	_, err := engine.Assemble([]string{
		"nop",
		"frobnicate r0",
	}, "test.s")
	aerr, ok := err.(*asmerr.Error)
	if !ok {
		t.Fatalf("expected *asmerr.Error, got %T", err)
	}
	if aerr.Kind != asmerr.UnknownMnemonic {
		t.Errorf("expected UnknownMnemonic, got %v", aerr.Kind)
	}
	if aerr.Pos.Line != 2 {
		t.Errorf("expected error on line 2, got %d", aerr.Pos.Line)
	}
	if aerr.Pos.Filename != "test.s" {
		t.Errorf("expected filename test.s, got %q", aerr.Pos.Filename)
	}
}

func TestAssemble_NoMatchingVariantFails(t *testing.T) {
	_, err := engine.Assemble([]string{"mov r0,r1,r2"}, "")
	aerr, ok := err.(*asmerr.Error)
	if !ok {
		t.Fatalf("expected *asmerr.Error, got %T", err)
	}
	if aerr.Kind != asmerr.NoMatchingVariant {
		t.Errorf("expected NoMatchingVariant, got %v", aerr.Kind)
	}
}

func TestAssemble_BlankAndLabelLinesEmitNothing(t *testing.T) {
	got, err := engine.Assemble([]string{
		"",
		"   ",
		"start:",
		"nop",
	}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []uint16{0x46C0, 0x0000}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestAssemble_Pass1And2SelectSameVariant(t *testing.T) {
	// lsl has two variants (3-operand immediate-shift and 2-operand
	// register-shift); if pass 1 and pass 2 ever disagreed on which one
	// matched, the fixed label addresses from pass 1 would desync from the
	// instruction widths pass 2 actually emits. A mismatch here would show
	// up as a wrong displacement in the branch below.
	got, err := engine.Assemble([]string{
		"lsl r0,r1,#2",
		"lsl r0,r1",
		"target:",
		"b target",
	}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 half-words, got %d: %#v", len(got), got)
	}
	// b target: target is the branch's own address (4, after the two 2-byte
	// lsl instructions), PC = branch_addr+4 == 8, so the displacement is -4
	// and the third half-word is the self-referential branch 0xE7FE; the
	// fourth is the odd-length padding.
	if got[2] != 0xE7FE {
		t.Errorf("expected self-referential branch opcode 0xE7FE, got %#x", got[2])
	}
}
