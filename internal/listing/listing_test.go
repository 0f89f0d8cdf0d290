package listing_test

import (
	"testing"

	"github.com/thumbasm/thumbasm/internal/listing"
	"github.com/thumbasm/thumbasm/internal/tools"
)

func TestBuild_AnnotatesInstructionAddresses(t *testing.T) {
	l := listing.Build("loop:\nsub r0,#1\nbne loop")
	if l.AssembleErr != nil {
		t.Fatalf("unexpected assemble error: %v", l.AssembleErr)
	}
	if len(l.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(l.Rows))
	}
	if l.Rows[0].Source != "loop:" || len(l.Rows[0].Opcodes) != 0 {
		t.Errorf("label row should carry no opcodes, got %#v", l.Rows[0])
	}
	if l.Rows[1].Address != 0 || len(l.Rows[1].Opcodes) != 1 {
		t.Errorf("expected sub at address 0 with 1 opcode, got %#v", l.Rows[1])
	}
	if l.Rows[2].Address != 2 || len(l.Rows[2].Opcodes) != 1 {
		t.Errorf("expected bne at address 2 with 1 opcode, got %#v", l.Rows[2])
	}
}

func TestBuild_ForwardReferenceResolves(t *testing.T) {
	// The instruction referencing "target" appears before target's
	// definition; Build must still resolve it via the full two-pass run.
	l := listing.Build("b target\nnop\ntarget:\nnop")
	if l.AssembleErr != nil {
		t.Fatalf("unexpected assemble error: %v", l.AssembleErr)
	}
	if len(l.Rows[0].Opcodes) != 1 {
		t.Fatalf("expected the forward branch to assemble to one opcode, got %#v", l.Rows[0])
	}
}

func TestBuild_RecordsAssembleError(t *testing.T) {
	l := listing.Build("frobnicate r0")
	if l.AssembleErr == nil {
		t.Fatal("expected an assemble error for an unknown mnemonic")
	}
}

func TestBuild_RecordsLintDiagnostics(t *testing.T) {
	l := listing.Build("dead:\nnop")
	if len(l.Diagnostics) == 0 {
		t.Fatal("expected an unused-label diagnostic")
	}
}

func TestBuild_LabelTableMatchesXref(t *testing.T) {
	src := "loop:\nsub r0,#1\nbne loop\nb done\ndone:\nnop"
	l := listing.Build(src)
	symbols := tools.Generate(src)

	if len(l.Labels) != len(symbols) {
		t.Fatalf("expected %d label rows, got %d: %#v", len(symbols), len(l.Labels), l.Labels)
	}
	for i, sym := range symbols {
		row := l.Labels[i]
		if row.Name != sym.Name {
			t.Errorf("row %d: expected name %q, got %q", i, sym.Name, row.Name)
		}
		if row.RefCount != len(sym.References) {
			t.Errorf("label %q: expected %d references, got %d", sym.Name, len(sym.References), row.RefCount)
		}
	}

	// "loop" is defined before any instruction occupies space, so it
	// resolves to address 0; "done" follows the sub (2 bytes at 0x0), the
	// bne (2 bytes at 0x2) and "b done" (2 bytes at 0x4), landing at 0x6.
	want := map[string]uint32{"loop": 0, "done": 6}
	for _, row := range l.Labels {
		if addr, ok := want[row.Name]; ok && row.Address != addr {
			t.Errorf("label %q: expected address %#x, got %#x", row.Name, addr, row.Address)
		}
	}
}
