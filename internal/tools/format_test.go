package tools_test

import (
	"strings"
	"testing"

	"github.com/thumbasm/thumbasm/internal/tools"
)

func TestFormat_CompactJoinsOperandsWithSpaces(t *testing.T) {
	got := tools.Format("mov r0,#42", tools.CompactFormatOptions())
	if got != "mov r0, #42" {
		t.Errorf("got %q", got)
	}
}

func TestFormat_LabelLineUnindented(t *testing.T) {
	got := tools.Format("loop:", tools.DefaultFormatOptions())
	if strings.TrimRight(got, "\n") != "loop:" {
		t.Errorf("got %q", got)
	}
}

func TestFormat_PreservesBlankLines(t *testing.T) {
	got := tools.Format("mov r0,#1\n\nmov r1,#2", tools.DefaultFormatOptions())
	lines := strings.Split(got, "\n")
	if len(lines) != 3 || lines[1] != "" {
		t.Errorf("expected a preserved blank middle line, got %#v", lines)
	}
}

func TestFormat_UppercaseOption(t *testing.T) {
	opts := tools.DefaultFormatOptions()
	opts.Uppercase = true
	got := tools.Format("mov r0,#1", opts)
	if !strings.Contains(got, "MOV") {
		t.Errorf("expected uppercased mnemonic, got %q", got)
	}
}

func TestFormat_ToleratesUnassemblableSource(t *testing.T) {
	// Format must never fail even on source that would abort a real
	// assemble pass: it does not consult the instruction table at all.
	got := tools.Format("bogus r0,r1,r2,r3,r4", tools.DefaultFormatOptions())
	if !strings.Contains(got, "bogus") {
		t.Errorf("expected formatter to pass through unknown mnemonics, got %q", got)
	}
}
