package convert_test

import (
	"strconv"
	"testing"

	"github.com/thumbasm/thumbasm/internal/asmerr"
	"github.com/thumbasm/thumbasm/internal/convert"
	"github.com/thumbasm/thumbasm/internal/labels"
)

var nopos = asmerr.Position{Line: 1}

func TestReg(t *testing.T) {
	v, err := convert.Convert(convert.Converter{Kind: convert.Reg, Off: 3}, "r5", nil, nopos)
	if err != nil {
		t.Fatal(err)
	}
	if v != 5<<3 {
		t.Errorf("got %#x, want %#x", v, 5<<3)
	}
	if _, err := convert.Convert(convert.Converter{Kind: convert.Reg}, "r8", nil, nopos); err == nil {
		t.Fatal("expected error for r8 under Reg (low-register only)")
	}
}

func TestReg4(t *testing.T) {
	for _, tc := range []struct {
		text string
		want uint32
	}{{"r0", 0}, {"r15", 15}, {"pc", 15}, {"lr", 14}, {"r9", 9}} {
		v, err := convert.Convert(convert.Converter{Kind: convert.Reg4}, tc.text, nil, nopos)
		if err != nil {
			t.Fatalf("%s: %v", tc.text, err)
		}
		if v != tc.want {
			t.Errorf("%s: got %d, want %d", tc.text, v, tc.want)
		}
	}
}

func TestRegOrImmediate(t *testing.T) {
	c := convert.Converter{Kind: convert.RegOrImm, Off: 0, ImmBit: 9}
	v, err := convert.Convert(c, "#3", nil, nopos)
	if err != nil {
		t.Fatal(err)
	}
	if v != (3 | (1 << 9)) {
		t.Errorf("got %#x", v)
	}
	v, err = convert.Convert(c, "r2", nil, nopos)
	if err != nil {
		t.Fatal(err)
	}
	if v != 2 {
		t.Errorf("got %#x, want 2", v)
	}
	if _, err := convert.Convert(c, "#8", nil, nopos); err == nil {
		t.Fatal("expected error for out-of-range immediate")
	}
}

func TestRList(t *testing.T) {
	v, err := convert.Convert(convert.Converter{Kind: convert.RList}, "r0,r1,lr", nil, nopos)
	if err != nil {
		t.Fatal(err)
	}
	if v != (1 | 2 | 256) {
		t.Errorf("got %#x", v)
	}
}

func TestUint_RoundTrip(t *testing.T) {
	c := convert.Converter{Kind: convert.Uint, Off: 6, Bits: 5, Shift: 2}
	for val := uint32(0); val <= 31; val++ {
		text := "#" + strconv.FormatInt(int64(val)<<2, 10)
		v, err := convert.Convert(c, text, nil, nopos)
		if err != nil {
			t.Fatalf("val %d: %v", val, err)
		}
		got := (v >> 6) & 0x1F
		if got != val {
			t.Errorf("val %d: got field %d", val, got)
		}
	}
}

func TestSint_NegativeRoundTrip(t *testing.T) {
	c := convert.Converter{Kind: convert.Sint, Off: 0, Bits: 8, Shift: 1}
	v, err := convert.Convert(c, "#-6", nil, nopos)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0xFD {
		t.Fatalf("got %#x, want 0xFD", v)
	}
}

func TestSint_OutOfRange(t *testing.T) {
	c := convert.Converter{Kind: convert.Sint, Off: 0, Bits: 8, Shift: 1}
	if _, err := convert.Convert(c, "#256", nil, nopos); err == nil {
		t.Fatal("expected ImmediateOutOfRange")
	}
}

func TestUint_Alignment(t *testing.T) {
	c := convert.Converter{Kind: convert.Uint, Off: 0, Bits: 5, Shift: 2}
	if _, err := convert.Convert(c, "#3", nil, nopos); err == nil {
		t.Fatal("expected ImmediateAlignment error for unaligned value")
	}
}

func TestSint_LabelPCRelative(t *testing.T) {
	tbl := labels.New()
	_ = tbl.Define("loop", 0, nopos)
	tbl.SetPC(6)
	c := convert.Converter{Kind: convert.Sint, Off: 0, Bits: 8, Shift: 1}
	v, err := convert.Convert(c, "loop", tbl, nopos)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0xFD {
		t.Fatalf("got %#x, want 0xFD", v)
	}
}

func TestUint_LabelPlusOffset(t *testing.T) {
	tbl := labels.New()
	_ = tbl.Define("target", 10, nopos)
	tbl.SetPC(4)
	c := convert.Converter{Kind: convert.Uint, Off: 0, Bits: 8, Shift: 0}
	v, err := convert.Convert(c, "target+2", tbl, nopos)
	if err != nil {
		t.Fatal(err)
	}
	if v != 8 { // 10+2-4
		t.Fatalf("got %d, want 8", v)
	}
}

func TestUint_UnknownLabel(t *testing.T) {
	tbl := labels.New()
	tbl.SetPC(0)
	c := convert.Converter{Kind: convert.Uint, Off: 0, Bits: 8, Shift: 0}
	if _, err := convert.Convert(c, "missing", tbl, nopos); err == nil {
		t.Fatal("expected UnknownLabel error")
	}
}

func TestThumbT3Imm(t *testing.T) {
	v, err := convert.Convert(convert.Converter{Kind: convert.ThumbT3Imm}, "#0x1234", nil, nopos)
	if err != nil {
		t.Fatal(err)
	}
	// imm4=1, i=0, imm3=2, imm8=0x34
	want := uint32(1<<16) | uint32(2<<12) | 0x34
	if v != want {
		t.Fatalf("got %#x, want %#x", v, want)
	}
}

func TestBlAddr(t *testing.T) {
	tbl := labels.New()
	_ = tbl.Define("target", 6, nopos)
	tbl.SetPC(4)
	v, err := convert.Convert(convert.Converter{Kind: convert.BlAddr}, "target", tbl, nopos)
	if err != nil {
		t.Fatal(err)
	}
	if v != 1 {
		t.Fatalf("got %#x, want 1", v)
	}
}

func TestWordLiteral(t *testing.T) {
	v, err := convert.Convert(convert.Converter{Kind: convert.WordLiteral}, "0x12345678", nil, nopos)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0x56781234 {
		t.Fatalf("got %#x, want 0x56781234", v)
	}
}
