// Package convert implements the argument converters that turn a textual
// operand fragment into the integer bit-pattern an encoding variant ORs into
// its base opcode.
//
// The source this was distilled from dispatched converters as first-class
// function values. Here each converter is a tagged Kind plus its static
// parameters (bit offset, width, shift, ...); Convert is a single exhaustive
// switch over Kind. This keeps the instruction table (internal/instable)
// entirely declarative: a Converter value, not a closure.
package convert

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/thumbasm/thumbasm/internal/asmerr"
	"github.com/thumbasm/thumbasm/internal/labels"
)

// Kind tags which converter a Converter value represents.
type Kind int

const (
	Reg           Kind = iota // low register r0..r7
	Reg4                      // any register r0..r15, lr, pc
	RegOrImm                  // low register, or a small immediate in 0..7
	RList                     // {r0,r1,...,lr} register list bitmask
	Uint                      // unsigned immediate/displacement field
	Sint                      // signed immediate/displacement field
	ThumbT3Imm                // Thumb-2 T3 16-bit immediate decomposition
	BlAddr                    // BL's split 22-bit PC-relative displacement
	WordLiteral               // .word operand, half-swapped
)

// Converter is one converter instance: its Kind plus whatever static
// parameters that Kind needs. Unused fields are simply zero for kinds that
// don't need them.
type Converter struct {
	Kind   Kind
	Off    int // destination bit offset within the opcode
	Bits   int // field width, for Uint/Sint
	Shift  int // low zero bits implied by alignment, for Uint/Sint
	ImmBit int // bit set when RegOrImm chose the immediate form
}

// rlistBit maps a register-list token to its bit value in the Thumb
// PUSH/POP {list} bitmask. Bit 8 is the template's "M"/"P" bit: PUSH reads it
// as LR, POP reads it as PC. Both aliases map here; the template's own fixed
// literal bits (not this converter) are what give the bit its correct
// meaning for the mnemonic actually used.
var rlistBit = map[string]uint32{
	"r0": 1 << 0, "r1": 1 << 1, "r2": 1 << 2, "r3": 1 << 3,
	"r4": 1 << 4, "r5": 1 << 5, "r6": 1 << 6, "r7": 1 << 7,
	"lr": 1 << 8, "pc": 1 << 8,
}

var reg4Value = map[string]uint32{
	"r0": 0, "r1": 1, "r2": 2, "r3": 3, "r4": 4, "r5": 5, "r6": 6, "r7": 7,
	"r8": 8, "r9": 9, "r10": 10, "r11": 11, "r12": 12, "r13": 13,
	"lr": 14, "pc": 15,
	"r14": 14, "r15": 15, "sp": 13,
}

// parseReg4 resolves any register name accepted by Reg4.
func parseReg4(text string) (uint32, bool) {
	v, ok := reg4Value[strings.ToLower(strings.TrimSpace(text))]
	return v, ok
}

// parseLowReg resolves a low register, r0..r7, rejecting r8 and above.
func parseLowReg(text string) (uint32, bool) {
	v, ok := parseReg4(text)
	if !ok || v > 7 {
		return 0, false
	}
	return v, true
}

// Convert runs c against text, returning the integer to OR into the opcode.
func Convert(c Converter, text string, tbl *labels.Table, pos asmerr.Position) (uint32, error) {
	switch c.Kind {
	case Reg:
		v, ok := parseLowReg(text)
		if !ok {
			return 0, asmerr.New(pos, asmerr.UnknownRegister, "unknown register: %s", text)
		}
		return v << uint(c.Off), nil

	case Reg4:
		v, ok := parseReg4(text)
		if !ok {
			return 0, asmerr.New(pos, asmerr.UnknownRegister, "unknown register: %s", text)
		}
		return v << uint(c.Off), nil

	case RegOrImm:
		text = strings.TrimSpace(text)
		if n, err := strconv.ParseInt(strings.TrimPrefix(text, "#"), 10, 64); err == nil && n >= 0 && n <= 7 {
			return (uint32(n) << uint(c.Off)) | (1 << uint(c.ImmBit)), nil
		}
		v, ok := parseLowReg(text)
		if !ok {
			return 0, asmerr.New(pos, asmerr.UnknownRegister, "%s is neither a low register nor an integer in 0..7", text)
		}
		return v << uint(c.Off), nil

	case RList:
		return convertRList(text, pos)

	case Uint:
		return convertImmediate(c, text, tbl, pos, false)

	case Sint:
		return convertImmediate(c, text, tbl, pos, true)

	case ThumbT3Imm:
		return convertThumbT3Imm(text, pos)

	case BlAddr:
		return convertBlAddr(text, tbl, pos)

	case WordLiteral:
		return convertWordLiteral(text, pos)

	default:
		return 0, asmerr.New(pos, asmerr.InternalTemplateError, "unhandled converter kind %d", c.Kind)
	}
}

func convertRList(text string, pos asmerr.Position) (uint32, error) {
	var mask uint32
	for _, tok := range strings.Split(text, ",") {
		tok = strings.ToLower(strings.TrimSpace(tok))
		bit, ok := rlistBit[tok]
		if !ok {
			return 0, asmerr.New(pos, asmerr.UnknownRegister, "unknown register-list entry: %s", tok)
		}
		mask |= bit
	}
	return mask, nil
}

// convertImmediate implements the general immediate/displacement converter:
// either a `#`-prefixed signed integer, or a `NAME` / `NAME+INTEGER` label
// reference resolved PC-relative against the label table.
func convertImmediate(c Converter, text string, tbl *labels.Table, pos asmerr.Position, signed bool) (uint32, error) {
	text = strings.TrimSpace(text)

	var v int64
	if strings.HasPrefix(text, "#") {
		n, err := strconv.ParseInt(text[1:], 10, 64)
		if err != nil {
			return 0, asmerr.New(pos, asmerr.MalformedImmediate, "malformed immediate: %s", text)
		}
		v = n
	} else {
		name, offset, err := splitLabelExpr(text)
		if err != nil {
			return 0, asmerr.New(pos, asmerr.MalformedImmediate, "malformed operand: %s", text)
		}
		base, ok := tbl.Get(name)
		if !ok {
			return 0, asmerr.New(pos, asmerr.UnknownLabel, "undefined label: %s", name)
		}
		pcVal, _ := tbl.Get(labels.PC)
		v = int64(base) + int64(offset) - int64(pcVal)
	}

	span := int64(1) << uint(c.Bits)
	var min, max int64
	if signed {
		min = -(span / 2) << uint(c.Shift)
		max = (span - span/2 - 1) << uint(c.Shift)
	} else {
		min = 0
		max = (span - 1) << uint(c.Shift)
	}

	if v < min || v > max {
		return 0, asmerr.New(pos, asmerr.ImmediateOutOfRange, "value %d out of range [%d, %d]", v, min, max)
	}
	if c.Shift > 0 && v&((int64(1)<<uint(c.Shift))-1) != 0 {
		return 0, asmerr.New(pos, asmerr.ImmediateAlignment, "value %d is not a multiple of %d", v, int64(1)<<uint(c.Shift))
	}

	field := (v >> uint(c.Shift)) & ((int64(1) << uint(c.Bits)) - 1)
	return uint32(field) << uint(c.Off), nil
}

// splitLabelExpr splits "NAME" or "NAME+INTEGER" into its parts.
func splitLabelExpr(text string) (name string, offset int64, err error) {
	if idx := strings.IndexByte(text, '+'); idx >= 0 {
		name = text[:idx]
		n, perr := strconv.ParseInt(text[idx+1:], 10, 64)
		if perr != nil {
			return "", 0, perr
		}
		return name, n, nil
	}
	if text == "" {
		return "", 0, fmt.Errorf("empty operand")
	}
	return text, 0, nil
}

// convertThumbT3Imm implements the Thumb-2 T3 16-bit immediate decomposition
// used by MOVW: imm4=(v>>12)&0xF, i=(v>>11)&1, imm3=(v>>8)&7, imm8=v&0xFF,
// returned pre-packed at the bit positions the T3 encoding uses.
func convertThumbT3Imm(text string, pos asmerr.Position) (uint32, error) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "#") {
		return 0, asmerr.New(pos, asmerr.MalformedImmediate, "expected #immediate, got %s", text)
	}
	v, err := strconv.ParseInt(text[1:], 0, 64)
	if err != nil {
		return 0, asmerr.New(pos, asmerr.MalformedImmediate, "malformed immediate: %s", text)
	}
	if v < 0 || v > 0xFFFF {
		return 0, asmerr.New(pos, asmerr.ImmediateOutOfRange, "value %d out of range [0, 65535]", v)
	}
	imm4 := (uint32(v) >> 12) & 0xF
	i := (uint32(v) >> 11) & 1
	imm3 := (uint32(v) >> 8) & 7
	imm8 := uint32(v) & 0xFF
	return (i << 26) | (imm4 << 16) | (imm3 << 12) | imm8, nil
}

// convertBlAddr first runs the general signed-displacement converter with
// (off=0, bits=22, shift=1), then re-packs the 22-bit result into the two
// 11-bit halves the BL encoding splits across its two half-words.
func convertBlAddr(text string, tbl *labels.Table, pos asmerr.Position) (uint32, error) {
	base := Converter{Kind: Sint, Off: 0, Bits: 22, Shift: 1}
	field, err := convertImmediate(base, text, tbl, pos, true)
	if err != nil {
		return 0, err
	}
	hi := (field >> 11) & 0x7FF
	lo := field & 0x7FF
	return (hi << 16) | lo, nil
}

// convertWordLiteral parses a .word operand (hex 0x... or decimal) and
// returns it half-swapped so emitting high-half-then-low-half reproduces the
// little-endian layout the loader expects.
func convertWordLiteral(text string, pos asmerr.Position) (uint32, error) {
	text = strings.TrimSpace(text)
	v, err := strconv.ParseUint(text, 0, 64)
	if err != nil {
		return 0, asmerr.New(pos, asmerr.MalformedImmediate, "malformed word literal: %s", text)
	}
	if v > 0xFFFFFFFF {
		return 0, asmerr.New(pos, asmerr.ImmediateOutOfRange, "value %d out of range for a 32-bit word", v)
	}
	v32 := uint32(v)
	return (v32 >> 16) | (v32 << 16), nil
}
