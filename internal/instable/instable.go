// Package instable holds the static, declarative instruction table (C3):
// for every supported mnemonic, an ordered list of encoding variants. Each
// variant pairs a bit template (internal/bittpl), an argument-blob regular
// expression, and the converters (internal/convert) that feed its capture
// groups.
//
// Order within a mnemonic's variant list is significant: the engine tries
// patterns in listed order and uses the first match (§4.3). Do not reorder
// entries "for tidiness" — correctness of add, sub, mov, ldr and str depends
// on more specific forms being listed before more permissive ones.
package instable

import (
	"regexp"

	"github.com/thumbasm/thumbasm/internal/bittpl"
	"github.com/thumbasm/thumbasm/internal/convert"
)

// Variant is one concrete encoding for a mnemonic.
type Variant struct {
	Template   bittpl.Template
	Pattern    *regexp.Regexp
	Converters []convert.Converter
}

// re compiles an argument pattern. Patterns are matched case-insensitively
// so register/keyword spelling doesn't matter; capture groups preserve the
// operand text verbatim (label names stay case-sensitive).
func re(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^` + pattern + `$`)
}

func v(tpl string, pattern string, converters ...convert.Converter) Variant {
	return Variant{
		Template:   bittpl.MustParse(tpl),
		Pattern:    re(pattern),
		Converters: converters,
	}
}

// reg/reg4/regOrImm/rlist/uintf/sintf are small constructors to keep the
// table below readable.
func reg(off int) convert.Converter  { return convert.Converter{Kind: convert.Reg, Off: off} }
func reg4(off int) convert.Converter { return convert.Converter{Kind: convert.Reg4, Off: off} }
func regOrImm(off, immBit int) convert.Converter {
	return convert.Converter{Kind: convert.RegOrImm, Off: off, ImmBit: immBit}
}
func rlist() convert.Converter { return convert.Converter{Kind: convert.RList} }
func uintf(off, bits, shift int) convert.Converter {
	return convert.Converter{Kind: convert.Uint, Off: off, Bits: bits, Shift: shift}
}
func sintf(off, bits, shift int) convert.Converter {
	return convert.Converter{Kind: convert.Sint, Off: off, Bits: bits, Shift: shift}
}
func t3imm() convert.Converter  { return convert.Converter{Kind: convert.ThumbT3Imm} }
func blAddr() convert.Converter { return convert.Converter{Kind: convert.BlAddr} }
func word() convert.Converter   { return convert.Converter{Kind: convert.WordLiteral} }

const (
	regOperand   = `(r[0-7])`
	reg4Operand  = `(r1[0-5]|r[0-9]|lr|pc|sp)`
	immOperand   = `(#-?[0-9]+)`
	labelOperand = `([A-Za-z_][A-Za-z0-9_]*(?:\+[0-9]+)?)`

	// immHexOperand additionally accepts a 0x-prefixed hex immediate.
	// movw's worked example (SPEC_FULL.md §8 scenario 5, "movw r1,#0x1234")
	// is hex-spelled even though the general syntax rule restricts hex to
	// .word; movw is the one exception.
	immHexOperand = `(#(?:0[xX][0-9A-Fa-f]+|-?[0-9]+))`
)

// Table maps mnemonic (lower-case) to its ordered variant list.
var Table map[string][]Variant

func init() {
	Table = map[string][]Variant{
		"lsl": {
			v("00000iiiiisssddd", regOperand+`,`+regOperand+`,`+immOperand, reg(0), reg(3), uintf(6, 5, 0)),
			v("0100000010sssddd", regOperand+`,`+regOperand, reg(0), reg(3)),
		},
		"lsr": {
			v("00001iiiiisssddd", regOperand+`,`+regOperand+`,`+immOperand, reg(0), reg(3), uintf(6, 5, 0)),
			v("0100000011sssddd", regOperand+`,`+regOperand, reg(0), reg(3)),
		},
		"asr": {
			v("00010iiiiisssddd", regOperand+`,`+regOperand+`,`+immOperand, reg(0), reg(3), uintf(6, 5, 0)),
			v("0100000100sssddd", regOperand+`,`+regOperand, reg(0), reg(3)),
		},
		"cmp": {
			v("00101dddiiiiiiii", regOperand+`,`+immOperand, reg(8), uintf(0, 8, 0)),
			v("0100001010sssddd", regOperand+`,`+regOperand, reg(0), reg(3)),
		},

		// "010000xxxxsssddd" family: Rd,Rs data-processing register forms.
		"and": {v("0100000000sssddd", regOperand+`,`+regOperand, reg(0), reg(3))},
		"eor": {v("0100000001sssddd", regOperand+`,`+regOperand, reg(0), reg(3))},
		"adc": {v("0100000101sssddd", regOperand+`,`+regOperand, reg(0), reg(3))},
		"sbc": {v("0100000110sssddd", regOperand+`,`+regOperand, reg(0), reg(3))},
		"ror": {v("0100000111sssddd", regOperand+`,`+regOperand, reg(0), reg(3))},
		"tst": {v("0100001000sssddd", regOperand+`,`+regOperand, reg(0), reg(3))},
		"neg": {v("0100001001sssddd", regOperand+`,`+regOperand, reg(0), reg(3))},
		"cmn": {v("0100001011sssddd", regOperand+`,`+regOperand, reg(0), reg(3))},
		"orr": {v("0100001100sssddd", regOperand+`,`+regOperand, reg(0), reg(3))},
		"mul": {v("0100001101sssddd", regOperand+`,`+regOperand, reg(0), reg(3))},
		"bic": {v("0100001110sssddd", regOperand+`,`+regOperand, reg(0), reg(3))},
		"mvn": {v("0100001111sssddd", regOperand+`,`+regOperand, reg(0), reg(3))},

		"b":  {v("11100iiiiiiiiiii", labelOperand, sintf(0, 11, 1))},
		"bl": {v("11110iiiiiiiiiii"+"11111iiiiiiiiiii", labelOperand, blAddr())},
		"bx": {v("010001110rrrr000", reg4Operand, reg4(3))},

		"adr": {v("10100dddiiiiiiii", regOperand+`,`+labelOperand, reg(8), uintf(0, 8, 2))},

		"push": {v("1011010---------", `\{(.+)\}`, rlist())},
		"pop":  {v("1011110---------", `\{(.+)\}`, rlist())},

		"add": {
			v("00110dddiiiiiiii", regOperand+`,`+immOperand, reg(8), uintf(0, 8, 0)),
			v("10100dddiiiiiiii", regOperand+`,pc,`+immOperand, reg(8), uintf(0, 8, 2)),
			v("10101dddiiiiiiii", regOperand+`,sp,`+immOperand, reg(8), uintf(0, 8, 2)),
			v("101100000iiiiiii", `sp,`+immOperand, uintf(0, 7, 2)),
			v("00011-0---------", regOperand+`,`+regOperand+`,(r[0-7]|#[0-7])`, reg(0), reg(3), regOrImm(6, 10)),
		},
		"adds": {
			v("00011-0---------", regOperand+`,`+regOperand+`,(r[0-7]|#[0-7])`, reg(0), reg(3), regOrImm(6, 10)),
		},
		"sub": {
			v("00111dddiiiiiiii", regOperand+`,`+immOperand, reg(8), uintf(0, 8, 0)),
			v("101100001iiiiiii", `sp,`+immOperand, uintf(0, 7, 2)),
			v("00011-1---------", regOperand+`,`+regOperand+`,(r[0-7]|#[0-7])`, reg(0), reg(3), regOrImm(6, 10)),
		},

		"add.w": {v("111010110000nnnn0000dddd0000mmmm", regOperand+`,`+regOperand+`,`+regOperand, reg4(8), reg4(16), reg4(0))},
		"adc.w": {v("111010110100nnnn0000dddd0000mmmm", regOperand+`,`+regOperand+`,`+regOperand, reg4(8), reg4(16), reg4(0))},

		"str": {
			v("10010dddiiiiiiii", regOperand+`,\[sp,`+immOperand+`\]`, reg(8), uintf(0, 8, 2)),
			v("0101000mmmnnnddd", regOperand+`,\[`+regOperand+`,`+regOperand+`\]`, reg(0), reg(3), reg(6)),
			v("0110000---___---", regOperand+`,\[`+regOperand+`,`+immOperand+`\]`, reg(0), reg(3), uintf(6, 3, 0)),
		},
		"strb": {
			v("0101010mmmnnnddd", regOperand+`,\[`+regOperand+`,`+regOperand+`\]`, reg(0), reg(3), reg(6)),
			v("0111000---___---", regOperand+`,\[`+regOperand+`,`+immOperand+`\]`, reg(0), reg(3), uintf(6, 3, 0)),
		},
		"ldr": {
			v("01001dddiiiiiiii", regOperand+`,\[pc,`+immOperand+`\]`, reg(8), uintf(0, 8, 2)),
			v("10011dddiiiiiiii", regOperand+`,\[sp,`+immOperand+`\]`, reg(8), uintf(0, 8, 2)),
			v("0101100mmmnnnddd", regOperand+`,\[`+regOperand+`,`+regOperand+`\]`, reg(0), reg(3), reg(6)),
			v("0110100---___---", regOperand+`,\[`+regOperand+`,`+immOperand+`\]`, reg(0), reg(3), uintf(6, 3, 0)),
			v("01001dddiiiiiiii", regOperand+`,`+labelOperand, reg(8), uintf(0, 8, 2)),
		},
		"ldrb": {
			v("0101110mmmnnnddd", regOperand+`,\[`+regOperand+`,`+regOperand+`\]`, reg(0), reg(3), reg(6)),
			// Known source bug, preserved intentionally (see DESIGN.md): this
			// reuses ldr's immediate-offset template (0110100...) instead of
			// the ISA-correct 0111100...; see SPEC_FULL.md §9.
			v("0110100---___---", regOperand+`,\[`+regOperand+`,`+immOperand+`\]`, reg(0), reg(3), uintf(6, 3, 0)),
		},

		"mov": {
			v("00100dddiiiiiiii", regOperand+`,`+immOperand, reg(8), uintf(0, 8, 0)),
			v("01000110ddddmmmm", reg4Operand+`,`+reg4Operand, reg4(0), reg4(4)),
		},
		"movs": {
			v("00100dddiiiiiiii", regOperand+`,`+immOperand, reg(8), uintf(0, 8, 0)),
		},
		"movw": {
			v("11110i100100iiii0iiiddddiiiiiiii", regOperand+`,`+immHexOperand, reg4(8), t3imm()),
		},

		".word": {v("--------------------------------", `(0x[0-9A-Fa-f]+|-?[0-9]+)`, word())},

		"nop": {v("0100011011000000", ``)},

		"cpsie": {v("1011011001100010", `i`)},
		"cpsid": {v("1011011001110010", `i`)},

		"wfe": {v("1011111100100000", ``)},
		"wfi": {v("1011111100110000", ``)},

		"bkpt": {v("10111110iiiiiiii", immOperand, uintf(0, 8, 0))},
	}

	registerConditionalBranches()
}

// condBranch associates each conditional-branch mnemonic suffix with its
// 4-bit ARM condition code, per the cccc field of "1101ccccIIIIIIII".
var condBranch = map[string]uint32{
	"eq": 0x0, "ne": 0x1, "cs": 0x2, "hs": 0x2, "cc": 0x3, "lo": 0x3,
	"mi": 0x4, "pl": 0x5, "vs": 0x6, "vc": 0x7, "hi": 0x8, "ls": 0x9,
	"ge": 0xA, "lt": 0xB, "gt": 0xC, "le": 0xD,
}

// registerConditionalBranches fills in beq..ble (and the hs/lo/cs/cc
// aliases) since they all share one template shape differing only in their
// 4-bit condition nibble.
func registerConditionalBranches() {
	for suffix, cond := range condBranch {
		base := bittpl.MustParse("1101ccccIIIIIIII").Base | (cond << 8)
		Table["b"+suffix] = []Variant{{
			Template: bittpl.Template{
				Base:            base,
				Width:           16,
				PlaceholderMask: 0x00FF,
			},
			Pattern:    re(labelOperand),
			Converters: []convert.Converter{sintf(0, 8, 1)},
		}}
	}
}
