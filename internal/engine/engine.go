// Package engine implements the two-pass assembly engine (C5): pass 1 walks
// the tokenized source to fix every label's byte address, pass 2 re-walks it
// with the label table populated to emit opcodes.
package engine

import (
	"strings"

	"github.com/thumbasm/thumbasm/internal/asmerr"
	"github.com/thumbasm/thumbasm/internal/convert"
	"github.com/thumbasm/thumbasm/internal/instable"
	"github.com/thumbasm/thumbasm/internal/labels"
	"github.com/thumbasm/thumbasm/internal/lineparse"
)

// Assemble runs both passes over lines and returns the emitted half-words.
// filename is used only to enrich error positions; pass "" when unknown.
func Assemble(lines []string, filename string) ([]uint16, error) {
	tokens := make([]lineparse.Line, len(lines))
	for i, raw := range lines {
		tokens[i] = lineparse.Parse(raw)
	}

	tbl := labels.New()
	if err := pass1(tokens, filename, tbl); err != nil {
		return nil, err
	}

	out, err := pass2(tokens, filename, tbl)
	if err != nil {
		return nil, err
	}

	if len(out)%2 != 0 {
		out = append(out, 0x0000)
	}
	return out, nil
}

// pass1 discovers label addresses. Argument converters are never invoked
// here: the label table is incomplete, and converters that resolve a label
// reference would fail spuriously on a forward reference.
func pass1(tokens []lineparse.Line, filename string, tbl *labels.Table) error {
	var addr uint32
	for i, line := range tokens {
		pos := asmerr.Position{Filename: filename, Line: i + 1}
		switch line.Kind {
		case lineparse.Blank:
			continue
		case lineparse.Label:
			if err := tbl.Define(line.Label, addr, pos); err != nil {
				return err
			}
		case lineparse.Instruction:
			variant, _, err := selectVariant(line, pos)
			if err != nil {
				return err
			}
			addr += uint32(variant.Template.Width / 8)
		}
	}
	return nil
}

// Entry is one instruction line's contribution to the assembled output,
// used by listing tools that need to show address/opcode per source line
// rather than just the flat half-word stream.
type Entry struct {
	Line    int // 1-based source line number
	Address uint32
	Opcodes []uint16
}

// pass2 re-walks the source with the label table populated and emits
// opcodes.
func pass2(tokens []lineparse.Line, filename string, tbl *labels.Table) ([]uint16, error) {
	out, _, err := pass2WithEntries(tokens, filename, tbl)
	return out, err
}

func pass2WithEntries(tokens []lineparse.Line, filename string, tbl *labels.Table) ([]uint16, []Entry, error) {
	var addr uint32
	var out []uint16
	var entries []Entry

	for i, line := range tokens {
		pos := asmerr.Position{Filename: filename, Line: i + 1}
		if line.Kind != lineparse.Instruction {
			continue
		}

		tbl.SetPC(addr + 4)

		variant, match, err := selectVariant(line, pos)
		if err != nil {
			return nil, nil, err
		}

		opcode := variant.Template.Base
		for gi, conv := range variant.Converters {
			text := match[gi+1]
			val, err := convert.Convert(conv, text, tbl, pos)
			if err != nil {
				return nil, nil, err
			}
			opcode |= val
		}

		var words []uint16
		if variant.Template.Width == 16 {
			words = []uint16{uint16(opcode & 0xFFFF)}
		} else {
			words = []uint16{uint16((opcode >> 16) & 0xFFFF), uint16(opcode & 0xFFFF)}
		}
		entries = append(entries, Entry{Line: i + 1, Address: addr, Opcodes: words})
		out = append(out, words...)
		addr += uint32(variant.Template.Width / 8)
	}

	return out, entries, nil
}

// AssembleWithListing runs both passes like Assemble, additionally
// returning a per-instruction-line breakdown of the output for tools that
// render an address/opcode-annotated listing.
func AssembleWithListing(lines []string, filename string) ([]uint16, []Entry, error) {
	tokens := make([]lineparse.Line, len(lines))
	for i, raw := range lines {
		tokens[i] = lineparse.Parse(raw)
	}

	tbl := labels.New()
	if err := pass1(tokens, filename, tbl); err != nil {
		return nil, nil, err
	}

	out, entries, err := pass2WithEntries(tokens, filename, tbl)
	if err != nil {
		return nil, nil, err
	}

	if len(out)%2 != 0 {
		out = append(out, 0x0000)
	}
	return out, entries, nil
}

// selectVariant looks up mnemonic in the instruction table and returns the
// first variant whose pattern matches the argument blob, per the "first
// match wins" discipline in SPEC_FULL.md §4.3.
func selectVariant(line lineparse.Line, pos asmerr.Position) (instable.Variant, []string, error) {
	mnemonic := strings.ToLower(line.Mnemonic)
	variants, ok := instable.Table[mnemonic]
	if !ok {
		return instable.Variant{}, nil, asmerr.New(pos, asmerr.UnknownMnemonic, "unknown instruction: %s", line.Mnemonic).WithContext(line.Raw)
	}

	for _, variant := range variants {
		if m := variant.Pattern.FindStringSubmatch(line.Args); m != nil {
			return variant, m, nil
		}
	}
	return instable.Variant{}, nil, asmerr.New(pos, asmerr.NoMatchingVariant, "no matching operand form for %s %q", line.Mnemonic, line.Args).WithContext(line.Raw)
}
