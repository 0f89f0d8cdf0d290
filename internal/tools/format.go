// Package tools holds source-level diagnostics that never touch opcode
// emission: formatting, linting and cross-reference listing. Each tool runs
// its own walk over lineparse tokens and never calls convert.Convert, so a
// malformed operand can never abort a listing.
package tools

import (
	"strings"

	"github.com/thumbasm/thumbasm/internal/lineparse"
)

// FormatStyle selects a column layout.
type FormatStyle int

const (
	FormatDefault FormatStyle = iota
	FormatCompact
	FormatExpanded
)

// FormatOptions controls the formatter's column layout.
type FormatOptions struct {
	Style             FormatStyle
	InstructionColumn int // column mnemonics start at, when not compact
	OperandColumn     int // column operands start at, when aligned
	AlignOperands     bool
	Uppercase         bool // uppercase mnemonics
}

// DefaultFormatOptions returns the standard column layout.
func DefaultFormatOptions() *FormatOptions {
	return &FormatOptions{
		Style:             FormatDefault,
		InstructionColumn: 4,
		OperandColumn:     12,
		AlignOperands:     true,
		Uppercase:         false,
	}
}

// CompactFormatOptions returns a minimal-whitespace layout.
func CompactFormatOptions() *FormatOptions {
	opts := DefaultFormatOptions()
	opts.Style = FormatCompact
	opts.InstructionColumn = 0
	opts.OperandColumn = 0
	opts.AlignOperands = false
	return opts
}

// ExpandedFormatOptions returns a wider, more readable layout.
func ExpandedFormatOptions() *FormatOptions {
	opts := DefaultFormatOptions()
	opts.Style = FormatExpanded
	opts.InstructionColumn = 8
	opts.OperandColumn = 20
	return opts
}

// Format reindents source into a consistent column layout. It never invokes
// the instruction table, so it accepts source a real assemble pass would
// reject (unknown mnemonics, bad operands) and formats it anyway.
func Format(source string, options *FormatOptions) string {
	if options == nil {
		options = DefaultFormatOptions()
	}

	lines := strings.Split(source, "\n")
	var out strings.Builder

	for i, raw := range lines {
		if i > 0 {
			out.WriteByte('\n')
		}
		line := lineparse.Parse(raw)
		switch line.Kind {
		case lineparse.Blank:
			// preserve blank lines verbatim
		case lineparse.Label:
			out.WriteString(line.Label)
			out.WriteByte(':')
		case lineparse.Instruction:
			formatInstruction(&out, line, options)
		}
	}

	return out.String()
}

func formatInstruction(out *strings.Builder, line lineparse.Line, options *FormatOptions) {
	mnemonic := line.Mnemonic
	if options.Uppercase {
		mnemonic = strings.ToUpper(mnemonic)
	}

	if options.Style == FormatCompact {
		out.WriteString(mnemonic)
		if line.Args != "" {
			out.WriteByte(' ')
			out.WriteString(spaceOperands(line.Args))
		}
		return
	}

	padTo(out, options.InstructionColumn)
	out.WriteString(mnemonic)

	if line.Args == "" {
		return
	}
	if options.AlignOperands {
		padTo(out, options.OperandColumn)
	} else {
		out.WriteByte(' ')
	}
	out.WriteString(spaceOperands(line.Args))
}

// spaceOperands turns lineparse's whitespace-stripped "r0,r1,#1" back into
// "r0, r1, #1" for display.
func spaceOperands(args string) string {
	parts := strings.Split(args, ",")
	return strings.Join(parts, ", ")
}

// padTo appends spaces until the builder's current line length reaches
// column. If already past it, a single space is used instead.
func padTo(out *strings.Builder, column int) {
	s := out.String()
	lineStart := strings.LastIndexByte(s, '\n') + 1
	current := len(s) - lineStart
	if current < column {
		out.WriteString(strings.Repeat(" ", column-current))
	} else if current > column {
		out.WriteByte(' ')
	}
}
