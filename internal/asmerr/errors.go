// Package asmerr defines the positioned error taxonomy shared by the assembler
// core and its diagnostic tools.
package asmerr

import (
	"fmt"
	"strings"
)

// Position identifies a location within an assembled fragment.
type Position struct {
	Filename string
	Line     int
}

func (p Position) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("line %d", p.Line)
	}
	return fmt.Sprintf("%s:%d", p.Filename, p.Line)
}

// Kind categorizes a failure per the assembler's error taxonomy.
type Kind int

const (
	UnknownMnemonic Kind = iota
	NoMatchingVariant
	UnknownRegister
	UnknownLabel
	LabelRedefinition
	ImmediateOutOfRange
	ImmediateAlignment
	MalformedImmediate
	InternalTemplateError
)

func (k Kind) String() string {
	switch k {
	case UnknownMnemonic:
		return "UnknownMnemonic"
	case NoMatchingVariant:
		return "NoMatchingVariant"
	case UnknownRegister:
		return "UnknownRegister"
	case UnknownLabel:
		return "UnknownLabel"
	case LabelRedefinition:
		return "LabelRedefinition"
	case ImmediateOutOfRange:
		return "ImmediateOutOfRange"
	case ImmediateAlignment:
		return "ImmediateAlignment"
	case MalformedImmediate:
		return "MalformedImmediate"
	case InternalTemplateError:
		return "InternalTemplateError"
	default:
		return "Unknown"
	}
}

// Error is a positioned, kinded assembler failure.
type Error struct {
	Pos     Position
	Kind    Kind
	Message string
	Context string // the offending source line, if known
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %s: %s", e.Pos, e.Kind, e.Message))
	if e.Context != "" {
		sb.WriteString(fmt.Sprintf(" (source: %q)", e.Context))
	}
	return sb.String()
}

// New creates a positioned error of the given kind.
func New(pos Position, kind Kind, format string, args ...interface{}) *Error {
	return &Error{Pos: pos, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithContext attaches the offending source line to an error.
func (e *Error) WithContext(context string) *Error {
	e.Context = context
	return e
}

// List collects non-fatal diagnostics; unlike Error it never aborts assembly.
type List struct {
	Errors []*Error
}

// Add appends an error to the list.
func (l *List) Add(err *Error) {
	l.Errors = append(l.Errors, err)
}

// HasErrors reports whether the list is non-empty.
func (l *List) HasErrors() bool {
	return len(l.Errors) > 0
}

func (l *List) Error() string {
	var sb strings.Builder
	for _, e := range l.Errors {
		sb.WriteString(e.Error())
		sb.WriteString("\n")
	}
	return sb.String()
}
