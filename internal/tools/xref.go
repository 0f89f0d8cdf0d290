package tools

import (
	"sort"
	"strings"

	"github.com/thumbasm/thumbasm/internal/lineparse"
)

// ReferenceType indicates how a symbol is used at a given line.
type ReferenceType int

const (
	RefDefinition ReferenceType = iota
	RefBranch
	RefCall // BL target
	RefOperand
)

func (r ReferenceType) String() string {
	switch r {
	case RefDefinition:
		return "definition"
	case RefBranch:
		return "branch"
	case RefCall:
		return "call"
	case RefOperand:
		return "operand"
	default:
		return "unknown"
	}
}

// Reference is one use of a symbol.
type Reference struct {
	Type ReferenceType
	Line int
}

// Symbol collects every reference to one label.
type Symbol struct {
	Name       string
	Definition *Reference
	References []*Reference
}

var branchMnemonics = map[string]bool{
	"b": true, "bne": true, "beq": true, "bcs": true, "bhs": true, "bcc": true,
	"blo": true, "bmi": true, "bpl": true, "bvs": true, "bvc": true, "bhi": true,
	"bls": true, "bge": true, "blt": true, "bgt": true, "ble": true,
}

// Generate builds a name-sorted cross-reference of every label: where it's
// defined and every line that refers to it.
func Generate(source string) []*Symbol {
	symbols := make(map[string]*Symbol)

	get := func(name string) *Symbol {
		s, ok := symbols[name]
		if !ok {
			s = &Symbol{Name: name}
			symbols[name] = s
		}
		return s
	}

	lines := strings.Split(source, "\n")
	for i, raw := range lines {
		lineNo := i + 1
		line := lineparse.Parse(raw)

		switch line.Kind {
		case lineparse.Label:
			sym := get(line.Label)
			if sym.Definition == nil {
				sym.Definition = &Reference{Type: RefDefinition, Line: lineNo}
			}

		case lineparse.Instruction:
			mnemonic := strings.ToLower(line.Mnemonic)
			refType := RefOperand
			switch {
			case mnemonic == "bl":
				refType = RefCall
			case branchMnemonics[mnemonic]:
				refType = RefBranch
			}

			for _, operand := range strings.Split(line.Args, ",") {
				if !isLabelLike(operand) {
					continue
				}
				sym := get(operand)
				sym.References = append(sym.References, &Reference{Type: refType, Line: lineNo})
			}
		}
	}

	out := make([]*Symbol, 0, len(symbols))
	for _, sym := range symbols {
		out = append(out, sym)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
