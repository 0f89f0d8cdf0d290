package tools

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/thumbasm/thumbasm/internal/asmerr"
	"github.com/thumbasm/thumbasm/internal/convert"
	"github.com/thumbasm/thumbasm/internal/instable"
	"github.com/thumbasm/thumbasm/internal/labels"
	"github.com/thumbasm/thumbasm/internal/lineparse"
)

// LintLevel is a lint finding's severity.
type LintLevel int

const (
	LintError LintLevel = iota
	LintWarning
	LintInfo
)

func (l LintLevel) String() string {
	switch l {
	case LintError:
		return "error"
	case LintWarning:
		return "warning"
	case LintInfo:
		return "info"
	default:
		return "unknown"
	}
}

// LintIssue is a single finding.
type LintIssue struct {
	Level   LintLevel
	Line    int
	Message string
	Code    string // e.g. "UNKNOWN_MNEMONIC", "UNDEF_LABEL", "UNUSED_LABEL"
}

func (i *LintIssue) String() string {
	return fmt.Sprintf("line %d: %s: %s [%s]", i.Line, i.Level, i.Message, i.Code)
}

// LintOptions controls linter behavior.
type LintOptions struct {
	CheckUnused bool // warn about labels that are defined but never referenced
}

// DefaultLintOptions returns the standard set of checks.
func DefaultLintOptions() *LintOptions {
	return &LintOptions{CheckUnused: true}
}

var labelRefPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)(?:\+[0-9]+)?$`)

// registerNames excludes register/keyword tokens from label-reference
// detection: "r0" parses as a valid label-like identifier, but it is never
// actually a label reference.
var registerNames = map[string]bool{
	"lr": true, "pc": true, "sp": true, "i": true,
}

func init() {
	for n := 0; n <= 15; n++ {
		registerNames[fmt.Sprintf("r%d", n)] = true
	}
}

func isLabelLike(token string) bool {
	m := labelRefPattern.FindStringSubmatch(token)
	if m == nil {
		return false
	}
	return !registerNames[strings.ToLower(m[1])]
}

// Lint runs a pass-1-equivalent address-tracking scan: it discovers label
// addresses and checks syntax the way engine.Assemble's first pass would,
// then re-walks the source the way pass 2 would to evaluate PC-relative
// displacements. It never calls convert.Convert, so a single bad operand
// never aborts the rest of the scan the way an assemble error would; a line
// whose mnemonic or operand form can't be matched just falls back to a
// 16-bit width guess for address-tracking purposes and is skipped by the
// displacement check.
func Lint(source string, options *LintOptions) []*LintIssue {
	if options == nil {
		options = DefaultLintOptions()
	}

	var issues []*LintIssue
	defined := make(map[string]int)
	referenced := make(map[string]bool)

	lines := strings.Split(source, "\n")
	tokens := make([]lineparse.Line, len(lines))
	for i, raw := range lines {
		tokens[i] = lineparse.Parse(raw)
	}

	// Pass 1: discover label addresses (and, for every instruction line
	// that resolves to a variant, which one) while running the checks that
	// don't need an address.
	tbl := labels.New()
	matched := make([]*instable.Variant, len(tokens))
	var addr uint32
	for i, line := range tokens {
		lineNo := i + 1
		switch line.Kind {
		case lineparse.Label:
			if first, ok := defined[line.Label]; ok {
				issues = append(issues, &LintIssue{
					Level:   LintError,
					Line:    lineNo,
					Message: fmt.Sprintf("label %q redefined (first defined on line %d)", line.Label, first),
					Code:    "LABEL_REDEFINED",
				})
				continue
			}
			defined[line.Label] = lineNo
			_ = tbl.Define(line.Label, addr, asmerr.Position{Line: lineNo})

			if registerNames[strings.ToLower(line.Label)] {
				issues = append(issues, &LintIssue{
					Level:   LintWarning,
					Line:    lineNo,
					Message: fmt.Sprintf("label %q shadows a register name", line.Label),
					Code:    "REGISTER_SHADOW",
				})
			}

		case lineparse.Instruction:
			mnemonic := strings.ToLower(line.Mnemonic)
			variants, ok := instable.Table[mnemonic]
			if !ok {
				issues = append(issues, &LintIssue{
					Level:   LintError,
					Line:    lineNo,
					Message: fmt.Sprintf("unknown instruction %q", line.Mnemonic),
					Code:    "UNKNOWN_MNEMONIC",
				})
				addr += 2
				continue
			}

			width := 16
			for vi := range variants {
				if variants[vi].Pattern.MatchString(line.Args) {
					matched[i] = &variants[vi]
					width = variants[vi].Template.Width
					break
				}
			}
			if matched[i] == nil {
				issues = append(issues, &LintIssue{
					Level:   LintError,
					Line:    lineNo,
					Message: fmt.Sprintf("no matching operand form for %s %q", line.Mnemonic, line.Args),
					Code:    "NO_MATCHING_VARIANT",
				})
			}

			for _, operand := range strings.Split(line.Args, ",") {
				if isLabelLike(operand) {
					referenced[operand] = true
				}
			}

			addr += uint32(width / 8)
		}
	}

	for name := range referenced {
		if _, ok := defined[name]; !ok {
			issues = append(issues, &LintIssue{
				Level:   LintError,
				Line:    0,
				Message: fmt.Sprintf("undefined label %q", name),
				Code:    "UNDEF_LABEL",
			})
		}
	}

	if options.CheckUnused {
		for name, lineNo := range defined {
			if !referenced[name] {
				issues = append(issues, &LintIssue{
					Level:   LintWarning,
					Line:    lineNo,
					Message: fmt.Sprintf("label %q is never referenced", name),
					Code:    "UNUSED_LABEL",
				})
			}
		}
	}

	// Pass 2: re-walk with every label address known, tracking PC exactly
	// as engine.pass2 does, to flag PC-relative displacements that sit
	// within one encoding step of over/underflowing their field.
	addr = 0
	for i, line := range tokens {
		if line.Kind != lineparse.Instruction {
			continue
		}
		variant := matched[i]
		if variant == nil {
			continue
		}
		tbl.SetPC(addr + 4)

		if m := variant.Pattern.FindStringSubmatch(line.Args); m != nil {
			for gi, conv := range variant.Converters {
				if issue := displacementBoundaryIssue(conv, m[gi+1], tbl, i+1); issue != nil {
					issues = append(issues, issue)
				}
			}
		}

		addr += uint32(variant.Template.Width / 8)
	}

	return issues
}

// displacementBoundaryIssue checks a single PC-relative converter's operand
// against the signed/unsigned field bounds convert.convertImmediate would
// apply, flagging values that land within one encoding step (1<<Shift) of
// over/underflowing the field. Immediate (#-prefixed) operands and operands
// that don't resolve to a currently-known label are skipped: out-of-range
// values are Assemble's job to report, not Lint's.
func displacementBoundaryIssue(conv convert.Converter, operand string, tbl *labels.Table, lineNo int) *LintIssue {
	if conv.Kind != convert.Sint && conv.Kind != convert.Uint && conv.Kind != convert.BlAddr {
		return nil
	}

	operand = strings.TrimSpace(operand)
	if operand == "" || strings.HasPrefix(operand, "#") {
		return nil
	}
	name, offset, ok := splitLabelExprLite(operand)
	if !ok {
		return nil
	}
	base, ok := tbl.Get(name)
	if !ok {
		return nil
	}
	pcVal, _ := tbl.Get(labels.PC)
	v := int64(base) + offset - int64(pcVal)

	bits, shift, signed := conv.Bits, conv.Shift, conv.Kind == convert.Sint
	if conv.Kind == convert.BlAddr {
		bits, shift, signed = 22, 1, true
	}

	span := int64(1) << uint(bits)
	var min, max int64
	if signed {
		min = -(span / 2) << uint(shift)
		max = (span - span/2 - 1) << uint(shift)
	} else {
		max = (span - 1) << uint(shift)
	}
	if v < min || v > max {
		return nil
	}

	step := int64(1) << uint(shift)
	if max-v > step && v-min > step {
		return nil
	}
	return &LintIssue{
		Level:   LintWarning,
		Line:    lineNo,
		Message: fmt.Sprintf("displacement %d to %q is within one encoding step of its field boundary [%d, %d]", v, name, min, max),
		Code:    "DISPLACEMENT_NEAR_BOUNDARY",
	}
}

// splitLabelExprLite mirrors convert.splitLabelExpr closely enough for
// boundary checking: it splits "NAME" or "NAME+INTEGER" without resolving
// the label itself.
func splitLabelExprLite(text string) (name string, offset int64, ok bool) {
	m := labelRefPattern.FindStringSubmatch(text)
	if m == nil {
		return "", 0, false
	}
	name = m[1]
	if idx := strings.IndexByte(text, '+'); idx >= 0 {
		n, err := strconv.ParseInt(text[idx+1:], 10, 64)
		if err != nil {
			return "", 0, false
		}
		offset = n
	}
	return name, offset, true
}
