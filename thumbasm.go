// Package thumbasm is the public entry point to the Thumb/Thumb-2 assembler:
// source lines in, a flat stream of little-endian half-words out.
package thumbasm

import (
	"strings"

	"github.com/thumbasm/thumbasm/internal/engine"
)

// Assemble runs the two-pass assembler over lines and returns the emitted
// half-words in program order. On any error the partial output is discarded;
// callers get either a complete image or nothing.
func Assemble(lines []string) ([]uint16, error) {
	return AssembleFile(lines, "")
}

// AssembleFile is Assemble with a filename attached to diagnostics.
func AssembleFile(lines []string, filename string) ([]uint16, error) {
	out, err := engine.Assemble(lines, filename)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AssembleSource splits src on newlines and assembles it, a convenience for
// callers holding a whole program as one string.
func AssembleSource(src string) ([]uint16, error) {
	return Assemble(strings.Split(src, "\n"))
}
