// Package codec implements the canonical chess result vocabulary: the
// single-letter codes players report results with, the French labels
// that get persisted, and the points each label is worth.
package codec

import (
	"errors"
	"fmt"
	"strings"
)

// Code is one of the single-letter result abbreviations a caller
// reports a match outcome with.
type Code string

const (
	CodeVictory Code = "V"
	CodeDefeat  Code = "D"
	CodeDraw    Code = "N"
	CodeExempt  Code = "E"
)

// The Label* constants are the canonical, persisted French result
// strings.
const (
	LabelVictory = "victoire"
	LabelDefeat  = "défaite"
	LabelDraw    = "nul"
	LabelExempt  = "exempt"
)

var codeToLabel = map[Code]string{
	CodeVictory: LabelVictory,
	CodeDefeat:  LabelDefeat,
	CodeDraw:    LabelDraw,
	CodeExempt:  LabelExempt,
}

var labelToPoints = map[string]float64{
	LabelVictory: 1.0,
	LabelDefeat:  0.0,
	LabelDraw:    0.5,
	LabelExempt:  1.0,
}

// ErrInvalidCode is returned when a caller supplies a code outside
// {V, D, N, E}.
var ErrInvalidCode = errors.New("invalid result code")

// normalize trims whitespace and uppercases a raw code before lookup.
func normalize(raw string) Code {
	return Code(strings.ToUpper(strings.TrimSpace(raw)))
}

// IsValidCode reports whether raw normalizes to one of the four
// canonical codes.
func IsValidCode(raw string) bool {
	_, ok := codeToLabel[normalize(raw)]
	return ok
}

// CodeToLabel normalizes raw and resolves it to its canonical label.
func CodeToLabel(raw string) (string, error) {
	label, ok := codeToLabel[normalize(raw)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidCode, raw)
	}
	return label, nil
}

// LabelToPoints resolves a canonical label to the points it is worth.
func LabelToPoints(label string) (float64, error) {
	points, ok := labelToPoints[label]
	if !ok {
		return 0, fmt.Errorf("%w: unknown label %q", ErrInvalidCode, label)
	}
	return points, nil
}
