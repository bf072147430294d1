package markov

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/CTAG07/typechain/pkg/keyboard"
)

// ConstraintKind selects how a generation step chooses its token.
type ConstraintKind int

const (
	// Unconstrained steps use frequency-weighted random choice.
	Unconstrained ConstraintKind = iota
	// ExactLength steps want a token of a given length in characters.
	ExactLength
	// FingerSequence steps want a token typed with given finger classes.
	FingerSequence
)

// Constraint is the shape requested for one generation step. Only the field
// matching Kind is meaningful.
type Constraint struct {
	Kind    ConstraintKind
	Length  int
	Fingers []int
}

// Free returns an unconstrained step.
func Free() Constraint { return Constraint{Kind: Unconstrained} }

// Length returns a step that wants a token of n characters.
func Length(n int) Constraint { return Constraint{Kind: ExactLength, Length: n} }

// Fingers returns a step that wants a token typed with the given finger classes.
func Fingers(fingers ...int) Constraint {
	return Constraint{Kind: FingerSequence, Fingers: fingers}
}

// Validate reports constraints that could never be satisfied.
func (c Constraint) Validate() error {
	switch c.Kind {
	case Unconstrained:
		return nil
	case ExactLength:
		if c.Length < 1 {
			return fmt.Errorf("%w: length %d", ErrInvalidConstraint, c.Length)
		}
		return nil
	case FingerSequence:
		return validateFingers(c.Fingers)
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidConstraint, int(c.Kind))
	}
}

// String returns the form accepted by ParseConstraint.
func (c Constraint) String() string {
	switch c.Kind {
	case Unconstrained:
		return "*"
	case ExactLength:
		return strconv.Itoa(c.Length)
	case FingerSequence:
		var sb strings.Builder
		sb.WriteString("f:")
		for _, f := range c.Fingers {
			sb.WriteString(strconv.Itoa(f))
		}
		return sb.String()
	default:
		return fmt.Sprintf("Constraint(%d)", int(c.Kind))
	}
}

// ParseConstraint reads a constraint from its text form: "*" or "_" for no
// constraint, a decimal number for an exact length, or "f:" followed by one
// digit per character for a finger sequence (for example "f:4004").
func ParseConstraint(s string) (Constraint, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "*" || s == "_":
		return Free(), nil
	case strings.HasPrefix(s, "f:"):
		digits := s[2:]
		fingers := make([]int, 0, len(digits))
		for _, r := range digits {
			if r < '0' || r > '9' {
				return Constraint{}, fmt.Errorf("%w: %q is not a finger class", ErrInvalidConstraint, r)
			}
			fingers = append(fingers, int(r-'0'))
		}
		c := Fingers(fingers...)
		return c, c.Validate()
	default:
		n, err := strconv.Atoi(s)
		if err != nil {
			return Constraint{}, fmt.Errorf("%w: %q", ErrInvalidConstraint, s)
		}
		c := Length(n)
		return c, c.Validate()
	}
}

// ParseConstraints parses each argument with ParseConstraint.
func ParseConstraints(args []string) ([]Constraint, error) {
	constraints := make([]Constraint, 0, len(args))
	for _, arg := range args {
		c, err := ParseConstraint(arg)
		if err != nil {
			return nil, err
		}
		constraints = append(constraints, c)
	}
	return constraints, nil
}

// LengthShape returns one ExactLength constraint per word of text, so the
// generated output has the same word lengths as text.
func LengthShape(text string) []Constraint {
	words := strings.Fields(text)
	constraints := make([]Constraint, 0, len(words))
	for _, w := range words {
		constraints = append(constraints, Length(utf8.RuneCountInString(w)))
	}
	return constraints
}

// FingerShape returns one FingerSequence constraint per word of text, so the
// generated output is typed with the same fingers as text. Every character
// must have a finger class.
func FingerShape(text string) ([]Constraint, error) {
	words := strings.Fields(text)
	constraints := make([]Constraint, 0, len(words))
	for _, w := range words {
		fingers, err := keyboard.Fingers(w)
		if err != nil {
			return nil, err
		}
		constraints = append(constraints, Fingers(fingers...))
	}
	return constraints, nil
}
