/*
Package keyboard classifies characters by the hand and finger that type them
on a QWERTY layout.

Each hand is split into five finger classes. Class 0 is the column nearest
the centre of the keyboard (the stretch column of the index finger), class 1
is the home column of the index finger, and classes 2 to 4 belong to the
middle, ring and little fingers. Only the 26 letters and the period are
recognized.
*/
package keyboard

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrInvalidInput is returned for anything that is not exactly one recognized character.
var ErrInvalidInput = errors.New("keyboard: invalid input")

// Hand identifies the left or right hand.
type Hand int

const (
	Left Hand = iota
	Right
)

// String returns "left" or "right".
func (h Hand) String() string {
	switch h {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Hand(%d)", int(h))
	}
}

// FingerClasses is the number of finger classes per hand.
const FingerClasses = 5

var layout = map[Hand][FingerClasses]string{
	Left:  {"tgb", "rfv", "edc", "wsx", "qaz"},
	Right: {"yhn", "ujm", "ik", "ol.", "p"},
}

type key struct {
	hand   Hand
	finger int
}

var keys = buildKeys()

func buildKeys() map[rune]key {
	m := make(map[rune]key, 27)
	for hand, columns := range layout {
		for finger, chars := range columns {
			for _, c := range chars {
				m[c] = key{hand: hand, finger: finger}
			}
		}
	}
	return m
}

// fold lower-cases A-Z only; every other rune stays as it is.
func fold(r rune) rune {
	if 'A' <= r && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

func lookup(s string) (key, error) {
	if utf8.RuneCountInString(s) != 1 {
		return key{}, fmt.Errorf("%w: %q is not a single character", ErrInvalidInput, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	k, ok := keys[fold(r)]
	if !ok {
		return key{}, fmt.Errorf("%w: %q is not a recognized key", ErrInvalidInput, s)
	}
	return k, nil
}

// HandOf reports which hand types the single character s.
func HandOf(s string) (Hand, error) {
	k, err := lookup(s)
	if err != nil {
		return 0, err
	}
	return k.hand, nil
}

// FingerOf returns the 0-4 finger class of the single character s,
// regardless of hand.
func FingerOf(s string) (int, error) {
	k, err := lookup(s)
	if err != nil {
		return 0, err
	}
	return k.finger, nil
}

// Fingers returns the finger class of every character in word. It fails on
// the first character that is not recognized, and on the empty string.
func Fingers(word string) ([]int, error) {
	if word == "" {
		return nil, fmt.Errorf("%w: empty word", ErrInvalidInput)
	}
	fingers := make([]int, 0, len(word))
	for _, r := range word {
		k, ok := keys[fold(r)]
		if !ok {
			return nil, fmt.Errorf("%w: %q in %q is not a recognized key", ErrInvalidInput, r, word)
		}
		fingers = append(fingers, k.finger)
	}
	return fingers, nil
}

// Recognized reports whether every character of word has a finger class.
func Recognized(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if _, ok := keys[fold(r)]; !ok {
			return false
		}
	}
	return true
}
