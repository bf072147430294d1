package keyboard

import (
	"errors"
	"reflect"
	"testing"
)

func TestHandOf(t *testing.T) {
	testCases := []struct {
		input   string
		want    Hand
		wantErr bool
	}{
		{input: "q", want: Left},
		{input: "t", want: Left},
		{input: "b", want: Left},
		{input: "y", want: Right},
		{input: "p", want: Right},
		{input: ".", want: Right},
		{input: "A", want: Left},
		{input: "", wantErr: true},
		{input: "ab", wantErr: true},
		{input: "1", wantErr: true},
		{input: "'", wantErr: true},
		{input: ",", wantErr: true},
		{input: "\u0130", wantErr: true}, // capital I with dot above
		{input: "\u212a", wantErr: true}, // Kelvin sign
		{input: "\u00e9", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := HandOf(tc.input)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("HandOf(%q) error = %v, want ErrInvalidInput", tc.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("HandOf(%q) unexpected error: %v", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("HandOf(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestFingerOf(t *testing.T) {
	testCases := map[string]int{
		"t": 0, "g": 0, "b": 0, "y": 0, "h": 0, "n": 0,
		"r": 1, "f": 1, "v": 1, "u": 1, "j": 1, "m": 1,
		"e": 2, "d": 2, "c": 2, "i": 2, "k": 2,
		"w": 3, "s": 3, "x": 3, "o": 3, "l": 3, ".": 3,
		"q": 4, "a": 4, "z": 4, "p": 4,
	}
	for input, want := range testCases {
		got, err := FingerOf(input)
		if err != nil {
			t.Errorf("FingerOf(%q) unexpected error: %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("FingerOf(%q) = %d, want %d", input, got, want)
		}
	}

	if _, err := FingerOf("7"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("FingerOf(\"7\") error = %v, want ErrInvalidInput", err)
	}
}

func TestLayoutIsAPartition(t *testing.T) {
	seen := make(map[rune]int)
	for _, columns := range layout {
		for _, chars := range columns {
			for _, c := range chars {
				seen[c]++
			}
		}
	}
	if len(seen) != 27 {
		t.Errorf("expected 27 recognized characters, got %d", len(seen))
	}
	for c := 'a'; c <= 'z'; c++ {
		if seen[c] != 1 {
			t.Errorf("letter %q appears %d times, want exactly once", c, seen[c])
		}
	}
	if seen['.'] != 1 {
		t.Errorf("period appears %d times, want exactly once", seen['.'])
	}
}

func TestFingers(t *testing.T) {
	got, err := Fingers("anna")
	if err != nil {
		t.Fatalf("Fingers(\"anna\") unexpected error: %v", err)
	}
	if want := []int{4, 0, 0, 4}; !reflect.DeepEqual(got, want) {
		t.Errorf("Fingers(\"anna\") = %v, want %v", got, want)
	}

	for _, bad := range []string{"", "don't", "r2d2", "\u212aite", "\u0130t"} {
		if _, err := Fingers(bad); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Fingers(%q) error = %v, want ErrInvalidInput", bad, err)
		}
		if Recognized(bad) {
			t.Errorf("Recognized(%q) = true, want false", bad)
		}
	}
	if !Recognized("Then") {
		t.Error("Recognized(\"Then\") = false, want true")
	}
}

func TestFingerOfRejectsNonASCIICaseVariants(t *testing.T) {
	for _, input := range []string{"\u0130", "\u212a", "\u017f"} {
		if got, err := FingerOf(input); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("FingerOf(%q) = %d, %v, want ErrInvalidInput", input, got, err)
		}
	}
}
