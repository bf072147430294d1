package markov

import (
	"reflect"
	"strings"
	"testing"
)

func TestDefaultTokenizer(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Lowercases and splits periods",
			input:    "Poke Anna. And then",
			expected: []string{"poke", "anna", ".", "and", "then"},
		},
		{
			name:     "Drops disallowed characters",
			input:    "Hello, world! (really?) #42",
			expected: []string{"hello", "world", "really", "42"},
		},
		{
			name:     "Keeps inner apostrophes",
			input:    "don't rock'n'roll",
			expected: []string{"don't", "rock'n'roll"},
		},
		{
			name:     "Isolates stray apostrophes",
			input:    "'quoted' dogs' bones",
			expected: []string{"'", "quoted", "'", "dogs", "'", "bones"},
		},
		{
			name:     "Numbers and decimal points",
			input:    "pi is 3.14",
			expected: []string{"pi", "is", "3", ".", "14"},
		},
		{
			name:     "Multiple lines",
			input:    "first line\nsecond. line",
			expected: []string{"first", "line", "second", ".", "line"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tokens, err := Tokenize(NewDefaultTokenizer().NewStream(strings.NewReader(tc.input)))
			if err != nil {
				t.Fatalf("Tokenize failed: %v", err)
			}
			if !reflect.DeepEqual(tokens, tc.expected) {
				t.Errorf("expected %q, got %q", tc.expected, tokens)
			}
		})
	}
}

func TestTokenizerMarksEOC(t *testing.T) {
	stream := NewDefaultTokenizer().NewStream(strings.NewReader("end."))
	first, err := stream.Next()
	if err != nil || first.Text != "end" || first.EOC {
		t.Fatalf("expected non-EOC 'end', got %+v, %v", first, err)
	}
	second, err := stream.Next()
	if err != nil || second.Text != "." || !second.EOC {
		t.Fatalf("expected EOC '.', got %+v, %v", second, err)
	}
}

func TestTokenizerOptions(t *testing.T) {
	tok := NewDefaultTokenizer(
		WithSeparator("_"),
		WithEOCRegex(`^!$`),
		WithStripRegex(`[^a-z!]+`),
		WithSeparatorRegex(`[a-z]+|!`),
		WithSeparatorExcRegex(`^!`),
	)
	tokens, err := Tokenize(tok.NewStream(strings.NewReader("Go team! go.")))
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	want := []string{"go", "team", Terminator, "go"}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("expected %q, got %q", want, tokens)
	}
	if got := tok.Separator("go", "team"); got != "_" {
		t.Errorf("Separator() = %q, want %q", got, "_")
	}
	if got := tok.Separator("team", "!"); got != "" {
		t.Errorf("Separator() before EOC = %q, want empty", got)
	}
}

func TestChainUsesTokenizer(t *testing.T) {
	c := NewChain()
	c.SetTokenizer(NewDefaultTokenizer(WithSeparator("-")))
	if got := c.Join([]string{"a", "b", Terminator, "c"}); got != "a-b.-c" {
		t.Errorf("Join() = %q, want %q", got, "a-b.-c")
	}
}
