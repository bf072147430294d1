package markov

import (
	"bytes"
	"reflect"
	"sort"
	"strings"
	"testing"
)

func TestExportImportRoundTrip(t *testing.T) {
	c := setupTrainedChain(t)

	// 1. Export the trained chain to an in-memory buffer
	var buf bytes.Buffer
	if err := c.Export(&buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	// 2. Import into a completely new chain
	imported, err := ImportChain(&buf)
	if err != nil {
		t.Fatalf("ImportChain failed: %v", err)
	}

	// 3. Every public query must behave the same
	if !reflect.DeepEqual(imported.Tokens(), c.Tokens()) {
		t.Errorf("vocabulary differs: %v vs %v", imported.Tokens(), c.Tokens())
	}
	if !reflect.DeepEqual(imported.Links(), c.Links()) {
		t.Errorf("links differ: %v vs %v", imported.Links(), c.Links())
	}
	for _, token := range c.Tokens() {
		before, _ := c.Node(token)
		after, ok := imported.Node(token)
		if !ok {
			t.Fatalf("token %q missing after import", token)
		}
		if before.Total() != after.Total() {
			t.Errorf("Total() for %q: %d vs %d", token, before.Total(), after.Total())
		}
		if !reflect.DeepEqual(before.Successors(), after.Successors()) {
			t.Errorf("successors for %q: %v vs %v", token, before.Successors(), after.Successors())
		}
	}
	for n := 1; n <= 5; n++ {
		if !reflect.DeepEqual(imported.WordsOfLength(n), c.WordsOfLength(n)) {
			t.Errorf("WordsOfLength(%d) differs", n)
		}
	}

	constraints := []Constraint{Free(), Free(), Length(3), Free(), Free(), Length(4)}
	want, _ := c.Generate(constraints, WithRand(seeded(5)))
	got, err := imported.Generate(constraints, WithRand(seeded(5)))
	if err != nil {
		t.Fatalf("Generate from imported chain failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Generate() from imported chain = %v, want %v", got, want)
	}
}

func TestImportMergesCounts(t *testing.T) {
	c := setupTestChain(t)
	other := NewChain()
	if err := other.Ingest([]string{"poke", "anna", "again", Terminator}); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	if err := c.Merge(other.Snapshot()); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	poke, _ := c.Node("poke")
	if poke.Count("anna") != 2 || poke.Count("jared") != 1 {
		t.Errorf("unexpected poke successors after merge: %v", poke.Successors())
	}
	anna, _ := c.Node("anna")
	want := []Successor{{"and", 1}, {"again", 1}}
	if !reflect.DeepEqual(anna.Successors(), want) {
		t.Errorf("anna successors = %v, want %v", anna.Successors(), want)
	}
	words := c.WordsOfLength(5)
	sort.Strings(words)
	if !reflect.DeepEqual(words, []string{"again", "jared"}) {
		t.Errorf("WordsOfLength(5) = %v", words)
	}
	checkIntegrity(t, c)
}

func TestImportRejectsBadInput(t *testing.T) {
	testCases := map[string]string{
		"not json":          `{"vocabulary": [`,
		"missing barrier":   `{"vocabulary": ["a", "b"], "links": []}`,
		"empty vocabulary":  `{"vocabulary": [], "links": []}`,
		"duplicate token":   `{"vocabulary": ["<BARRIER>", "a", "a"], "links": []}`,
		"dangling link":     `{"vocabulary": ["<BARRIER>", "a"], "links": [{"from": 1, "to": 2, "count": 1}]}`,
		"non-positive link": `{"vocabulary": ["<BARRIER>", "a"], "links": [{"from": 0, "to": 1, "count": 0}]}`,
	}
	for name, input := range testCases {
		t.Run(name, func(t *testing.T) {
			c := NewChain()
			if err := c.Import(strings.NewReader(input)); err == nil {
				t.Error("expected an error, got nil")
			}
			if c.Len() != 1 {
				t.Errorf("a rejected import must not change the chain, got %v", c.Tokens())
			}
		})
	}
}

func TestStats(t *testing.T) {
	c := setupTrainedChain(t)
	stats := c.Stats()

	// one fish two red blue
	if stats.VocabSize != 5 {
		t.Errorf("expected VocabSize 5, got %d", stats.VocabSize)
	}
	// 2 sentences of 4 words, each with 5 transitions including the barrier ones
	if stats.TotalFrequency != 10 {
		t.Errorf("expected TotalFrequency 10, got %d", stats.TotalFrequency)
	}
	if stats.StartingTokens != 2 {
		t.Errorf("expected StartingTokens 2, got %d", stats.StartingTokens)
	}
	if stats.DeadEnds != 0 {
		t.Errorf("expected no dead ends, got %d", stats.DeadEnds)
	}
	if stats.TotalLinks != len(c.Links()) {
		t.Errorf("TotalLinks %d does not match Links() %d", stats.TotalLinks, len(c.Links()))
	}
}
