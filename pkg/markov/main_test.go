package markov

import (
	"go/build"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// setupTestChain builds the chain BARRIER -> poke -> anna -> and -> then ->
// poke -> jared -> BARRIER using Record directly.
func setupTestChain(t *testing.T) *Chain {
	t.Helper()
	c := NewChain()
	pairs := [][2]string{
		{BarrierTokenText, "poke"},
		{"poke", "anna"},
		{"anna", "and"},
		{"and", "then"},
		{"then", "poke"},
		{"poke", "jared"},
		{"jared", BarrierTokenText},
	}
	for _, p := range pairs {
		if err := c.Record(p[0], p[1]); err != nil {
			t.Fatalf("setup: Record(%q, %q) failed: %v", p[0], p[1], err)
		}
	}
	return c
}

// setupTrainedChain is a convenience helper that trains a chain on a small
// two-sentence corpus.
func setupTrainedChain(t *testing.T) *Chain {
	t.Helper()
	c := NewChain()
	trainingData := "one fish two fish. red fish blue fish."
	if err := c.Train(strings.NewReader(trainingData)); err != nil {
		t.Fatalf("setup: Train() failed: %v", err)
	}
	return c
}

// setupNode returns a node whose successors are recorded in the given order
// with the given counts.
func setupNode(t *testing.T, successors ...Successor) *Node {
	t.Helper()
	c := NewChain()
	if err := c.Record(BarrierTokenText, "test"); err != nil {
		t.Fatalf("setup: Record failed: %v", err)
	}
	for _, s := range successors {
		for i := 0; i < s.Count; i++ {
			if err := c.Record("test", s.Token); err != nil {
				t.Fatalf("setup: Record(test, %q) failed: %v", s.Token, err)
			}
		}
	}
	n, _ := c.Node("test")
	return n
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// checkIntegrity fails the test if any successor has no node of its own.
func checkIntegrity(t *testing.T, c *Chain) {
	t.Helper()
	for _, token := range c.Tokens() {
		n, ok := c.Node(token)
		if !ok {
			t.Fatalf("token %q listed but has no node", token)
		}
		for _, s := range n.Successors() {
			if _, ok := c.Node(s.Token); !ok {
				t.Errorf("successor %q of %q has no node", s.Token, token)
			}
		}
	}
}

var (
	benchmarkCorpus string
	corpusOnce      sync.Once
)

// createBenchmarkCorpus reads Go source files to create a corpus for benchmarking.
func createBenchmarkCorpus() string {
	corpusOnce.Do(func() {
		var sb strings.Builder
		goRoot := build.Default.GOROOT
		filesToRead := []string{
			filepath.Join(goRoot, "src/net/http/server.go"),
			filepath.Join(goRoot, "src/go/parser/parser.go"),
			filepath.Join(goRoot, "src/encoding/json/encode.go"),
		}

		for _, file := range filesToRead {
			content, err := os.ReadFile(file)
			if err != nil {
				benchmarkCorpus = "this is a fallback corpus for benchmarking. it is not very long but will prevent a crash. "
				return
			}
			sb.Write(content)
			sb.WriteString("\n")
		}
		benchmarkCorpus = sb.String()
	})
	return benchmarkCorpus
}
