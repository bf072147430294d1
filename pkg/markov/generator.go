package markov

import (
	"errors"
	"io"
	"log/slog"
	"unicode/utf8"
)

const (
	// BarrierTokenID is the reserved ID for the sentence barrier token.
	BarrierTokenID = 0
	// BarrierTokenText is the reserved text for the sentence barrier token.
	BarrierTokenText = "<BARRIER>"
	// Terminator is the sentence terminator. Ingestion treats it as a signal
	// to link to the barrier, and generation emits it whenever the walk
	// returns to the barrier.
	Terminator = "."
)

var (
	// ErrEmptySuccessorSet is returned when a node with no recorded
	// successors is asked for an unconstrained choice.
	ErrEmptySuccessorSet = errors.New("markov: node has no successors")
	// ErrNoCandidate is returned when no successor satisfies a constraint,
	// even after the fallback search.
	ErrNoCandidate = errors.New("markov: no candidate satisfies constraint")
	// ErrUnknownToken is returned when a link is recorded from a token that
	// has no node in the chain.
	ErrUnknownToken = errors.New("markov: unknown token")
	// ErrInvalidConstraint is returned for constraints that can never be
	// satisfied, such as a length below 1 or an out-of-range finger class.
	ErrInvalidConstraint = errors.New("markov: invalid constraint")
)

// Chain is a first-order word-level Markov chain. Nodes live in an arena
// indexed by token ID, and links between nodes refer to each other by ID.
// The barrier node always exists and has ID BarrierTokenID.
//
// A Chain is not safe for concurrent use. Training mutates it; generation
// only reads it.
type Chain struct {
	nodes     []*Node
	index     map[string]int
	tokenizer Tokenizer
	logger    *slog.Logger
}

// NewChain returns a chain containing only the barrier node. It uses the
// default tokenizer for Train and Join unless another one is set.
func NewChain() *Chain {
	c := &Chain{
		index:     make(map[string]int),
		tokenizer: NewDefaultTokenizer(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	c.ensureNode(BarrierTokenText)
	return c
}

// SetLogger sets the logger for the Chain. By default, all logs are discarded.
func (c *Chain) SetLogger(logger *slog.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// SetTokenizer replaces the tokenizer used by Train and Join.
func (c *Chain) SetTokenizer(tokenizer Tokenizer) {
	if tokenizer != nil {
		c.tokenizer = tokenizer
	}
}

// ensureNode returns the ID for token, creating a node with no successors
// if the token is new.
func (c *Chain) ensureNode(token string) int {
	if id, ok := c.index[token]; ok {
		return id
	}
	id := len(c.nodes)
	length := utf8.RuneCountInString(token)
	if id == BarrierTokenID {
		length = 0
	}
	n := &Node{
		id:     id,
		text:   token,
		length: length,
		lookup: make(map[int]int),
		owner:  c,
	}
	if id != BarrierTokenID {
		n.fingers = fingerSequence(token)
	}
	c.nodes = append(c.nodes, n)
	c.index[token] = id
	return id
}

// Node returns the node for token, if the chain has one.
func (c *Chain) Node(token string) (*Node, bool) {
	id, ok := c.index[token]
	if !ok {
		return nil, false
	}
	return c.nodes[id], true
}

// Barrier returns the barrier node.
func (c *Chain) Barrier() *Node {
	return c.nodes[BarrierTokenID]
}

// Len returns the number of nodes, including the barrier.
func (c *Chain) Len() int {
	return len(c.nodes)
}

// Tokens returns every token in ID order, starting with the barrier.
func (c *Chain) Tokens() []string {
	tokens := make([]string, len(c.nodes))
	for i, n := range c.nodes {
		tokens[i] = n.text
	}
	return tokens
}

// Link is a single recorded transition and the number of times it was seen.
type Link struct {
	From  string
	To    string
	Count int
}

// Links returns every recorded transition, grouped by source token in ID
// order and, within a source, in the order the successors were first seen.
func (c *Chain) Links() []Link {
	var links []Link
	for _, n := range c.nodes {
		for _, l := range n.links {
			links = append(links, Link{From: n.text, To: c.nodes[l.to].text, Count: l.count})
		}
	}
	return links
}

// WordsOfLength returns every token whose length in characters is n. The
// barrier is never included.
func (c *Chain) WordsOfLength(n int) []string {
	var words []string
	for _, node := range c.nodes[1:] {
		if node.length == n {
			words = append(words, node.text)
		}
	}
	return words
}
