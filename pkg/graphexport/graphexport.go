// Package graphexport renders the links of a trained chain for inspection
// with external tools.
package graphexport

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/CTAG07/typechain/pkg/markov"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/multi"
)

// Format selects how links are written.
type Format string

const (
	// FormatEdges writes one "from -> to [weight]" line per link.
	FormatEdges Format = "edges"
	// FormatDOT writes a Graphviz digraph.
	FormatDOT Format = "dot"
)

// ParseFormat accepts "edges" or "dot", ignoring case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatEdges, FormatDOT:
		return f, nil
	default:
		return "", fmt.Errorf("unknown graph format %q", s)
	}
}

// Write renders every link of c to w in the given format. The chain is only read.
func Write(w io.Writer, c *markov.Chain, format Format) error {
	bw := bufio.NewWriter(w)
	var err error
	switch format {
	case FormatEdges:
		err = writeEdges(bw, c)
	case FormatDOT:
		err = writeDOT(bw, c)
	default:
		return fmt.Errorf("unknown graph format %q", format)
	}
	if err != nil {
		return err
	}
	return bw.Flush()
}

func writeEdges(w *bufio.Writer, c *markov.Chain) error {
	for _, l := range c.Links() {
		if _, err := fmt.Fprintf(w, "%s -> %s [%d]\n", l.From, l.To, l.Count); err != nil {
			return err
		}
	}
	return nil
}

// tokenNode is a chain token as a gonum graph node.
type tokenNode struct {
	id   int64
	text string
}

func (n tokenNode) ID() int64 { return n.id }

// DOTID returns the token as a quoted DOT ID.
func (n tokenNode) DOTID() string { return strconv.Quote(n.text) }

// linkLine is one recorded transition. Tokens may follow themselves, so
// links are lines of a multigraph.
type linkLine struct {
	id       int64
	from, to tokenNode
	count    int
}

func (l linkLine) From() graph.Node { return l.from }
func (l linkLine) To() graph.Node   { return l.to }
func (l linkLine) ID() int64        { return l.id }

func (l linkLine) ReversedLine() graph.Line {
	l.from, l.to = l.to, l.from
	return l
}

func (l linkLine) Attributes() []encoding.Attribute {
	count := strconv.Itoa(l.count)
	return []encoding.Attribute{
		{Key: "label", Value: count},
		{Key: "weight", Value: count},
	}
}

// chainGraph projects the chain's tokens and links onto a gonum multigraph.
func chainGraph(c *markov.Chain) *multi.DirectedGraph {
	g := multi.NewDirectedGraph()
	nodes := make(map[string]tokenNode)
	for i, token := range c.Tokens() {
		n := tokenNode{id: int64(i), text: token}
		nodes[token] = n
		g.AddNode(n)
	}
	for i, l := range c.Links() {
		g.SetLine(linkLine{id: int64(i), from: nodes[l.From], to: nodes[l.To], count: l.Count})
	}
	return g
}

func writeDOT(w *bufio.Writer, c *markov.Chain) error {
	data, err := dot.MarshalMulti(chainGraph(c), "chain", "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode dot graph: %w", err)
	}
	if _, err = w.Write(data); err != nil {
		return err
	}
	return w.WriteByte('\n')
}
