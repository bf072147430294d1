package markov

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
)

// ExportedChain is the serializable representation of a trained chain,
// used for JSON-based import and export and by the stores.
type ExportedChain struct {
	Vocabulary []string       `json:"vocabulary"` // index is the token ID; index 0 is the barrier
	Links      []ExportedLink `json:"links"`
}

// ExportedLink is the serializable representation of a single link in a
// chain, used within an ExportedChain.
type ExportedLink struct {
	From  int `json:"from"`
	To    int `json:"to"`
	Count int `json:"count"`
}

// Snapshot returns the full state of the chain. Links are listed per source
// token in ID order and, within a source, in first-seen order, so merging a
// snapshot into a new chain reproduces the same IDs and tie-break order.
func (c *Chain) Snapshot() ExportedChain {
	exported := ExportedChain{
		Vocabulary: c.Tokens(),
		Links:      make([]ExportedLink, 0, len(c.nodes)),
	}
	for _, n := range c.nodes {
		for _, l := range n.links {
			exported.Links = append(exported.Links, ExportedLink{From: n.id, To: l.to, Count: l.count})
		}
	}
	return exported
}

// Merge adds the contents of an exported chain to this chain. Tokens are
// re-mapped to this chain's IDs and counts of existing links are added
// together. The exported chain is validated before anything is changed.
func (c *Chain) Merge(imported ExportedChain) error {
	if len(imported.Vocabulary) == 0 || imported.Vocabulary[0] != BarrierTokenText {
		return fmt.Errorf("consistency error: vocabulary must start with %s", BarrierTokenText)
	}
	seen := make(map[string]struct{}, len(imported.Vocabulary))
	for _, text := range imported.Vocabulary {
		if _, dup := seen[text]; dup {
			return fmt.Errorf("consistency error: duplicate vocabulary entry %q", text)
		}
		seen[text] = struct{}{}
	}
	for _, l := range imported.Links {
		if l.From < 0 || l.From >= len(imported.Vocabulary) || l.To < 0 || l.To >= len(imported.Vocabulary) {
			return fmt.Errorf("consistency error: link %d -> %d references unknown token", l.From, l.To)
		}
		if l.Count < 1 {
			return fmt.Errorf("consistency error: link %d -> %d has count %d", l.From, l.To, l.Count)
		}
	}

	idMap := make([]int, len(imported.Vocabulary)) // old_id -> new_id
	for oldID, text := range imported.Vocabulary {
		idMap[oldID] = c.ensureNode(text)
	}
	for _, l := range imported.Links {
		c.nodes[idMap[l.From]].record(idMap[l.To], l.Count)
	}

	c.logger.Info("Chain merged",
		slog.Int("vocab_items_merged", len(imported.Vocabulary)),
		slog.Int("links_merged", len(imported.Links)),
	)
	return nil
}

// Export serializes the chain as JSON and writes it to w.
func (c *Chain) Export(w io.Writer) error {
	exported := c.Snapshot()

	c.logger.Info("Chain exported",
		slog.Int("vocab_items_exported", len(exported.Vocabulary)),
		slog.Int("links_exported", len(exported.Links)),
	)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(exported)
}

// Import reads a JSON chain written by Export and merges it into this chain.
func (c *Chain) Import(r io.Reader) error {
	var imported ExportedChain
	if err := json.NewDecoder(r).Decode(&imported); err != nil {
		return fmt.Errorf("failed to decode json chain: %w", err)
	}
	return c.Merge(imported)
}

// ImportChain reads a JSON chain into a new Chain.
func ImportChain(r io.Reader) (*Chain, error) {
	c := NewChain()
	if err := c.Import(r); err != nil {
		return nil, err
	}
	return c, nil
}
