package markov

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/CTAG07/typechain/pkg/keyboard"
)

// Successor is a token observed immediately after a node, with the number
// of times it was observed there.
type Successor struct {
	Token string
	Count int
}

// link is a successor reference into the owning chain's node arena.
type link struct {
	to    int
	count int
}

// Node is one vocabulary entry of a Chain. It counts the tokens seen
// immediately after it. Successors are kept in the order they were first
// recorded, and that order breaks ties between equal counts.
type Node struct {
	id      int
	text    string
	length  int
	fingers []int // nil when the token has characters without a finger class
	links   []link
	lookup  map[int]int // successor token ID -> index into links
	owner   *Chain
}

func fingerSequence(token string) []int {
	fingers, err := keyboard.Fingers(token)
	if err != nil {
		return nil
	}
	return fingers
}

// Text returns the node's token.
func (n *Node) Text() string { return n.text }

// Length returns the token's length in characters. The barrier has length 0.
func (n *Node) Length() int { return n.length }

// record increments the count for the successor with the given ID.
func (n *Node) record(to, count int) {
	if i, ok := n.lookup[to]; ok {
		n.links[i].count += count
		return
	}
	n.lookup[to] = len(n.links)
	n.links = append(n.links, link{to: to, count: count})
}

// Total returns the sum of all successor counts, which is the number of
// times this token was followed by anything during training.
func (n *Node) Total() int {
	total := 0
	for _, l := range n.links {
		total += l.count
	}
	return total
}

// Count returns how many times token followed this node.
func (n *Node) Count(token string) int {
	id, ok := n.owner.index[token]
	if !ok {
		return 0
	}
	i, ok := n.lookup[id]
	if !ok {
		return 0
	}
	return n.links[i].count
}

// Successors returns every successor in first-seen order.
func (n *Node) Successors() []Successor {
	out := make([]Successor, len(n.links))
	for i, l := range n.links {
		out[i] = Successor{Token: n.owner.nodes[l.to].text, Count: l.count}
	}
	return out
}

// WeightedChoice picks a successor with probability proportional to its
// count. A nil r uses the process-wide random source.
func (n *Node) WeightedChoice(r *rand.Rand) (string, error) {
	total := n.Total()
	if total == 0 {
		return "", fmt.Errorf("%w: %q", ErrEmptySuccessorSet, n.text)
	}
	var pick int
	if r != nil {
		pick = r.IntN(total)
	} else {
		pick = rand.IntN(total)
	}
	for _, l := range n.links {
		pick -= l.count
		if pick < 0 {
			return n.owner.nodes[l.to].text, nil
		}
	}
	// Unreachable while counts are positive.
	return "", fmt.Errorf("%w: %q", ErrEmptySuccessorSet, n.text)
}

// FilteredOptions returns the successors whose token satisfies pred. The
// boolean is false when nothing matches.
func (n *Node) FilteredOptions(pred func(token string) bool) ([]Successor, bool) {
	var out []Successor
	for _, l := range n.links {
		s := n.owner.nodes[l.to]
		if pred(s.text) {
			out = append(out, Successor{Token: s.text, Count: l.count})
		}
	}
	return out, len(out) > 0
}

// best returns the highest-count successor satisfying pred. The earliest
// recorded successor wins ties.
func (n *Node) best(pred func(s *Node) bool) (string, bool) {
	bestCount := 0
	var bestText string
	for _, l := range n.links {
		s := n.owner.nodes[l.to]
		if l.count > bestCount && pred(s) {
			bestCount = l.count
			bestText = s.text
		}
	}
	return bestText, bestCount > 0
}

// nearestDistance returns the smallest distance between target and the
// length of any successor other than the barrier, or -1 if there is none.
func (n *Node) nearestDistance(target int) int {
	nearest := -1
	for _, l := range n.links {
		length := n.owner.nodes[l.to].length
		if length < 1 {
			continue
		}
		d := length - target
		if d < 0 {
			d = -d
		}
		if nearest < 0 || d < nearest {
			nearest = d
		}
	}
	return nearest
}

// ChooseByLength returns the most frequent successor that is exactly target
// characters long. When there is none it falls back to the nearest distance
// d at which target-d or target+d matches a successor, and returns the most
// frequent successor of either length. ErrNoCandidate is returned when the
// node has no successor with a length at all.
func (n *Node) ChooseByLength(target int) (string, error) {
	if target < 1 {
		return "", fmt.Errorf("%w: length %d", ErrInvalidConstraint, target)
	}
	d := n.nearestDistance(target)
	if d < 0 {
		return "", fmt.Errorf("%w: no successor of %q near length %d", ErrNoCandidate, n.text, target)
	}
	lo, hi := target-d, target+d
	text, _ := n.best(func(s *Node) bool {
		return s.length >= 1 && (s.length == lo || s.length == hi)
	})
	return text, nil
}

// ChooseByFingers returns the most frequent successor typed with exactly the
// given finger classes. When no successor matches it falls back to
// ChooseByLength with the length of the sequence.
func (n *Node) ChooseByFingers(fingers []int) (string, error) {
	if err := validateFingers(fingers); err != nil {
		return "", err
	}
	text, ok := n.best(func(s *Node) bool {
		return s.length == len(fingers) && slices.Equal(s.fingers, fingers)
	})
	if ok {
		return text, nil
	}
	n.owner.logger.Debug("No finger match, falling back to length",
		"token", n.text,
		"fingers", fingers,
	)
	return n.ChooseByLength(len(fingers))
}

func validateFingers(fingers []int) error {
	if len(fingers) == 0 {
		return fmt.Errorf("%w: empty finger sequence", ErrInvalidConstraint)
	}
	for _, f := range fingers {
		if f < 0 || f >= keyboard.FingerClasses {
			return fmt.Errorf("%w: finger class %d out of range", ErrInvalidConstraint, f)
		}
	}
	return nil
}
