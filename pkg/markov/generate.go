package markov

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
)

// generateOptions Is used by the generate functions to configure default options.
type generateOptions struct {
	rand *rand.Rand
}

// GenerateOption is a function that configures generation parameters. It's used
// as a variadic argument in Generate.
type GenerateOption func(*generateOptions)

// WithRand sets the random source used for unconstrained steps. A fixed seed
// makes generation reproducible. By default the process-wide source is used.
func WithRand(r *rand.Rand) GenerateOption {
	return func(o *generateOptions) { o.rand = r }
}

// Generate walks the chain from the barrier, producing one token per
// constraint. When a step cannot be satisfied, or the walk reaches the
// barrier, the Terminator is emitted and the walk restarts at the barrier.
// Constraints are validated before the walk starts.
func (c *Chain) Generate(constraints []Constraint, opts ...GenerateOption) ([]string, error) {
	for i, constraint := range constraints {
		if err := constraint.Validate(); err != nil {
			return nil, fmt.Errorf("constraint %d: %w", i, err)
		}
	}

	options := &generateOptions{}
	for _, opt := range opts {
		opt(options)
	}

	out := make([]string, 0, len(constraints))
	current := c.Barrier()
	resets := 0

	for i, constraint := range constraints {
		next, err := current.choose(constraint, options)
		if err != nil {
			if !errors.Is(err, ErrNoCandidate) && !errors.Is(err, ErrEmptySuccessorSet) {
				return nil, err
			}
			c.logger.Debug("Generation reset to barrier",
				slog.Int("step", i),
				slog.String("token", current.text),
				slog.String("constraint", constraint.String()),
				slog.Any("reason", err),
			)
			resets++
			out = append(out, Terminator)
			current = c.Barrier()
			continue
		}

		current = c.nodes[c.index[next]]
		if current.id == BarrierTokenID {
			out = append(out, Terminator)
			continue
		}
		out = append(out, next)
	}

	c.logger.Debug("Generation completed",
		slog.Int("generated_length", len(out)),
		slog.Int("resets", resets),
	)

	return out, nil
}

// choose dispatches a single step to the selection rule for its kind.
func (n *Node) choose(constraint Constraint, options *generateOptions) (string, error) {
	switch constraint.Kind {
	case Unconstrained:
		return n.WeightedChoice(options.rand)
	case ExactLength:
		return n.ChooseByLength(constraint.Length)
	case FingerSequence:
		return n.ChooseByFingers(constraint.Fingers)
	default:
		return "", fmt.Errorf("%w: unknown kind %d", ErrInvalidConstraint, int(constraint.Kind))
	}
}

// Join builds the final text from generated tokens using the chain's
// tokenizer separator rules.
func (c *Chain) Join(tokens []string) string {
	var builder strings.Builder
	for i, token := range tokens {
		if i > 0 {
			builder.WriteString(c.tokenizer.Separator(tokens[i-1], token))
		}
		builder.WriteString(token)
	}
	return builder.String()
}
