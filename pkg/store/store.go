// Package store persists trained chains by name. Every backend saves the
// full markov.ExportedChain state, so a loaded chain answers every query
// exactly like the chain that was saved.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"

	"github.com/CTAG07/typechain/pkg/markov"
)

// ErrNotFound is returned when no chain is stored under a name.
var ErrNotFound = errors.New("store: chain not found")

// ErrInvalidName is returned for names that are empty or contain characters
// outside [A-Za-z0-9_.-].
var ErrInvalidName = errors.New("store: invalid chain name")

// Store saves and loads chains by name.
type Store interface {
	// Save replaces whatever is stored under name with the chain's state.
	Save(ctx context.Context, name string, c *markov.Chain) error
	// Load returns a new chain with the state stored under name.
	Load(ctx context.Context, name string) (*markov.Chain, error)
	// List returns the stored names in lexical order.
	List(ctx context.Context) ([]string, error)
	// Delete removes the chain stored under name.
	Delete(ctx context.Context, name string) error
	// Close releases the backend's resources.
	Close() error
}

var validName = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

func checkName(name string) error {
	if !validName.MatchString(name) || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// rebuild turns a stored snapshot back into a chain.
func rebuild(exported markov.ExportedChain) (*markov.Chain, error) {
	c := markov.NewChain()
	if err := c.Merge(exported); err != nil {
		return nil, err
	}
	return c, nil
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return logger
}
