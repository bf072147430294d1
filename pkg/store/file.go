package store

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/CTAG07/typechain/pkg/markov"
	"github.com/natefinch/atomic"
)

const fileExt = ".chain.json"

// FileStore keeps one JSON document per chain in a directory. Writes are
// atomic, so a crash never leaves a half-written chain behind.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

// NewFileStore creates the directory if needed and returns a store rooted there.
func NewFileStore(dir string, logger *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create store directory: %w", err)
	}
	return &FileStore{dir: dir, logger: orDiscard(logger)}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+fileExt)
}

// Save writes the chain to <dir>/<name>.chain.json.
func (s *FileStore) Save(_ context.Context, name string, c *markov.Chain) error {
	if err := checkName(name); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := c.Export(&buf); err != nil {
		return fmt.Errorf("failed to encode chain %q: %w", name, err)
	}
	if err := atomic.WriteFile(s.path(name), &buf); err != nil {
		return fmt.Errorf("failed to write chain %q: %w", name, err)
	}
	s.logger.Info("Chain saved", "store", "file", "name", name, "path", s.path(name))
	return nil
}

// Load reads <dir>/<name>.chain.json.
func (s *FileStore) Load(_ context.Context, name string) (*markov.Chain, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	file, err := os.Open(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to open chain %q: %w", name, err)
	}
	defer func(file *os.File) {
		_ = file.Close()
	}(file)

	c, err := markov.ImportChain(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read chain %q: %w", name, err)
	}
	return c, nil
}

// List returns the names of all chain files in the directory.
func (s *FileStore) List(_ context.Context) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*"+fileExt))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(filepath.Base(m), fileExt))
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the chain file.
func (s *FileStore) Delete(_ context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := os.Remove(s.path(name)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return err
	}
	return nil
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error { return nil }
