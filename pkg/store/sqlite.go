package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/CTAG07/typechain/pkg/markov"
)

// SetupSchema initializes the tables used by SQLiteStore. It is idempotent
// and safe to call on an already-initialized database.
func SetupSchema(db *sql.DB) error {

	const (
		schemaModels = `
CREATE TABLE IF NOT EXISTS chain_models (
    model_id INTEGER PRIMARY KEY,
    model_name TEXT NOT NULL UNIQUE
);
`
		schemaVocab = `
CREATE TABLE IF NOT EXISTS chain_vocabulary (
    model_id INTEGER NOT NULL,
    token_id INTEGER NOT NULL,
    token_text TEXT NOT NULL,
    PRIMARY KEY (model_id, token_id)
);
`
		schemaLinks = `
CREATE TABLE IF NOT EXISTS chain_links (
    model_id INTEGER NOT NULL,
    from_id INTEGER NOT NULL,
    link_order INTEGER NOT NULL,
    to_id INTEGER NOT NULL,
    frequency INTEGER NOT NULL,
    PRIMARY KEY (model_id, from_id, link_order)
);
`
	)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.Exec(schemaModels); err != nil {
		return fmt.Errorf("could not create models schema: %w", err)
	}
	if _, err = tx.Exec(schemaVocab); err != nil {
		return fmt.Errorf("could not create vocabulary schema: %w", err)
	}
	if _, err = tx.Exec(schemaLinks); err != nil {
		return fmt.Errorf("could not create links schema: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

// SQLiteStore keeps chains in a SQLite database. The caller opens the
// database with whichever driver it links in and calls SetupSchema once.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore returns a store backed by db. Closing the store closes db.
func NewSQLiteStore(db *sql.DB, logger *slog.Logger) *SQLiteStore {
	return &SQLiteStore{db: db, logger: orDiscard(logger)}
}

// Save replaces the chain stored under name inside a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, name string, c *markov.Chain) error {
	if err := checkName(name); err != nil {
		return err
	}
	exported := c.Snapshot()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction for save: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	var modelID int64
	err = tx.QueryRowContext(ctx, "SELECT model_id FROM chain_models WHERE model_name = ?", name).Scan(&modelID)
	if errors.Is(err, sql.ErrNoRows) {
		res, err := tx.ExecContext(ctx, "INSERT INTO chain_models (model_name) VALUES (?)", name)
		if err != nil {
			return fmt.Errorf("failed to insert model '%s': %w", name, err)
		}
		if modelID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("failed to read id of model '%s': %w", name, err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to query for model '%s': %w", name, err)
	} else {
		if _, err = tx.ExecContext(ctx, "DELETE FROM chain_links WHERE model_id = ?", modelID); err != nil {
			return fmt.Errorf("failed to clear links for model '%s': %w", name, err)
		}
		if _, err = tx.ExecContext(ctx, "DELETE FROM chain_vocabulary WHERE model_id = ?", modelID); err != nil {
			return fmt.Errorf("failed to clear vocabulary for model '%s': %w", name, err)
		}
	}

	stmtVocab, err := tx.PrepareContext(ctx, "INSERT INTO chain_vocabulary (model_id, token_id, token_text) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare vocabulary insert statement: %w", err)
	}
	defer func(stmt *sql.Stmt) {
		_ = stmt.Close()
	}(stmtVocab)

	for id, text := range exported.Vocabulary {
		if _, err = stmtVocab.ExecContext(ctx, modelID, id, text); err != nil {
			return fmt.Errorf("failed to insert vocab '%s': %w", text, err)
		}
	}

	stmtLink, err := tx.PrepareContext(ctx, "INSERT INTO chain_links (model_id, from_id, link_order, to_id, frequency) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare link insert statement: %w", err)
	}
	defer func(stmt *sql.Stmt) {
		_ = stmt.Close()
	}(stmtLink)

	order := make(map[int]int)
	for _, l := range exported.Links {
		if _, err = stmtLink.ExecContext(ctx, modelID, l.From, order[l.From], l.To, l.Count); err != nil {
			return fmt.Errorf("failed to insert chain link (%d -> %d): %w", l.From, l.To, err)
		}
		order[l.From]++
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit save of '%s': %w", name, err)
	}

	s.logger.InfoContext(ctx, "Chain saved",
		slog.String("store", "sqlite"),
		slog.String("name", name),
		slog.Int64("model_id", modelID),
		slog.Int("vocab_items_saved", len(exported.Vocabulary)),
		slog.Int("links_saved", len(exported.Links)),
	)
	return nil
}

// Load reads the chain stored under name.
func (s *SQLiteStore) Load(ctx context.Context, name string) (*markov.Chain, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	var modelID int64
	err := s.db.QueryRowContext(ctx, "SELECT model_id FROM chain_models WHERE model_name = ?", name).Scan(&modelID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query for model '%s': %w", name, err)
	}

	var exported markov.ExportedChain

	vRows, err := s.db.QueryContext(ctx, "SELECT token_text FROM chain_vocabulary WHERE model_id = ? ORDER BY token_id", modelID)
	if err != nil {
		return nil, fmt.Errorf("could not query vocabulary: %w", err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(vRows)
	for vRows.Next() {
		var text string
		if err = vRows.Scan(&text); err != nil {
			return nil, err
		}
		exported.Vocabulary = append(exported.Vocabulary, text)
	}
	if err = vRows.Err(); err != nil {
		return nil, err
	}

	lRows, err := s.db.QueryContext(ctx, "SELECT from_id, to_id, frequency FROM chain_links WHERE model_id = ? ORDER BY from_id, link_order", modelID)
	if err != nil {
		return nil, fmt.Errorf("could not query links: %w", err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(lRows)
	for lRows.Next() {
		var l markov.ExportedLink
		if err = lRows.Scan(&l.From, &l.To, &l.Count); err != nil {
			return nil, err
		}
		exported.Links = append(exported.Links, l)
	}
	if err = lRows.Err(); err != nil {
		return nil, err
	}

	c, err := rebuild(exported)
	if err != nil {
		return nil, fmt.Errorf("stored chain '%s' is inconsistent: %w", name, err)
	}
	return c, nil
}

// List returns every stored model name.
func (s *SQLiteStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT model_name FROM chain_models ORDER BY model_name")
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Delete removes a model and all of its rows within a transaction.
func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	var modelID int64
	err = tx.QueryRowContext(ctx, "SELECT model_id FROM chain_models WHERE model_name = ?", name).Scan(&modelID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM chain_links WHERE model_id = ?", modelID); err != nil {
		return fmt.Errorf("failed to remove links for model %d: %w", modelID, err)
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM chain_vocabulary WHERE model_id = ?", modelID); err != nil {
		return fmt.Errorf("failed to remove vocabulary for model %d: %w", modelID, err)
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM chain_models WHERE model_id = ?", modelID); err != nil {
		return fmt.Errorf("failed to remove model %d: %w", modelID, err)
	}

	s.logger.InfoContext(ctx, "Chain removed",
		slog.String("store", "sqlite"),
		slog.String("name", name),
		slog.Int64("model_id", modelID),
	)
	return tx.Commit()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
