package autosave

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/promptflow/promptflow/pkg/promptflow"
)

// SQLiteStore persists flows to SQLite.
// It is suitable for single-process production use.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore creates a new SQLite flow store.
// The path should be a file path (e.g., "./flows.db") or ":memory:" for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS flows (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			nodes BLOB NOT NULL,
			edges BLOB NOT NULL,
			provider_id TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(ctx context.Context, rec FlowRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	nodes, err := json.Marshal(rec.Nodes)
	if err != nil {
		return fmt.Errorf("encode nodes: %w", err)
	}
	edges, err := json.Marshal(rec.Edges)
	if err != nil {
		return fmt.Errorf("encode edges: %w", err)
	}

	now := time.Now().UTC()
	created := rec.CreatedAt
	if created.IsZero() {
		created = now
	}

	// Upsert; an existing row keeps its created_at.
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO flows (id, name, nodes, edges, provider_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			nodes = excluded.nodes,
			edges = excluded.edges,
			provider_id = excluded.provider_id,
			updated_at = excluded.updated_at
	`, rec.ID, rec.Name, nodes, edges, rec.ProviderID,
		created.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))

	if err != nil {
		return fmt.Errorf("save flow: %w", err)
	}
	return nil
}

// Load implements Store.
func (s *SQLiteStore) Load(ctx context.Context, flowID string) (FlowRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return FlowRecord{}, ErrStoreClosed
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, nodes, edges, provider_id, created_at, updated_at
		FROM flows WHERE id = ?
	`, flowID)

	rec, err := scanFlow(row)
	if err == sql.ErrNoRows {
		return FlowRecord{}, ErrNotFound
	}
	if err != nil {
		return FlowRecord{}, fmt.Errorf("load flow: %w", err)
	}
	return rec, nil
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context) ([]FlowRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, nodes, edges, provider_id, created_at, updated_at
		FROM flows ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list flows: %w", err)
	}
	defer rows.Close()

	var recs []FlowRecord
	for rows.Next() {
		rec, err := scanFlow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan flow: %w", err)
		}
		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate flows: %w", err)
	}
	return recs, nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(ctx context.Context, flowID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM flows WHERE id = ?`, flowID); err != nil {
		return fmt.Errorf("delete flow: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFlow(row rowScanner) (FlowRecord, error) {
	var rec FlowRecord
	var nodes, edges []byte
	var created, updated string

	if err := row.Scan(&rec.ID, &rec.Name, &nodes, &edges, &rec.ProviderID, &created, &updated); err != nil {
		return FlowRecord{}, err
	}

	if err := json.Unmarshal(nodes, &rec.Nodes); err != nil {
		return FlowRecord{}, fmt.Errorf("decode nodes: %w", err)
	}
	if err := json.Unmarshal(edges, &rec.Edges); err != nil {
		return FlowRecord{}, fmt.Errorf("decode edges: %w", err)
	}
	if rec.Nodes == nil {
		rec.Nodes = []promptflow.Node{}
	}
	if rec.Edges == nil {
		rec.Edges = []promptflow.Edge{}
	}

	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return rec, nil
}
