package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Registry using SQLite. Agent nodes live in the
// agents table; capability edges live in agent_capabilities. Each public
// method runs inside a single transaction released on every exit path.
type SQLiteStore struct {
	db *sql.DB
}

var _ Registry = (*SQLiteStore)(nil)

// NewSQLite creates a new SQLite-backed registry at dbPath. The parent
// directory is created if missing. Use ":memory:" for an ephemeral store.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, &Error{Op: "open", Err: fmt.Errorf("create database directory: %w", err)}
		}
		// WAL mode for better concurrency.
		dsn = dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &Error{Op: "open", Err: err}
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, &Error{Op: "open", Err: err}
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS agents (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		props_json TEXT NOT NULL DEFAULT '{}',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS agent_capabilities (
		agent_id TEXT NOT NULL,
		capability TEXT NOT NULL,
		PRIMARY KEY (agent_id, capability)
	);
	CREATE INDEX IF NOT EXISTS idx_agent_capabilities ON agent_capabilities(capability);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return &Error{Op: "ping", Err: err}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Register upserts the record by id, merging onto any existing node:
// non-empty scalar fields overwrite, Props entries merge, and a non-nil
// Capabilities slice replaces the capability edges.
func (s *SQLiteStore) Register(ctx context.Context, rec Record) (*Record, error) {
	if rec.ID == "" {
		return nil, &Error{Op: "register", Err: fmt.Errorf("record id must not be empty")}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, &Error{Op: "register", Err: err}
	}
	defer tx.Rollback()

	existing, err := getTx(ctx, tx, rec.ID)
	if err != nil {
		return nil, &Error{Op: "register", Err: err}
	}

	merged := rec
	if existing != nil {
		merged = mergeRecord(*existing, rec)
	}
	if merged.Props == nil {
		merged.Props = map[string]any{}
	}
	sort.Strings(merged.Capabilities)

	if err := putTx(ctx, tx, merged, existing == nil); err != nil {
		return nil, &Error{Op: "register", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return nil, &Error{Op: "register", Err: err}
	}
	return &merged, nil
}

// Get returns the record or nil when the id is unknown.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, &Error{Op: "get", Err: err}
	}
	defer tx.Rollback()

	rec, err := getTx(ctx, tx, id)
	if err != nil {
		return nil, &Error{Op: "get", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return nil, &Error{Op: "get", Err: err}
	}
	return rec, nil
}

// List returns all records.
func (s *SQLiteStore) List(ctx context.Context) ([]Record, error) {
	recs, err := s.listWhere(ctx, `SELECT id, name, type, status, props_json FROM agents`)
	if err != nil {
		return nil, &Error{Op: "list", Err: err}
	}
	return recs, nil
}

// ListByCapability returns all records declaring the capability.
func (s *SQLiteStore) ListByCapability(ctx context.Context, capability string) ([]Record, error) {
	query := `
		SELECT a.id, a.name, a.type, a.status, a.props_json
		FROM agents a
		JOIN agent_capabilities c ON c.agent_id = a.id
		WHERE c.capability = ?`
	recs, err := s.listWhere(ctx, query, capability)
	if err != nil {
		return nil, &Error{Op: "list_by_capability", Err: err}
	}
	return recs, nil
}

// Update merges the patch onto an existing record. Unknown ids return
// (nil, nil) and perform no write; Update never creates.
func (s *SQLiteStore) Update(ctx context.Context, id string, patch Patch) (*Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, &Error{Op: "update", Err: err}
	}
	defer tx.Rollback()

	existing, err := getTx(ctx, tx, id)
	if err != nil {
		return nil, &Error{Op: "update", Err: err}
	}
	if existing == nil {
		return nil, nil
	}

	merged := applyPatch(*existing, patch)
	sort.Strings(merged.Capabilities)
	if err := putTx(ctx, tx, merged, false); err != nil {
		return nil, &Error{Op: "update", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return nil, &Error{Op: "update", Err: err}
	}
	return &merged, nil
}

// Remove deletes the node and its capability edges. Idempotent.
func (s *SQLiteStore) Remove(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &Error{Op: "remove", Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM agent_capabilities WHERE agent_id = ?`, id); err != nil {
		return &Error{Op: "remove", Err: err}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM agents WHERE id = ?`, id); err != nil {
		return &Error{Op: "remove", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &Error{Op: "remove", Err: err}
	}
	return nil
}

func (s *SQLiteStore) listWhere(ctx context.Context, query string, args ...any) ([]Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i := range recs {
		caps, err := capabilitiesTx(ctx, tx, recs[i].ID)
		if err != nil {
			return nil, err
		}
		recs[i].Capabilities = caps
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return recs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var propsJSON string
	if err := row.Scan(&rec.ID, &rec.Name, &rec.Type, &rec.Status, &propsJSON); err != nil {
		return rec, err
	}
	if propsJSON != "" && propsJSON != "{}" {
		if err := json.Unmarshal([]byte(propsJSON), &rec.Props); err != nil {
			return rec, fmt.Errorf("decode props for %s: %w", rec.ID, err)
		}
	}
	return rec, nil
}

func getTx(ctx context.Context, tx *sql.Tx, id string) (*Record, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT id, name, type, status, props_json FROM agents WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	caps, err := capabilitiesTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	rec.Capabilities = caps
	return &rec, nil
}

func capabilitiesTx(ctx context.Context, tx *sql.Tx, id string) ([]string, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT capability FROM agent_capabilities WHERE agent_id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var caps []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		caps = append(caps, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Strings(caps)
	return caps, nil
}

func putTx(ctx context.Context, tx *sql.Tx, rec Record, create bool) error {
	propsJSON, err := json.Marshal(rec.Props)
	if err != nil {
		return fmt.Errorf("encode props: %w", err)
	}
	now := time.Now().Unix()

	if create {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO agents (id, name, type, status, props_json, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, rec.Name, rec.Type, rec.Status, string(propsJSON), now, now)
	} else {
		_, err = tx.ExecContext(ctx, `
			UPDATE agents SET name = ?, type = ?, status = ?, props_json = ?, updated_at = ?
			WHERE id = ?`,
			rec.Name, rec.Type, rec.Status, string(propsJSON), now, rec.ID)
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM agent_capabilities WHERE agent_id = ?`, rec.ID); err != nil {
		return err
	}
	for _, c := range rec.Capabilities {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO agent_capabilities (agent_id, capability) VALUES (?, ?)`,
			rec.ID, c); err != nil {
			return err
		}
	}
	return nil
}

// mergeRecord overlays incoming onto existing: non-empty scalars win, Props
// merge key-wise, a non-nil Capabilities slice replaces the existing edges.
func mergeRecord(existing, incoming Record) Record {
	out := existing
	if incoming.Name != "" {
		out.Name = incoming.Name
	}
	if incoming.Type != "" {
		out.Type = incoming.Type
	}
	if incoming.Status != "" {
		out.Status = incoming.Status
	}
	if incoming.Capabilities != nil {
		out.Capabilities = incoming.Capabilities
	}
	if len(incoming.Props) > 0 {
		if out.Props == nil {
			out.Props = map[string]any{}
		}
		for k, v := range incoming.Props {
			out.Props[k] = v
		}
	}
	return out
}

func applyPatch(existing Record, patch Patch) Record {
	out := existing
	if patch.Name != nil {
		out.Name = *patch.Name
	}
	if patch.Type != nil {
		out.Type = *patch.Type
	}
	if patch.Status != nil {
		out.Status = *patch.Status
	}
	if patch.Capabilities != nil {
		out.Capabilities = patch.Capabilities
	}
	if len(patch.Props) > 0 {
		if out.Props == nil {
			out.Props = map[string]any{}
		}
		for k, v := range patch.Props {
			out.Props[k] = v
		}
	}
	return out
}
