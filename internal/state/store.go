// Package state persists scan history in SQLite: one row per run plus the
// consolidated elements and mapping tables it produced.
package state

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver (pure Go)

	"github.com/leapstack-labs/sheetlens/internal/inventory"
)

// Store is a SQLite-backed scan-history store.
type Store struct {
	db   *sql.DB
	path string
}

// Run is one recorded scan.
type Run struct {
	ID           string
	Root         string
	StartedAt    time.Time
	FilesScanned int
	RowCount     int
	ErrorCount   int
	DurationMS   int64
}

// Open opens (or creates) the store at path and applies pending
// migrations. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening state database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging state database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun persists one completed scan with its consolidated summary.
func (s *Store) RecordRun(run Run, summary inventory.Summary) (*Run, error) {
	run.ID = uuid.New().String()
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(
		`INSERT INTO scan_runs (id, root, started_at, files_scanned, row_count, error_count, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Root, run.StartedAt, run.FilesScanned, run.RowCount, run.ErrorCount, run.DurationMS,
	)
	if err != nil {
		return nil, fmt.Errorf("recording run: %w", err)
	}

	if err := insertElements(tx, run.ID, summary); err != nil {
		return nil, err
	}
	if err := insertMappings(tx, run.ID, summary); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing run: %w", err)
	}
	return &run, nil
}

// RecentRuns returns the most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT id, root, started_at, files_scanned, row_count, error_count, duration_ms
		 FROM scan_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Root, &r.StartedAt, &r.FilesScanned,
			&r.RowCount, &r.ErrorCount, &r.DurationMS); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunElements returns the consolidated elements recorded for one run, as
// (type, name) pairs in insertion order.
func (s *Store) RunElements(runID string) (map[string][]string, error) {
	rows, err := s.db.Query(
		`SELECT element_type, name FROM inventory_elements WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying elements: %w", err)
	}
	defer func() { _ = rows.Close() }()

	elements := make(map[string][]string)
	for rows.Next() {
		var typ, name string
		if err := rows.Scan(&typ, &name); err != nil {
			return nil, fmt.Errorf("scanning element: %w", err)
		}
		elements[typ] = append(elements[typ], name)
	}
	return elements, rows.Err()
}

func insertElements(tx *sql.Tx, runID string, s inventory.Summary) error {
	groups := []struct {
		typ   string
		items []string
	}{
		{"server", s.Servers},
		{"database", s.Databases},
		{"schema", s.Schemas},
		{"table", s.Tables},
		{"source", s.Sources},
	}
	for _, g := range groups {
		for _, name := range g.items {
			_, err := tx.Exec(
				`INSERT INTO inventory_elements (run_id, element_type, name) VALUES (?, ?, ?)`,
				runID, g.typ, name)
			if err != nil {
				return fmt.Errorf("recording %s element: %w", g.typ, err)
			}
		}
	}
	return nil
}

func insertMappings(tx *sql.Tx, runID string, s inventory.Summary) error {
	for _, m := range s.QueryMappings {
		_, err := tx.Exec(
			`INSERT INTO query_mappings (run_id, query, servers, databases, schemas, table_names, sources, aligned)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, m.Query, joinList(m.Servers), joinList(m.Databases),
			joinList(m.Schemas), joinList(m.Tables), joinList(m.Sources), m.Aligned)
		if err != nil {
			return fmt.Errorf("recording query mapping: %w", err)
		}
	}
	for _, m := range s.ConnectionMappings {
		_, err := tx.Exec(
			`INSERT INTO connection_mappings (run_id, connection, kind, server, database_name, provider)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			runID, m.Connection, m.Kind, m.Server, m.Database, m.Provider)
		if err != nil {
			return fmt.Errorf("recording connection mapping: %w", err)
		}
	}
	return nil
}

func joinList(items []string) string {
	return strings.Join(items, "; ")
}
