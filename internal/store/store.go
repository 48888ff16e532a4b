// Package store persists fund snapshots in SQLite so a later start can
// serve the last synced catalog.
package store

import (
	"bytes"
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/seenimoa/fundlens/pkg/models"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

var (
	// ErrNoSnapshot is returned when the store holds no funds.
	ErrNoSnapshot = errors.New("no fund snapshot stored")
	// ErrNoRuns is returned when no sync has been recorded.
	ErrNoRuns = errors.New("no sync runs recorded")
)

// SyncRun records one saved snapshot.
type SyncRun struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	FundCount  int       `json:"fund_count"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Store wraps the snapshot database.
type Store struct {
	conn *sql.DB
	path string
	now  func() time.Time
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	conn.SetMaxOpenConns(4)
	conn.SetMaxIdleConns(2)

	return &Store{conn: conn, path: path, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Path is the database file.
func (s *Store) Path() string { return s.path }

// Migrate applies the embedded schema migrations.
func (s *Store) Migrate() error {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(s.conn, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("preparing migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("preparing migrations: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

// SaveSnapshot replaces the stored funds with funds in one transaction and
// records the run. It returns the run id.
func (s *Store) SaveSnapshot(ctx context.Context, funds []models.Fund, source string) (string, error) {
	started := s.now()
	runID := uuid.NewString()

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM funds`); err != nil {
		return "", fmt.Errorf("clearing funds: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sync_runs (id, source, fund_count, started_at, finished_at) VALUES (?, ?, ?, ?, ?)`,
		runID, source, len(funds), started.UnixMilli(), started.UnixMilli(),
	); err != nil {
		return "", fmt.Errorf("recording run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO funds (id, position, run_id, scheme_name, amc, category, body) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing fund insert: %w", err)
	}
	defer stmt.Close()

	for i := range funds {
		body, err := encodeFund(&funds[i])
		if err != nil {
			return "", fmt.Errorf("encoding fund %s: %w", funds[i].ID, err)
		}
		f := &funds[i]
		if _, err := stmt.ExecContext(ctx, f.ID, i, runID, f.SchemeName, f.AMC, string(f.Category), body); err != nil {
			return "", fmt.Errorf("inserting fund %s: %w", f.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE sync_runs SET finished_at = ? WHERE id = ?`, s.now().UnixMilli(), runID,
	); err != nil {
		return "", fmt.Errorf("finishing run: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit snapshot: %w", err)
	}
	return runID, nil
}

// LoadFunds returns the stored funds in the order they were saved.
func (s *Store) LoadFunds(ctx context.Context) ([]models.Fund, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT id, body FROM funds ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying funds: %w", err)
	}
	defer rows.Close()

	var funds []models.Fund
	for rows.Next() {
		var id string
		var body []byte
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("scanning fund: %w", err)
		}
		f, err := decodeFund(body)
		if err != nil {
			return nil, fmt.Errorf("decoding fund %s: %w", id, err)
		}
		funds = append(funds, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(funds) == 0 {
		return nil, ErrNoSnapshot
	}
	return funds, nil
}

// LastRun returns the most recent sync run.
func (s *Store) LastRun(ctx context.Context) (*SyncRun, error) {
	var run SyncRun
	var started, finished int64
	err := s.conn.QueryRowContext(ctx,
		`SELECT id, source, fund_count, started_at, finished_at
		   FROM sync_runs ORDER BY finished_at DESC, rowid DESC LIMIT 1`,
	).Scan(&run.ID, &run.Source, &run.FundCount, &started, &finished)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, fmt.Errorf("querying last run: %w", err)
	}
	run.StartedAt = time.UnixMilli(started)
	run.FinishedAt = time.UnixMilli(finished)
	return &run, nil
}

// Fund bodies reuse the JSON field names so the stored layout matches the API.
func encodeFund(f *models.Fund) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeFund(body []byte) (models.Fund, error) {
	var f models.Fund
	dec := msgpack.NewDecoder(bytes.NewReader(body))
	dec.SetCustomStructTag("json")
	err := dec.Decode(&f)
	return f, err
}
