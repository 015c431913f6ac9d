// Package store archives fetched papers and resolved locations in SQLite so
// that separate pipeline runs can be compared and replayed.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/lehigh-university-libraries/collabmap/collab"
	"github.com/lehigh-university-libraries/collabmap/format/papers"
)

// Store is a SQLite-backed archive.
type Store struct {
	db *sql.DB
}

// Run identifies one command invocation that wrote to the archive.
type Run struct {
	ID        string
	Command   string
	StartedAt time.Time
}

// Open opens or creates the archive at path. ":memory:" gives a private
// in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", path, err)
	}
	// a single connection keeps ":memory:" databases shared and serialises writers
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating archive %s: %w", path, err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		command TEXT NOT NULL,
		started_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS papers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		title TEXT NOT NULL,
		authors TEXT NOT NULL,
		institutions TEXT NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS locations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		institution TEXT NOT NULL,
		latitude REAL,
		longitude REAL,
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_papers_run ON papers(run_id);
	CREATE INDEX IF NOT EXISTS idx_locations_run ON locations(run_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// BeginRun records a new run for command.
func (s *Store) BeginRun(ctx context.Context, command string) (Run, error) {
	run := Run{ID: uuid.NewString(), Command: command, StartedAt: time.Now().UTC()}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, command, started_at) VALUES (?, ?, ?)`,
		run.ID, run.Command, run.StartedAt.Format(time.RFC3339Nano))
	if err != nil {
		return Run{}, fmt.Errorf("recording run: %w", err)
	}
	return run, nil
}

// Runs lists recorded runs, oldest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, command, started_at FROM runs ORDER BY started_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started string
		if err := rows.Scan(&r.ID, &r.Command, &started); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if r.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("run %s start time: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// SavePaper archives p under runID. Lists are stored joined the same way
// as the papers table.
func (s *Store) SavePaper(ctx context.Context, runID string, p collab.Paper) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO papers (run_id, title, authors, institutions) VALUES (?, ?, ?, ?)`,
		runID, p.Title, strings.Join(p.Authors, papers.Separator), strings.Join(p.Institutions, papers.Separator))
	if err != nil {
		return fmt.Errorf("archiving paper %q: %w", p.Title, err)
	}
	return nil
}

// Papers returns archived papers for runID, or for every run when runID is empty.
func (s *Store) Papers(ctx context.Context, runID string) ([]collab.Paper, error) {
	query := `SELECT title, authors, institutions FROM papers`
	var args []any
	if runID != "" {
		query += ` WHERE run_id = ?`
		args = append(args, runID)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var out []collab.Paper
	for rows.Next() {
		var p collab.Paper
		var authors, insts string
		if err := rows.Scan(&p.Title, &authors, &insts); err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		p.Authors = split(authors)
		p.Institutions = split(insts)
		out = append(out, p)
	}
	return out, rows.Err()
}

// SaveLocations archives insts under runID in one transaction. Unknown
// coordinates are stored as NULL.
func (s *Store) SaveLocations(ctx context.Context, runID string, insts []collab.Institution) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO locations (run_id, institution, latitude, longitude) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing location insert: %w", err)
	}
	defer stmt.Close()

	for _, inst := range insts {
		var lat, lon sql.NullFloat64
		if inst.Coordinates.Known {
			lat = sql.NullFloat64{Float64: inst.Coordinates.Lat, Valid: true}
			lon = sql.NullFloat64{Float64: inst.Coordinates.Lon, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, runID, inst.Name, lat, lon); err != nil {
			return fmt.Errorf("archiving location %q: %w", inst.Name, err)
		}
	}
	return tx.Commit()
}

// Locations returns archived locations for runID, or for every run when runID is empty.
func (s *Store) Locations(ctx context.Context, runID string) ([]collab.Institution, error) {
	query := `SELECT institution, latitude, longitude FROM locations`
	var args []any
	if runID != "" {
		query += ` WHERE run_id = ?`
		args = append(args, runID)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying locations: %w", err)
	}
	defer rows.Close()

	var out []collab.Institution
	for rows.Next() {
		var inst collab.Institution
		var lat, lon sql.NullFloat64
		if err := rows.Scan(&inst.Name, &lat, &lon); err != nil {
			return nil, fmt.Errorf("scanning location: %w", err)
		}
		if lat.Valid && lon.Valid {
			inst.Coordinates = collab.At(lat.Float64, lon.Float64)
		}
		out = append(out, inst)
	}
	return out, rows.Err()
}

func split(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, papers.Separator)
}
