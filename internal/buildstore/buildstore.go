// Package buildstore persists build-service history to SQLite, giving
// GET /builds/{id} something to read back after the in-process build that
// produced it has finished. Adapted from server/dao/sqlite's single-table
// repositories (SessionsDB in particular): one table, a base64-over-rezi
// blob column for the part that isn't flat relational data, and a
// wrapDBError translating driver errors into a small package-level taxonomy.
package buildstore

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
	"modernc.org/sqlite"

	"github.com/dekarrin/marzipan/internal/diag"
)

// ErrNotFound is returned by GetByID when no record exists for the given ID.
var ErrNotFound = errors.New("the requested build record was not found")

// Record is one recorded build: the outcome of a single POST /builds call.
type Record struct {
	ID          uuid.UUID
	CreatedAt   time.Time
	WorldName   string
	ErrorCount  int
	AnyErrors   bool
	Diagnostics []diag.Message
}

// Store is a SQLite-backed history of build records.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path and
// ensures its schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, wrapDBError(err)
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	stmt := `CREATE TABLE IF NOT EXISTS builds (
		id TEXT NOT NULL PRIMARY KEY,
		world_name TEXT NOT NULL,
		error_count INTEGER NOT NULL,
		any_errors INTEGER NOT NULL,
		diagnostics TEXT NOT NULL,
		created INTEGER NOT NULL
	);`
	if _, err := s.db.Exec(stmt); err != nil {
		return wrapDBError(err)
	}
	return nil
}

// Create records a finished build and returns it with its assigned ID and
// timestamp filled in.
func (s *Store) Create(ctx context.Context, rec Record) (Record, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return Record{}, fmt.Errorf("generate build ID: %w", err)
	}
	rec.ID = id
	rec.CreatedAt = time.Now()

	diagData := rezi.EncBinary(rec.Diagnostics)
	encDiag := base64.StdEncoding.EncodeToString(diagData)

	stmt, err := s.db.Prepare(`INSERT INTO builds (id, world_name, error_count, any_errors, diagnostics, created) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Record{}, wrapDBError(err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, rec.ID.String(), rec.WorldName, rec.ErrorCount, boolInt(rec.AnyErrors), encDiag, rec.CreatedAt.Unix())
	if err != nil {
		return Record{}, wrapDBError(err)
	}

	return rec, nil
}

// GetByID fetches a previously recorded build by its ID.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (Record, error) {
	rec := Record{ID: id}
	var errorCount int
	var anyErrors int
	var encDiag string
	var created int64

	row := s.db.QueryRowContext(ctx, `SELECT world_name, error_count, any_errors, diagnostics, created FROM builds WHERE id = ?;`, id.String())
	if err := row.Scan(&rec.WorldName, &errorCount, &anyErrors, &encDiag, &created); err != nil {
		return Record{}, wrapDBError(err)
	}

	rec.ErrorCount = errorCount
	rec.AnyErrors = anyErrors != 0
	rec.CreatedAt = time.Unix(created, 0)

	diagData, err := base64.StdEncoding.DecodeString(encDiag)
	if err != nil {
		return rec, fmt.Errorf("stored diagnostics for build %s are not valid base64: %w", rec.ID, err)
	}

	n, err := rezi.DecBinary(diagData, &rec.Diagnostics)
	if err != nil {
		return rec, fmt.Errorf("decoding stored diagnostics for build %s: %w", rec.ID, err)
	}
	if n != len(diagData) {
		return rec, fmt.Errorf("stored diagnostics for build %s: decoded %d/%d bytes", rec.ID, n, len(diagData))
	}

	return rec, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
