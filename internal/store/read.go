package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/blackroad-os/statesync/internal/integrity"
	"github.com/blackroad-os/statesync/internal/state"
)

// ErrNoSnapshots is returned when the history holds no rows.
var ErrNoSnapshots = errors.New("no snapshots recorded")

// Snapshot is one historical signing: the record plus the full document
// JSON it certified.
type Snapshot struct {
	ID         string `json:"id"`
	CapturedAt string `json:"captured_at"`
	Record     integrity.Record
	Document   []byte `json:"-"`
}

// Latest returns the most recent snapshot.
func (s *Store) Latest(ctx context.Context) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, captured_at, sha256, sha_infinity, chain_depth, algorithm, document
		FROM snapshots
		ORDER BY captured_at DESC, id DESC
		LIMIT 1
	`)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNoSnapshots
	}
	return snap, err
}

// Get returns a snapshot by ID.
func (s *Store) Get(ctx context.Context, id string) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, captured_at, sha256, sha_infinity, chain_depth, algorithm, document
		FROM snapshots
		WHERE id = ?
	`, id)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("snapshot %s: %w", id, ErrNoSnapshots)
	}
	return snap, err
}

// List returns snapshots newest-first, up to limit. limit <= 0 means all.
func (s *Store) List(ctx context.Context, limit int) ([]Snapshot, error) {
	query := `
		SELECT id, captured_at, sha256, sha_infinity, chain_depth, algorithm, document
		FROM snapshots
		ORDER BY captured_at DESC, id DESC
	`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.db.QueryContext(ctx, query+" LIMIT ?", limit)
	} else {
		rows, err = s.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("list snapshots: %w", err)
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return snaps, nil
}

// ParseDocument decodes the snapshot's stored document.
func (snap Snapshot) ParseDocument() (state.Document, error) {
	return state.ParseDocument(snap.Document)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (Snapshot, error) {
	var snap Snapshot
	var depth int64
	var docJSON string
	err := row.Scan(
		&snap.ID,
		&snap.CapturedAt,
		&snap.Record.SHA256,
		&snap.Record.SHAInfinity,
		&depth,
		&snap.Record.Algorithm,
		&docJSON,
	)
	if err != nil {
		return Snapshot{}, err
	}
	snap.Record.ChainDepth = uint32(depth)
	snap.Record.Timestamp = snap.CapturedAt
	snap.Document = []byte(docJSON)
	return snap, nil
}
