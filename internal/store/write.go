package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/blackroad-os/statesync/internal/integrity"
	"github.com/blackroad-os/statesync/internal/state"
)

// SaveSnapshot appends a signed document and its record to the history.
// Duplicate signings (same chain digest) are silently ignored, so re-running
// a sync over unchanged state does not grow the history; the returned id is
// the existing row's id in that case.
func (s *Store) SaveSnapshot(ctx context.Context, doc state.Document, rec integrity.Record) (string, error) {
	docJSON, err := doc.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("save snapshot: %w", err)
	}

	id := uuid.NewString()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots
		(id, captured_at, sha256, sha_infinity, chain_depth, algorithm, document)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(sha_infinity) DO NOTHING
	`,
		id,
		rec.Timestamp,
		rec.SHA256,
		rec.SHAInfinity,
		int64(rec.ChainDepth),
		rec.Algorithm,
		string(docJSON),
	)
	if err != nil {
		return "", fmt.Errorf("save snapshot: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("save snapshot: %w", err)
	}
	if n == 0 {
		// The conflict clause swallowed the insert: this chain digest is
		// already recorded. Hand back the row that holds it.
		var existing string
		err := s.db.QueryRowContext(ctx,
			`SELECT id FROM snapshots WHERE sha_infinity = ?`, rec.SHAInfinity,
		).Scan(&existing)
		if err != nil {
			return "", fmt.Errorf("save snapshot: %w", err)
		}
		return existing, nil
	}
	return id, nil
}

// Prune deletes all but the newest keep snapshots. Returns the number of
// rows removed. keep <= 0 keeps everything.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM snapshots
		WHERE id NOT IN (
			SELECT id FROM snapshots
			ORDER BY captured_at DESC, id DESC
			LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	return n, nil
}
