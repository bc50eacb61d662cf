package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackroad-os/statesync/internal/integrity"
	"github.com/blackroad-os/statesync/internal/state"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// signedSnapshot builds a signed document with a deterministic timestamp so
// ordering in the history is stable under test.
func signedSnapshot(t *testing.T, raw string, ts time.Time) (state.Document, integrity.Record) {
	t.Helper()
	doc, err := state.ParseDocument([]byte(raw))
	require.NoError(t, err)

	canonical, err := doc.Canonical()
	require.NoError(t, err)
	rec, err := integrity.Compute(canonical, 3)
	require.NoError(t, err)
	rec.Timestamp = ts.UTC().Format(time.RFC3339)

	return doc.WithIntegrity(rec.ToObject()), rec
}

func TestSaveAndLatest(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	doc, rec := signedSnapshot(t, `{"board":"roadmap","count":1}`, time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))
	id, err := s.SaveSnapshot(ctx, doc, rec)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	snap, err := s.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, snap.ID)
	assert.Equal(t, rec.SHA256, snap.Record.SHA256)
	assert.Equal(t, rec.SHAInfinity, snap.Record.SHAInfinity)
	assert.Equal(t, uint32(3), snap.Record.ChainDepth)
	assert.Equal(t, integrity.AlgorithmV1, snap.Record.Algorithm)

	// The stored document must round-trip and still carry its record.
	stored, err := snap.ParseDocument()
	require.NoError(t, err)
	res, err := integrity.Verify(stored)
	require.NoError(t, err)
	assert.Equal(t, integrity.OutcomeVerified, res.Outcome)
}

func TestLatestEmpty(t *testing.T) {
	_, err := testStore(t).Latest(context.Background())
	assert.ErrorIs(t, err, ErrNoSnapshots)
}

func TestGet(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	doc, rec := signedSnapshot(t, `{"board":"roadmap"}`, time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))
	id, err := s.SaveSnapshot(ctx, doc, rec)
	require.NoError(t, err)

	snap, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, snap.ID)

	_, err = s.Get(ctx, "no-such-id")
	assert.ErrorIs(t, err, ErrNoSnapshots)
}

func TestListNewestFirst(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		doc, rec := signedSnapshot(t,
			fmt.Sprintf(`{"board":"roadmap","count":%d}`, i),
			base.Add(time.Duration(i)*time.Minute))
		_, err := s.SaveSnapshot(ctx, doc, rec)
		require.NoError(t, err)
	}

	snaps, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, snaps, 3)
	assert.True(t, snaps[0].CapturedAt > snaps[1].CapturedAt)
	assert.True(t, snaps[1].CapturedAt > snaps[2].CapturedAt)

	limited, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
	assert.Equal(t, snaps[0].ID, limited[0].ID)
}

func TestSaveSnapshotDeduplicates(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	doc, rec := signedSnapshot(t, `{"board":"roadmap"}`, time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))
	first, err := s.SaveSnapshot(ctx, doc, rec)
	require.NoError(t, err)
	second, err := s.SaveSnapshot(ctx, doc, rec)
	require.NoError(t, err)

	snaps, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, snaps, 1, "identical chain digests must not grow the history")

	// The dedup path hands back the id of the row that actually exists.
	assert.Equal(t, first, second)
	snap, err := s.Get(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, rec.SHAInfinity, snap.Record.SHAInfinity)
}

func TestPrune(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		doc, rec := signedSnapshot(t,
			fmt.Sprintf(`{"board":"roadmap","count":%d}`, i),
			base.Add(time.Duration(i)*time.Minute))
		_, err := s.SaveSnapshot(ctx, doc, rec)
		require.NoError(t, err)
	}

	removed, err := s.Prune(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	snaps, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, snaps, 2)

	// The newest rows survive.
	latest, err := snaps[0].ParseDocument()
	require.NoError(t, err)
	assert.Equal(t, state.Int(4), latest["count"])

	// keep <= 0 is a no-op.
	removed, err = s.Prune(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s1, err := Open(path)
	require.NoError(t, err)

	doc, rec := signedSnapshot(t, `{"board":"roadmap"}`, time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))
	_, err = s1.SaveSnapshot(context.Background(), doc, rec)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	// Reopening applies schema and migrations again without data loss.
	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	snap, err := s2.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rec.SHAInfinity, snap.Record.SHAInfinity)
}
