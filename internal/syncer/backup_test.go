package syncer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackroad-os/statesync/internal/state"
)

func TestBackupWritesTimestampedCopy(t *testing.T) {
	dir := t.TempDir()
	doc := state.Document{"board": state.String("roadmap")}
	now := time.Date(2026, 3, 14, 17, 26, 53, 0, time.UTC)

	path, err := Backup(dir, doc, now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "state_20260314_172653.json"), path)

	restored, err := state.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, doc, restored)
}

func TestBackupConvertsToUTC(t *testing.T) {
	dir := t.TempDir()
	local := time.Date(2026, 3, 14, 9, 26, 53, 0, time.FixedZone("PST", -8*3600))

	path, err := Backup(dir, state.Document{"a": state.Int(1)}, local)
	require.NoError(t, err)
	assert.Equal(t, "state_20260314_172653.json", filepath.Base(path))
}

func TestPruneBackups(t *testing.T) {
	dir := t.TempDir()
	doc := state.Document{"a": state.Int(1)}
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		_, err := Backup(dir, doc, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}
	// A stray non-backup file must not be touched or counted.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep"), 0o644))

	removed, err := PruneBackups(dir, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{
		"state_20260314_100300.json",
		"state_20260314_100400.json",
		"notes.txt",
	}, names)
}

func TestPruneBackupsNoop(t *testing.T) {
	dir := t.TempDir()
	_, err := Backup(dir, state.Document{"a": state.Int(1)}, time.Now())
	require.NoError(t, err)

	removed, err := PruneBackups(dir, 0)
	require.NoError(t, err)
	assert.Zero(t, removed)

	removed, err = PruneBackups(dir, 10)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestPruneBackupsMissingDir(t *testing.T) {
	removed, err := PruneBackups(filepath.Join(t.TempDir(), "absent"), 3)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
