package syncer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/blackroad-os/statesync/internal/state"
)

const backupPrefix = "state_"

// Backup writes a timestamped copy of the document into dir before any
// mutation, so a failed sync or a later tamper detection always has a known
// good version to restore from.
func Backup(dir string, doc state.Document, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("backup: %w", err)
	}

	data, err := doc.Encode()
	if err != nil {
		return "", fmt.Errorf("backup: %w", err)
	}

	name := fmt.Sprintf("%s%s.json", backupPrefix, now.UTC().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("backup: %w", err)
	}
	return path, nil
}

// PruneBackups removes all but the newest keep backup files in dir.
// Timestamped names sort lexically in age order, so no stat calls are
// needed. keep <= 0 keeps everything.
func PruneBackups(dir string, keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("prune backups: %w", err)
	}

	var backups []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasPrefix(name, backupPrefix) && strings.HasSuffix(name, ".json") {
			backups = append(backups, name)
		}
	}
	if len(backups) <= keep {
		return 0, nil
	}

	sort.Strings(backups)
	doomed := backups[:len(backups)-keep]
	removed := 0
	for _, name := range doomed {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return removed, fmt.Errorf("prune backups: %w", err)
		}
		removed++
	}
	return removed, nil
}
