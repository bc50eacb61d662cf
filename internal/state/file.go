package state

import (
	"fmt"
	"os"
	"path/filepath"
)

// LoadFile reads and parses a state document from disk.
func LoadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("load state %s: %w", path, err)
	}
	return doc, nil
}

// SaveFile writes a document to disk atomically: encode, write to a temp
// file in the same directory, then rename over the target. Readers never
// observe a partially written document.
func SaveFile(path string, doc Document) error {
	data, err := doc.Encode()
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("save state: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("save state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("save state: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}
