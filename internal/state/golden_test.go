package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

// The golden file pins the exact canonical bytes for a representative board
// document. Any change to key ordering, whitespace, escaping, or number
// formatting shows up here as a diff.
func TestCanonicalGolden(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "board.json"))
	require.NoError(t, err)

	doc, err := ParseDocument(data)
	require.NoError(t, err)

	canonical, err := doc.Canonical()
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "board_canonical", canonical)
}
