package health

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestPrintResults(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	var buf bytes.Buffer
	PrintResults(&buf, []Result{
		{Name: "state file", Status: StatusOK, Detail: "state.json"},
		{Name: "salesforce api", Status: StatusSkip},
	})

	out := buf.String()
	assert.Contains(t, out, "[OK] state file (state.json)")
	assert.Contains(t, out, "[SKIP] salesforce api")
}

func TestPrintSummary(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	var buf bytes.Buffer
	PrintSummary(&buf, []Result{
		{Status: StatusOK},
		{Status: StatusOK},
		{Status: StatusWarn},
	})

	out := buf.String()
	assert.Contains(t, out, "Total checks: 3")
	assert.Contains(t, out, "Passed:  2")
	assert.Contains(t, out, "Warning: 1")
	assert.Contains(t, out, "Overall Status: DEGRADED")
}
