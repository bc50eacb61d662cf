package health

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	okLabel   = color.New(color.FgGreen).SprintFunc()
	warnLabel = color.New(color.FgYellow).SprintFunc()
	failLabel = color.New(color.FgRed).SprintFunc()
	skipLabel = color.New(color.FgCyan).SprintFunc()
)

// statusLabel renders a bracketed, colored status tag.
func statusLabel(s Status) string {
	switch s {
	case StatusOK:
		return okLabel("[OK]")
	case StatusWarn:
		return warnLabel("[WARN]")
	case StatusFail:
		return failLabel("[FAIL]")
	default:
		return skipLabel("[SKIP]")
	}
}

// PrintResults writes a human-readable check report.
func PrintResults(w io.Writer, results []Result) {
	for _, r := range results {
		if r.Detail != "" {
			fmt.Fprintf(w, "  %s %s (%s)\n", statusLabel(r.Status), r.Name, r.Detail)
		} else {
			fmt.Fprintf(w, "  %s %s\n", statusLabel(r.Status), r.Name)
		}
	}
}

// PrintSummary writes counts and the overall verdict.
func PrintSummary(w io.Writer, results []Result) {
	counts := map[Status]int{}
	for _, r := range results {
		counts[r.Status]++
	}

	fmt.Fprintf(w, "\n  Total checks: %d\n", len(results))
	fmt.Fprintf(w, "  %s  %d\n", okLabel("Passed:"), counts[StatusOK])
	fmt.Fprintf(w, "  %s %d\n", warnLabel("Warning:"), counts[StatusWarn])
	fmt.Fprintf(w, "  %s  %d\n", failLabel("Failed:"), counts[StatusFail])
	fmt.Fprintf(w, "  %s %d\n", skipLabel("Skipped:"), counts[StatusSkip])

	overall := Summarize(results)
	var label string
	switch overall {
	case OverallHealthy:
		label = okLabel(string(overall))
	case OverallDegraded:
		label = warnLabel(string(overall))
	default:
		label = failLabel(string(overall))
	}
	fmt.Fprintf(w, "\n  Overall Status: %s\n", label)
}
