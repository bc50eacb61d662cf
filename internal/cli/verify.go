package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackroad-os/statesync/internal/integrity"
	"github.com/blackroad-os/statesync/internal/state"
)

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [state-file]",
		Short: "Verify a state document against its embedded integrity record",
		Long: `Verify a state document against the integrity record it carries at
metadata.integrity. The primary sha256 and the sha-infinity chain are
checked independently.

Exit codes: 0 verified (or no record to verify), 1 integrity failure,
2 command error.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(rootOpts, cmd, args)
		},
	}
	return cmd
}

func runVerify(opts *RootOptions, cmd *cobra.Command, args []string) error {
	f := newFormatter(opts, cmd)

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	path := statePath(cfg, args)
	doc, err := state.LoadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "loading state", err)
	}

	res, err := integrity.Verify(doc)
	if err != nil {
		return WrapExitError(ExitCommandError, "verifying state", err)
	}

	if res.Outcome == integrity.OutcomeMissingRecord {
		return reportMissingRecord(f, doc, cfg.ChainDepth)
	}

	if f.Format == "json" {
		if err := f.JSON(res); err != nil {
			return err
		}
	} else {
		printDigestCheck(f, "sha256", res.ExpectedSHA256, res.ComputedSHA256, res.PrimaryValid)
		printDigestCheck(f, fmt.Sprintf("sha-infinity (depth %d)", res.ChainDepth),
			res.ExpectedSHAInfinity, res.ComputedSHAInfinity, res.ChainValid)
		if res.OverallValid {
			fmt.Fprintln(f.Writer, "\nINTEGRITY VERIFIED - state is authentic and unmodified")
		} else {
			fmt.Fprintf(f.Writer, "\nINTEGRITY CHECK FAILED (%s) - state may have been modified or corrupted\n", res.Outcome)
		}
	}

	if !res.OverallValid {
		return NewExitError(ExitFailure, fmt.Sprintf("integrity check failed: %s", res.Outcome))
	}
	return nil
}

// reportMissingRecord handles the distinct "no baseline" outcome: compute
// fresh digests so the caller can mint a first-time record, and exit zero -
// absence is not corruption.
func reportMissingRecord(f *OutputFormatter, doc state.Document, depth uint32) error {
	canonical, err := doc.Canonical()
	if err != nil {
		return WrapExitError(ExitCommandError, "canonicalizing state", err)
	}
	rec, err := integrity.Compute(canonical, depth)
	if err != nil {
		return WrapExitError(ExitCommandError, "computing digests", err)
	}

	if f.Format == "json" {
		return f.JSON(map[string]any{
			"outcome": integrity.OutcomeMissingRecord,
			"fresh":   rec,
		})
	}

	fmt.Fprintln(f.Writer, "no integrity record found - nothing to verify against")
	fmt.Fprintln(f.Writer, "fresh digests for future verification:")
	fmt.Fprintf(f.Writer, "  sha256:       %s\n", rec.SHA256)
	fmt.Fprintf(f.Writer, "  sha-infinity: %s (depth %d)\n", rec.SHAInfinity, rec.ChainDepth)
	return nil
}

func printDigestCheck(f *OutputFormatter, label, expected, computed string, valid bool) {
	status := "VALID"
	if !valid {
		status = "INVALID"
	}
	fmt.Fprintf(f.Writer, "%s:\n", label)
	fmt.Fprintf(f.Writer, "  expected: %s\n", truncateDigest(expected))
	fmt.Fprintf(f.Writer, "  computed: %s\n", truncateDigest(computed))
	fmt.Fprintf(f.Writer, "  status:   %s\n", status)
}

func truncateDigest(d string) string {
	if len(d) > 32 {
		return d[:32] + "..."
	}
	return d
}
