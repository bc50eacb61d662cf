package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackroad-os/statesync/internal/config"
	"github.com/blackroad-os/statesync/internal/store"
	"github.com/blackroad-os/statesync/internal/syncer"
)

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync [target]",
		Short: "Sign the state document and push it to remote targets",
		Long: `Back up, sign, and push the state document to the selected sync target.

Targets: all, cloudflare, github, salesforce (default: all).
Targets missing credentials are skipped, not failed.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		ValidArgs:     []string{"all", "cloudflare", "github", "salesforce"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(rootOpts, cmd, args)
		},
	}
	return cmd
}

func runSync(opts *RootOptions, cmd *cobra.Command, args []string) error {
	f := newFormatter(opts, cmd)

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	creds, err := config.LoadCredentials()
	if err != nil {
		return WrapExitError(ExitCommandError, "loading credentials", err)
	}

	selection := "all"
	if len(args) > 0 {
		selection = args[0]
	}

	targets := syncer.BuildTargets(cfg, creds, selection)
	if len(targets) == 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown sync target %q", selection))
	}

	engine := syncer.NewEngine(cfg)

	hist, err := store.Open(cfg.HistoryDB)
	if err != nil {
		f.VerboseLog("snapshot history unavailable: %v", err)
	} else {
		engine.History = hist
		defer hist.Close()
	}

	report, err := engine.Sync(cmd.Context(), targets)
	if err != nil {
		return WrapExitError(ExitCommandError, "sync failed", err)
	}

	if f.Format == "json" {
		if err := f.JSON(report); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(f.Writer, "run %s\n", report.RunID)
		fmt.Fprintf(f.Writer, "  sha256:       %s\n", report.Record.SHA256)
		fmt.Fprintf(f.Writer, "  sha-infinity: %s (depth %d)\n", report.Record.SHAInfinity, report.Record.ChainDepth)
		if report.BackupPath != "" {
			fmt.Fprintf(f.Writer, "  backup:       %s\n", report.BackupPath)
		}
		for _, r := range report.Results {
			switch {
			case r.Skipped:
				fmt.Fprintf(f.Writer, "  %s: skipped (not configured)\n", r.Target)
			case r.Synced:
				fmt.Fprintf(f.Writer, "  %s: success\n", r.Target)
			default:
				fmt.Fprintf(f.Writer, "  %s: FAILED (%s)\n", r.Target, r.Error)
			}
		}
	}

	if !report.AllSynced {
		return NewExitError(ExitFailure, "one or more sync targets failed")
	}
	return nil
}
