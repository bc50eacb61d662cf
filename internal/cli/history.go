package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackroad-os/statesync/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Limit int
	Prune int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded state snapshots",
		Long: `List snapshots from the local history database, newest first. Each entry
pairs a signed document with the integrity record that certified it.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum snapshots to list (0 = all)")
	cmd.Flags().IntVar(&opts.Prune, "prune", 0, "keep only the newest N snapshots before listing")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}

	hist, err := store.Open(cfg.HistoryDB)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening history", err)
	}
	defer hist.Close()

	if opts.Prune > 0 {
		removed, err := hist.Prune(cmd.Context(), opts.Prune)
		if err != nil {
			return WrapExitError(ExitCommandError, "pruning history", err)
		}
		f.VerboseLog("pruned %d snapshots", removed)
	}

	snaps, err := hist.List(cmd.Context(), opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "listing history", err)
	}

	if f.Format == "json" {
		type entry struct {
			ID         string `json:"id"`
			CapturedAt string `json:"captured_at"`
			SHA256     string `json:"sha256"`
			ChainDepth uint32 `json:"chain_depth"`
		}
		entries := make([]entry, len(snaps))
		for i, s := range snaps {
			entries[i] = entry{
				ID:         s.ID,
				CapturedAt: s.CapturedAt,
				SHA256:     s.Record.SHA256,
				ChainDepth: s.Record.ChainDepth,
			}
		}
		return f.JSON(entries)
	}

	if len(snaps) == 0 {
		fmt.Fprintln(f.Writer, "no snapshots recorded")
		return nil
	}
	for _, s := range snaps {
		fmt.Fprintf(f.Writer, "%s  %s  sha256=%s depth=%d\n",
			s.CapturedAt, s.ID, truncateDigest(s.Record.SHA256), s.Record.ChainDepth)
	}
	return nil
}
