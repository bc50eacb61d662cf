package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackroad-os/statesync/internal/integrity"
	"github.com/blackroad-os/statesync/internal/state"
	"github.com/blackroad-os/statesync/internal/store"
)

// SignOptions holds flags for the sign command.
type SignOptions struct {
	*RootOptions
	Depth   uint32
	History bool
}

// NewSignCommand creates the sign command.
func NewSignCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SignOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sign [state-file]",
		Short: "Attach a fresh integrity record to a state document",
		Long: `Compute a fresh integrity record over the document's canonical bytes and
attach it at metadata.integrity, replacing any prior record. The file is
rewritten atomically.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSign(opts, cmd, args)
		},
	}

	cmd.Flags().Uint32Var(&opts.Depth, "depth", 0, "chain depth (default from config)")
	cmd.Flags().BoolVar(&opts.History, "history", false, "record the signing in the snapshot history")

	return cmd
}

func runSign(opts *SignOptions, cmd *cobra.Command, args []string) error {
	f := newFormatter(opts.RootOptions, cmd)

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}

	depth := opts.Depth
	if depth == 0 {
		depth = cfg.ChainDepth
	}

	path := statePath(cfg, args)
	doc, err := state.LoadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "loading state", err)
	}

	signer := &integrity.Signer{Depth: depth, Policy: cfg.Depth}
	signed, rec, err := signer.Sign(doc)
	if err != nil {
		return WrapExitError(ExitCommandError, "signing state", err)
	}

	if err := state.SaveFile(path, signed); err != nil {
		return WrapExitError(ExitCommandError, "saving state", err)
	}

	if opts.History {
		hist, err := store.Open(cfg.HistoryDB)
		if err != nil {
			return WrapExitError(ExitCommandError, "opening history", err)
		}
		defer hist.Close()
		if _, err := hist.SaveSnapshot(context.Background(), signed, rec); err != nil {
			return WrapExitError(ExitCommandError, "recording snapshot", err)
		}
	}

	if f.Format == "json" {
		return f.JSON(rec)
	}

	fmt.Fprintf(f.Writer, "signed %s\n", path)
	fmt.Fprintf(f.Writer, "  sha256:       %s\n", rec.SHA256)
	fmt.Fprintf(f.Writer, "  sha-infinity: %s (depth %d)\n", rec.SHAInfinity, rec.ChainDepth)
	return nil
}
