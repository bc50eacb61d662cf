package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackroad-os/statesync/internal/integrity"
	"github.com/blackroad-os/statesync/internal/state"
)

// HashOptions holds flags for the hash command.
type HashOptions struct {
	*RootOptions
	Depth uint32
}

// NewHashCommand creates the hash command.
func NewHashCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HashOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "hash [state-file]",
		Short: "Compute integrity digests for a state document",
		Long: `Compute the sha256 and sha-infinity digests of a state document's
canonical bytes, excluding any embedded integrity record.

Example:
  statesync hash .kanban/state/current.json --depth 7`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHash(opts, cmd, args)
		},
	}

	cmd.Flags().Uint32Var(&opts.Depth, "depth", integrity.DefaultDepth, "chain depth")

	return cmd
}

func runHash(opts *HashOptions, cmd *cobra.Command, args []string) error {
	f := newFormatter(opts.RootOptions, cmd)

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}

	path := statePath(cfg, args)
	f.VerboseLog("hashing %s at depth %d", path, opts.Depth)

	doc, err := state.LoadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "loading state", err)
	}

	canonical, err := doc.Canonical()
	if err != nil {
		return WrapExitError(ExitCommandError, "canonicalizing state", err)
	}

	rec, err := integrity.Compute(canonical, opts.Depth)
	if err != nil {
		return WrapExitError(ExitCommandError, "computing digests", err)
	}

	if f.Format == "json" {
		return f.JSON(rec)
	}

	fmt.Fprintf(f.Writer, "sha256:       %s\n", rec.SHA256)
	fmt.Fprintf(f.Writer, "sha-infinity: %s (depth %d)\n", rec.SHAInfinity, rec.ChainDepth)
	return nil
}
