package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackroad-os/statesync/internal/schema"
	"github.com/blackroad-os/statesync/internal/state"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [state-file]",
		Short: "Validate a state document against the board schema",
		Long: `Check that a state document conforms to the kanban board schema,
including the shape of any embedded integrity record.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, cmd, args)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, cmd *cobra.Command, args []string) error {
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

	err = schema.Validate(doc)
	var verr *schema.ValidationError
	switch {
	case err == nil:
		if f.Format == "json" {
			return f.JSON(map[string]any{"valid": true, "file": path})
		}
		fmt.Fprintf(f.Writer, "%s is valid\n", path)
		return nil

	case errors.As(err, &verr):
		if f.Format == "json" {
			if err := f.JSONError("SCHEMA_VIOLATION", "document does not conform to schema",
				verr.Issues); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(f.Writer, "%s failed validation:\n", path)
			for _, issue := range verr.Issues {
				fmt.Fprintf(f.Writer, "  - %s\n", issue)
			}
		}
		return NewExitError(ExitFailure, "schema validation failed")

	default:
		return WrapExitError(ExitCommandError, "validating state", err)
	}
}
