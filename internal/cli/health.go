package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackroad-os/statesync/internal/config"
	"github.com/blackroad-os/statesync/internal/health"
)

// NewHealthCommand creates the health command.
func NewHealthCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health [service]",
		Short: "Check the health of configured integrations",
		Long: `Probe the configured integrations and the local state file.

Services: all, local, github, cloudflare, salesforce, vercel,
digitalocean, anthropic (default: all).`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHealth(rootOpts, cmd, args)
		},
	}
	return cmd
}

func runHealth(opts *RootOptions, cmd *cobra.Command, args []string) error {
	f := newFormatter(opts, cmd)

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	service := "all"
	if len(args) > 0 {
		service = args[0]
	}
	if !health.KnownService(service) {
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown service %q", service))
	}

	creds, err := config.LoadCredentials()
	if err != nil {
		return WrapExitError(ExitCommandError, "loading credentials", err)
	}

	var results []health.Result
	if service == "all" || service == "local" {
		results = append(results, health.CheckLocal(cfg.StateFile)...)
	}
	if service != "local" {
		checker := &health.Checker{Creds: creds}
		results = append(results, checker.Run(cmd.Context(), service)...)
	}

	overall := health.Summarize(results)

	if f.Format == "json" {
		if err := f.JSON(map[string]any{"overall": overall, "checks": results}); err != nil {
			return err
		}
	} else {
		health.PrintResults(f.Writer, results)
		health.PrintSummary(f.Writer, results)
	}

	if overall == health.OverallUnhealthy {
		return NewExitError(ExitFailure, "health check failed")
	}
	return nil
}
