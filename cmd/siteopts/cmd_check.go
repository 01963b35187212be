package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	opts "github.com/goliatone/go-siteopts"
)

func newCheckCommand(a *app) *cobra.Command {
	var staticOnly bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration",
		Long:  "Resolve the configuration and run the static checks, then the runtime checks against this host.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return classify(a.check(cmd.Context(), staticOnly))
		},
	}
	cmd.Flags().BoolVar(&staticOnly, "static", false, "skip the runtime checks")
	return cmd
}

func (a *app) check(ctx context.Context, staticOnly bool) error {
	cfg, err := a.resolve(ctx)
	if err != nil {
		return err
	}
	if err := opts.ValidateStatic(cfg, a.validateOptions(ctx)...); err != nil {
		return err
	}
	phases := "static"
	if !staticOnly {
		if err := opts.ValidateRuntime(ctx, cfg, a.probe, a.validateOptions(ctx)...); err != nil {
			return err
		}
		phases = "static and runtime"
	}
	fmt.Fprintln(a.stderr, successStyle.Render("✓")+fmt.Sprintf(" %d options passed %s checks", cfg.Len(), phases))
	return nil
}
