package main

import (
	"bytes"
	"context"

	"github.com/spf13/cobra"

	opts "github.com/goliatone/go-siteopts"
)

func newExportCommand(a *app) *cobra.Command {
	var runtime bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the configuration as shell statements",
		Long: `Resolve and validate the configuration and print it as statements a
POSIX shell can source. Nothing is printed when any step fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return classify(a.export(cmd.Context(), runtime))
		},
	}
	cmd.Flags().BoolVar(&runtime, "runtime", false, "also run the runtime checks against this host")
	return cmd
}

func (a *app) export(ctx context.Context, runtime bool) error {
	cfg, err := a.resolve(ctx)
	if err != nil {
		return err
	}
	if err := opts.ValidateStatic(cfg, a.validateOptions(ctx)...); err != nil {
		return err
	}
	if runtime {
		if err := opts.ValidateRuntime(ctx, cfg, a.probe, a.validateOptions(ctx)...); err != nil {
			return err
		}
	}
	var out bytes.Buffer
	if err := opts.WriteExport(&out, cfg); err != nil {
		return err
	}
	_, err = out.WriteTo(a.stdout)
	return err
}
