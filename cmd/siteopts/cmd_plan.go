package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	opts "github.com/goliatone/go-siteopts"
	"github.com/goliatone/go-siteopts/pkg/loader"
)

func newPlanCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Print the order options are computed in",
		Long: `Print every option in dependency order. Options computed from others
list the options they read; overridden options read nothing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := a.registry()
			if err != nil {
				return classify(err)
			}
			overrides, err := loader.New(registry,
				loader.WithFs(a.fs),
				loader.WithFiles(a.settings.Files...),
				loader.WithAssignments(a.settings.Assignments...),
				loader.WithEnv(!a.settings.NoEnv),
			).Overrides(cmd.Context())
			if err != nil {
				return classify(err)
			}
			order, err := opts.Plan(registry, overrides)
			if err != nil {
				return classify(err)
			}
			deps := opts.Dependencies(registry, overrides)
			for _, name := range order {
				line := name
				if refs := deps[name]; len(refs) > 0 {
					line += " " + mutedStyle.Render("<- "+strings.Join(refs, ", "))
				}
				fmt.Fprintln(a.stdout, line)
			}
			return nil
		},
	}
}
