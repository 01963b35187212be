package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "siteopts",
		Short: "Resolve, validate and export site node configuration",
		Long: titleStyle.Render("siteopts") + mutedStyle.Render(" - site node configuration") + `

Overrides are read from settings files (YAML, TOML, JSON, HCL or CUE),
then from environment variables named like the options, then from
--set NAME=VALUE flags. Later sources win.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return classify(a.setup())
		},
	}

	flags := root.PersistentFlags()
	flags.StringArrayVarP(&a.settings.Files, "file", "f", nil, "settings file; may be repeated, later files win")
	flags.StringArrayVar(&a.settings.Assignments, "set", nil, "override an option as NAME=VALUE; may be repeated")
	flags.StringVar(&a.settings.LogLevel, "log-level", a.settings.LogLevel, "log level: debug, info, warn or error")
	flags.StringVar(&a.settings.SecretKey, "secret-key", "", "SECRET_KEY default instead of a generated one")
	flags.BoolVar(&a.settings.NoEnv, "no-env", false, "do not read overrides from the environment")
	flags.BoolVar(&a.settings.IgnoreUnknown, "ignore-unknown", false, "skip overrides that name no option")
	flags.BoolVar(&a.settings.CollectAll, "collect-all", false, "report every failing check instead of the first")
	flags.BoolVar(&a.settings.ActivityLog, "activity-log", false, "log activity events to stderr")

	root.AddCommand(
		newExportCommand(a),
		newCheckCommand(a),
		newPlanCommand(a),
		newDescribeCommand(a),
		newDumpCommand(a),
		newSchemaCommand(a),
	)
	return root
}
