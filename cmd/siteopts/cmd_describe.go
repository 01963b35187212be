package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	opts "github.com/goliatone/go-siteopts"
)

func newDescribeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "List the known options",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			registry, err := a.registry()
			if err != nil {
				return classify(err)
			}
			w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTYPE\tDEFAULT\tDESCRIPTION")
			for _, field := range opts.Describe(registry) {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", field.Name, field.Type, field.Default, field.Description)
			}
			return classify(w.Flush())
		},
	}
}
