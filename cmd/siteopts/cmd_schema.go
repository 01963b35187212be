package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	opts "github.com/goliatone/go-siteopts"
	"github.com/goliatone/go-siteopts/schema/openapi"
)

func newSchemaCommand(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print a schema of the accepted overrides",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			registry, err := a.registry()
			if err != nil {
				return classify(err)
			}
			var generator opts.SchemaGenerator
			switch opts.SchemaFormat(format) {
			case opts.SchemaFormatOpenAPI:
				generator = openapi.NewGenerator(
					openapi.WithInfo("Site node options", Version),
					openapi.WithRootComponent("SiteOptions"),
				)
			case opts.SchemaFormatDescriptors:
				generator = opts.DefaultSchemaGenerator()
			default:
				return classify(fmt.Errorf("unknown schema format %q", format))
			}
			doc, err := generator.Generate(registry)
			if err != nil {
				return classify(err)
			}
			out, err := json.MarshalIndent(doc.Document, "", "  ")
			if err != nil {
				return classify(err)
			}
			_, err = fmt.Fprintln(a.stdout, string(out))
			return classify(err)
		},
	}
	cmd.Flags().StringVar(&format, "format", string(opts.SchemaFormatOpenAPI), "schema format: openapi or descriptors")
	return cmd
}
