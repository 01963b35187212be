package main

import (
	"encoding/json"
	"fmt"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newDumpCommand(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the resolved configuration as YAML, TOML or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.resolve(cmd.Context())
			if err != nil {
				return classify(err)
			}
			out, err := encodeSnapshot(format, cfg.Snapshot())
			if err != nil {
				return classify(err)
			}
			_, err = a.stdout.Write(out)
			return classify(err)
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "output format: yaml, toml or json")
	return cmd
}

func encodeSnapshot(format string, snapshot map[string]any) ([]byte, error) {
	switch format {
	case "yaml":
		return yaml.Marshal(snapshot)
	case "toml":
		return toml.Marshal(snapshot)
	case "json":
		out, err := json.MarshalIndent(snapshot, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}
