package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tibue99/ezcord-sub000/version"
)

func newVersionCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Show the ezcord version string set at build time via ldflags.",
		Example: `  # Show version
  ezcord version

  # Machine readable
  ezcord version --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "ezcord %s\n", info)
			return err
		},
	}

	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "Print version information as JSON")

	return cmd
}
