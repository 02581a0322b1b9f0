// Package cmd holds the cobra commands of the ezcord developer tool.
package cmd

import (
	"context"

	"github.com/pitabwire/util"
	"github.com/spf13/cobra"
)

const (
	tintAttrCodeLocale = 214
	tintAttrCodeKeys   = 9
	tintAttrCodeFile   = 12
)

// NewRootCommand creates the root command of the ezcord tool.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "ezcord",
		Short:        "Inspect ezcord localization files",
		Long:         "Check, query and pluralize the localization tables used by ezcord bots.",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newCheckCommand(),
		newLookupCommand(),
		newPluralCommand(),
		newVersionCommand(),
	)

	return rootCmd
}

// commandLogger builds the tool logger from the persistent flags and stores it in the command context.
func commandLogger(cmd *cobra.Command) (context.Context, *util.LogEntry) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	opts := []util.Option{}
	if levelName, err := cmd.Flags().GetString("log-level"); err == nil {
		if level, parseErr := util.ParseLevel(levelName); parseErr == nil {
			opts = append(opts, util.WithLogLevel(level))
		}
	}

	log := util.NewLogger(ctx, opts...)
	return util.ContextWithLogger(ctx, log), log
}
