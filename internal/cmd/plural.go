package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tibue99/ezcord-sub000/localization"
)

func newPluralCommand() *cobra.Command {
	var (
		locale   string
		count    int
		relative bool
	)

	cmd := &cobra.Command{
		Use:   "plural <word>",
		Short: "Pluralize a word for a locale",
		Example: `  # "Tagen"
  ezcord plural Tag --locale de --count 2 --relative`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), localization.Pluralize(locale, count, args[0], relative))
			return err
		},
	}

	cmd.Flags().StringVarP(&locale, "locale", "l", localization.DefaultFallbackLocale, "Locale whose grammar is used")
	cmd.Flags().IntVarP(&count, "count", "c", 2, "Amount the word refers to")
	cmd.Flags().BoolVar(&relative, "relative", false, "Use the relative form (German dative)")

	return cmd
}
