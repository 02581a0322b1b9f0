package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tibue99/ezcord-sub000/localization"
)

var errInvalidVariable = errors.New("variables must be written as name=value")

func newLookupCommand() *cobra.Command {
	var (
		dir      string
		locale   string
		fallback string
		file     string
		function string
		class    string
		count    int
	)

	cmd := &cobra.Command{
		Use:   "lookup <key> [name=value...]",
		Short: "Resolve a key the way a bot would",
		Long: "Resolve key for a locale from the file, function and class sections of a localization " +
			"directory and substitute the given variables.",
		Example: `  # Look up a key used in cogs/greet.go inside the hello function
  ezcord lookup welcome user=Timo --dir ./locales --locale de --file greet --function hello`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _ := commandLogger(cmd)

			vars, err := parseVars(args[1:])
			if err != nil {
				return err
			}

			localizations, err := localization.LoadDir(os.DirFS(dir))
			if err != nil {
				return fmt.Errorf("load %s: %w", dir, err)
			}

			manager, err := localization.New(ctx, localizations, localization.WithFallbackLocale(fallback))
			if err != nil {
				return err
			}

			site := localization.Site(file, function)
			if class != "" {
				site = site.WithClass(class)
			}

			opts := []localization.TextOption{localization.WithSite(site), localization.WithVars(vars)}
			if cmd.Flags().Changed("count") {
				opts = append(opts, localization.WithCount(count))
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), manager.Text(ctx, locale, args[0], opts...))
			return err
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Localization directory")
	cmd.Flags().StringVarP(&locale, "locale", "l", localization.DefaultFallbackLocale, "Locale to resolve")
	cmd.Flags().StringVar(&fallback, "fallback", localization.DefaultFallbackLocale, "Fallback locale")
	cmd.Flags().StringVarP(&file, "file", "f", "", "File section")
	cmd.Flags().StringVar(&function, "function", "", "Function section")
	cmd.Flags().StringVar(&class, "class", "", "Class section")
	cmd.Flags().IntVarP(&count, "count", "c", 0, "Plural count")

	return cmd
}

func parseVars(args []string) (localization.Vars, error) {
	vars := localization.Vars{}
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %q", errInvalidVariable, arg)
		}
		vars[name] = value
	}
	return vars, nil
}
