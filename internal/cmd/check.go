package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/lmittmann/tint"
	"github.com/pitabwire/util"
	"github.com/spf13/cobra"

	"github.com/tibue99/ezcord-sub000/localization"
)

// errMissingKeys is wrapped in an ExitError when a locale lacks keys of the fallback locale.
var errMissingKeys = errors.New("localization keys are missing")

func newCheckCommand() *cobra.Command {
	var (
		fallback string
		watch    bool
	)

	cmd := &cobra.Command{
		Use:   "check <dir>",
		Short: "Report keys missing from a localization directory",
		Long: "Load every <locale>.json, .yaml or .toml file in dir and list the keys that the fallback " +
			"locale defines but other locales do not.",
		Example: `  # Check once
  ezcord check ./locales

  # Re-check whenever a file changes
  ezcord check ./locales --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, log := commandLogger(cmd)
			dir := args[0]

			missing, err := runCheck(ctx, cmd.OutOrStdout(), dir, fallback)
			if !watch {
				if err != nil {
					return err
				}
				if missing > 0 {
					return &ExitError{Code: 1, Err: fmt.Errorf("%w: %d", errMissingKeys, missing)}
				}
				return nil
			}
			if err != nil {
				log.WithError(err).Error("check failed")
			}

			return watchDir(ctx, dir, nil, func() {
				if _, checkErr := runCheck(ctx, cmd.OutOrStdout(), dir, fallback); checkErr != nil {
					log.WithError(checkErr).Error("check failed")
				}
			})
		},
	}

	cmd.Flags().StringVar(&fallback, "fallback", localization.DefaultFallbackLocale, "Reference locale")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-run the check when a file in dir changes")

	return cmd
}

// runCheck prints one line per missing key and returns the number of missing keys.
func runCheck(ctx context.Context, out io.Writer, dir, fallback string) (int, error) {
	localizations, err := localization.LoadDir(os.DirFS(dir))
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", dir, err)
	}

	manager, err := localization.New(ctx, localizations,
		localization.WithFallbackLocale(fallback),
		localization.WithProcessStrings(false))
	if err != nil {
		return 0, err
	}

	results := manager.CheckLocalizations()
	slices.SortFunc(results, func(a, b localization.MissingKey) int {
		return strings.Compare(a.Locale, b.Locale)
	})

	total := 0
	for _, result := range results {
		total += len(result.Keys)
		log := util.Log(ctx).With(
			tint.Attr(tintAttrCodeLocale, slog.String("locale", result.Locale)),
			tint.Attr(tintAttrCodeKeys, slog.Int("missing", len(result.Keys))),
		)
		log.Warn("locale misses keys")
		log.Release()

		for _, key := range result.Keys {
			_, _ = fmt.Fprintf(out, "%s: %s\n", result.Locale, key)
		}
	}

	if total == 0 {
		_, _ = fmt.Fprintf(out, "all locales match %s\n", manager.FallbackLocale())
	}
	return total, nil
}

// watchDir calls onChange for every write, create, remove or rename of a localization file in dir
// until ctx is done. ready, when set, receives a value once the watcher is registered.
func watchDir(ctx context.Context, dir string, ready chan<- struct{}, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err = watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	if ready != nil {
		ready <- struct{}{}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !slices.Contains(localization.Extensions(), strings.ToLower(filepath.Ext(event.Name))) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			log := util.Log(ctx).With(tint.Attr(tintAttrCodeFile, slog.String("file", event.Name)))
			log.Info("localization file changed")
			log.Release()
			onChange()
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			util.Log(ctx).WithError(watchErr).Error("file watcher failed")
		}
	}
}
