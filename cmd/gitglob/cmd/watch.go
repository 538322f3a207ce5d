package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	ggerrors "github.com/Aman-CERP/gitglob/internal/errors"
	"github.com/Aman-CERP/gitglob/internal/gitignore"
	"github.com/Aman-CERP/gitglob/internal/ui"
	"github.com/Aman-CERP/gitglob/internal/watcher"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print files as they enter or leave the non-ignored set",
		Long: `Watch the working directory and print "+ path" for files that become
visible and "- path" for files that are deleted or become ignored. Editing a
.gitignore re-evaluates the whole tree. Ignored directories are not watched.

Stop with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd.Context(), cmd)
		},
	}
}

type changeJSON struct {
	Added         []string `json:"added,omitempty"`
	Removed       []string `json:"removed,omitempty"`
	RulesAdded    []string `json:"rules_added,omitempty"`
	RulesRemoved  []string `json:"rules_removed,omitempty"`
	ConfigChanged bool     `json:"config_changed,omitempty"`
	Total         int      `json:"total"`
}

func runWatch(ctx context.Context, cmd *cobra.Command) error {
	client, cfg, err := newClient(cmd, true)
	if err != nil {
		return err
	}

	opts := clientOptions(client.Cwd(), cfg)
	wopts := watcher.Options{
		DebounceWindow: cfg.DebounceDuration(),
		CacheSize:      cfg.Cache.Size,
		Collect: gitignore.CollectOptions{
			ExcludesFiles: opts.ExcludesFiles,
			ExcludesScope: client.Cwd(),
			GitExcludes:   opts.GitExcludes,
			LocateOptions: gitignore.LocateOptions{StopAtRepository: opts.StopAtRepository},
		},
	}.WithDefaults()
	if err := wopts.Validate(); err != nil {
		return ggerrors.ConfigError("invalid watch options", err)
	}

	rec := watcher.NewReconciler(client)
	total, err := rec.Prime(ctx)
	if err != nil {
		return err
	}

	w, err := watcher.New(wopts)
	if err != nil {
		return ggerrors.New(ggerrors.ErrCodeWatchFailed, "failed to create file watcher", err)
	}

	out := cmd.OutOrStdout()
	r := ui.NewChangeRenderer(out, !ui.UseColor(out))
	enc := json.NewEncoder(out)
	if !jsonOutput {
		r.Notice("watching %s (%d files)", client.Cwd(), total)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.Start(gctx, client.Cwd())
	})
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case batch, ok := <-w.Events():
				if !ok {
					return nil
				}
				change, err := rec.Apply(gctx, batch)
				if err != nil {
					slog.Warn("re-enumeration failed", slog.String("error", err.Error()))
					continue
				}
				if change.Empty() {
					continue
				}
				n := len(rec.Current())
				if jsonOutput {
					if err := enc.Encode(changeJSON{
						Added:         change.Added,
						Removed:       change.Removed,
						RulesAdded:    change.RulesAdded,
						RulesRemoved:  change.RulesRemoved,
						ConfigChanged: change.ConfigChanged,
						Total:         n,
					}); err != nil {
						return err
					}
					continue
				}
				printChange(r, change, n)
			case err, ok := <-w.Errors():
				if !ok {
					return nil
				}
				slog.Warn("watcher error", slog.String("error", err.Error()))
			}
		}
	})

	err = g.Wait()
	if dropped := w.DroppedBatches(); dropped > 0 {
		slog.Warn("event batches dropped", slog.Uint64("count", dropped))
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		return ggerrors.FromIO(client.Cwd(), err)
	}
	return nil
}

func printChange(r *ui.ChangeRenderer, c watcher.Change, total int) {
	if len(c.RulesAdded) > 0 {
		r.Notice("rules added: %s", strings.Join(c.RulesAdded, " "))
	}
	if len(c.RulesRemoved) > 0 {
		r.Notice("rules removed: %s", strings.Join(c.RulesRemoved, " "))
	}
	if c.ConfigChanged {
		r.Notice("configuration changed; restart to apply")
	}
	for _, p := range c.Added {
		r.Added(p)
	}
	for _, p := range c.Removed {
		r.Removed(p)
	}
	if len(c.Added) > 0 || len(c.Removed) > 0 {
		r.Notice("%d files", total)
	}
}
