package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/phpdoctor/phpdoctor/internal/alert"
	"github.com/phpdoctor/phpdoctor/internal/brew"
	"github.com/phpdoctor/phpdoctor/internal/config"
	"github.com/phpdoctor/phpdoctor/internal/envcheck"
	"github.com/phpdoctor/phpdoctor/internal/history"
	"github.com/phpdoctor/phpdoctor/internal/output"
	"github.com/phpdoctor/phpdoctor/internal/shell"
	"github.com/phpdoctor/phpdoctor/internal/ui"
	"github.com/phpdoctor/phpdoctor/internal/watcher"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Continuously validate the environment",
		Long: `Watch the filesystem paths the environment checks read and re-validate
whenever they change. Service state cannot be observed through the
filesystem, so it is re-checked on a poll interval.

Watch mode observes and reports only; it never starts or stops services.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runWatch(cmd, cfg)
		},
	}

	return cmd
}

func runWatch(cmd *cobra.Command, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := shell.New()
	client := brew.NewClient(runner, cfg.BrewBinPath(), cfg.Brew.CacheTTL)

	styles := ui.PlainStyles()
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		styles = ui.StylesFor(f)
	}
	out := output.New(cmd.OutOrStdout())
	notifier := alert.NewAsyncNotifier(alert.NewTerminalNotifier(out, styles))
	defer notifier.Close()

	validator := envcheck.New(cfg, runner, client, envcheck.WithNotifier(notifier))

	store, err := history.Open(history.DefaultPath(cfg.Paths.DataDir))
	if err != nil {
		slog.Warn("history unavailable", slog.String("error", err.Error()))
		store = nil
	} else {
		defer func() { _ = store.Close() }()
	}

	revalidate := func(reason string) {
		// Drop cached brew output so the pass sees live state
		client.Invalidate()

		result, err := validator.Run(ctx)
		if err != nil {
			out.Errorf("validation error: %v", err)
			return
		}

		if store != nil {
			if err := store.Record(result); err != nil {
				slog.Debug("failed to record run", slog.String("error", err.Error()))
			}
		}

		stamp := time.Now().Format("15:04:05")
		switch {
		case result.TriggeredBreaking:
			out.Linef("%s [%s] %s", stamp, styles.Fail.Render("FAIL"), reason)
		case result.Failed:
			out.Linef("%s [%s] %s", stamp, styles.Warn.Render("WARN"), reason)
		default:
			version := ""
			if result.PHP != nil {
				version = " php " + result.PHP.Version
			}
			out.Linef("%s [%s] %s%s", stamp, styles.Pass.Render("OK"), reason, version)
		}
	}

	w := watcher.New(envcheck.WatchPaths(cfg), watcher.Options{
		DebounceWindow: cfg.Watch.Debounce,
	})
	if err := w.Start(ctx); err != nil {
		return err
	}

	out.Linef("Watching PHP environment (poll every %s, Ctrl-C to stop)", cfg.Watch.PollInterval)
	revalidate("startup")

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case batch, ok := <-w.Batches():
				if !ok {
					return nil
				}
				slog.Debug("environment changed", slog.Any("paths", batch))
				revalidate("filesystem change")
			}
		}
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.Watch.PollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				revalidate("periodic check")
			}
		}
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case err, ok := <-w.Errors():
				if !ok {
					return nil
				}
				slog.Warn("watcher error", slog.String("error", err.Error()))
			}
		}
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
