package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/phpdoctor/phpdoctor/internal/config"
	"github.com/phpdoctor/phpdoctor/internal/history"
	"github.com/phpdoctor/phpdoctor/internal/output"
	"github.com/phpdoctor/phpdoctor/internal/ui"
)

func newHistoryCmd() *cobra.Command {
	var (
		limit      int
		jsonOut    bool
		pruneOlder time.Duration
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past validation runs",
		Long: `List the outcomes of previous environment checks, newest first.

Each run records its status, the number of breaking and advisory
failures, and the active PHP version when the pass was clean.`,
		Example: `  # Last 20 runs
  phpdoctor history

  # Last 5 runs as JSON
  phpdoctor history --limit 5 --json

  # Drop records older than a week
  phpdoctor history --prune 168h`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runHistory(cmd, cfg, limit, jsonOut, pruneOlder)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	cmd.Flags().DurationVar(&pruneOlder, "prune", 0, "Delete runs older than this duration before listing")

	return cmd
}

func runHistory(cmd *cobra.Command, cfg *config.Config, limit int, jsonOut bool, pruneOlder time.Duration) error {
	store, err := history.Open(history.DefaultPath(cfg.Paths.DataDir))
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	out := output.New(cmd.OutOrStdout())

	if pruneOlder > 0 {
		removed, err := store.Prune(pruneOlder)
		if err != nil {
			return err
		}
		if !jsonOut {
			out.Linef("Pruned %d run(s)", removed)
		}
	}

	runs, err := store.Recent(limit)
	if err != nil {
		return err
	}

	if jsonOut {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if runs == nil {
			runs = []history.Run{}
		}
		return encoder.Encode(runs)
	}

	if len(runs) == 0 {
		out.Line("No validation runs recorded yet. Run 'phpdoctor doctor' first.")
		return nil
	}

	styles := ui.PlainStyles()
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		styles = ui.StylesFor(f)
	}

	printHistory(out, styles, runs)
	return nil
}

func printHistory(out *output.Writer, styles ui.Styles, runs []history.Run) {
	out.Blank()
	out.Line(styles.Header.Render("Validation History"))
	out.Blank()

	for _, r := range runs {
		label := styles.Pass.Render("PASS")
		switch r.Status {
		case "failed":
			label = styles.Fail.Render("FAIL")
		case "passed_with_warnings":
			label = styles.Warn.Render("WARN")
		}

		line := r.Timestamp.Local().Format("2006-01-02 15:04:05") + "  [" + label + "]"
		if r.Breaking > 0 {
			line += "  " + styles.Fail.Render(plural(r.Breaking, "breaking failure"))
		}
		if r.Advisory > 0 {
			line += "  " + styles.Warn.Render(plural(r.Advisory, "warning"))
		}
		if r.PHPVersion != "" {
			line += "  php " + styles.Version.Render(r.PHPVersion)
		}
		out.Line(line)
	}
	out.Blank()
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
