package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/phpdoctor/phpdoctor/internal/alert"
	"github.com/phpdoctor/phpdoctor/internal/brew"
	"github.com/phpdoctor/phpdoctor/internal/config"
	"github.com/phpdoctor/phpdoctor/internal/envcheck"
	"github.com/phpdoctor/phpdoctor/internal/history"
	"github.com/phpdoctor/phpdoctor/internal/output"
	"github.com/phpdoctor/phpdoctor/internal/shell"
	"github.com/phpdoctor/phpdoctor/internal/ui"
)

type doctorOptions struct {
	Verbose bool
	JSON    bool
	Force   bool
}

func newDoctorCmd() *cobra.Command {
	var opts doctorOptions

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the PHP environment and diagnose issues",
		Long: `Run all environment checks and report the results.

Checks:
  - php binary under the Homebrew prefix
  - php entry in the Homebrew opt directory
  - valet executable at a known Composer path
  - sudoers entries for brew and valet
  - at most one php service started (advisory)

After a clean pass the active PHP version is resolved from Homebrew.

Use --verbose for check descriptions.
Use --json for machine-readable output.`,
		Example: `  # Run diagnostics
  phpdoctor doctor

  # Force a re-check even if a clean pass is recorded
  phpdoctor doctor --force

  # JSON output for scripting
  phpdoctor doctor --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runDoctor(cmd, cfg, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show check descriptions")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Clear the clean-pass marker before checking")

	return cmd
}

// doctorError signals a breaking validation failure without extra wrapping.
type doctorError struct {
	message string
}

func (e *doctorError) Error() string {
	return e.message
}

func runDoctor(cmd *cobra.Command, cfg *config.Config, opts doctorOptions) error {
	// signal.NotifyContext prevents goroutine leaks on repeated runs
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.Force {
		if err := envcheck.ClearMarker(cfg.Paths.DataDir); err != nil {
			slog.Warn("failed to clear marker", slog.String("error", err.Error()))
		}
	}

	runner := shell.New()
	client := brew.NewClient(runner, cfg.BrewBinPath(), cfg.Brew.CacheTTL)

	styles := ui.PlainStyles()
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		styles = ui.StylesFor(f)
	}
	out := output.New(cmd.OutOrStdout())

	// Alerts are delivered off the validation goroutine; the summary below
	// waits for the queue to drain before printing.
	notifier := alert.NewAsyncNotifier(alert.NewTerminalNotifier(out, styles))

	validator := envcheck.New(cfg, runner, client, envcheck.WithNotifier(notifier))

	result, err := validator.Run(ctx)
	notifier.Close()
	if err != nil {
		return err
	}

	recordRun(cfg, result)
	recordCleanPass(cfg, result)

	if opts.JSON {
		return printJSON(cmd, result)
	}

	printResults(out, styles, result, opts.Verbose)

	if result.TriggeredBreaking {
		return &doctorError{message: "environment check failed"}
	}
	return nil
}

// recordCleanPass writes the skip marker. Only a run with no failures at
// all qualifies; a warn run must be re-validated on the next startup, and
// the marker is written regardless of the output format.
func recordCleanPass(cfg *config.Config, result *envcheck.Result) {
	if result.Failed {
		return
	}
	if err := envcheck.MarkPassed(cfg.Paths.DataDir); err != nil {
		slog.Debug("failed to record clean pass", slog.String("error", err.Error()))
	}
}

// recordRun stores the outcome in the history database, best-effort.
func recordRun(cfg *config.Config, result *envcheck.Result) {
	store, err := history.Open(history.DefaultPath(cfg.Paths.DataDir))
	if err != nil {
		slog.Debug("history unavailable", slog.String("error", err.Error()))
		return
	}
	defer func() { _ = store.Close() }()

	if err := store.Record(result); err != nil {
		slog.Debug("failed to record run", slog.String("error", err.Error()))
	}
}

// printResults renders the human-readable check report.
func printResults(out *output.Writer, styles ui.Styles, result *envcheck.Result, verbose bool) {
	out.Blank()
	out.Line(styles.Header.Render("PHP Environment Check"))
	out.Line(styles.Dim.Render("====================="))
	out.Blank()

	for _, r := range result.Checks {
		icon := styles.Pass.Render("PASS")
		switch r.Status {
		case envcheck.StatusWarn:
			icon = styles.Warn.Render("WARN")
		case envcheck.StatusFail:
			icon = styles.Fail.Render("FAIL")
		}
		out.Linef("[%s] %s: %s", icon, r.Name, r.Title)
		if verbose && r.Description != "" {
			out.Status("", styles.Label.Render(r.Description))
		}
	}

	out.Blank()
	switch {
	case result.TriggeredBreaking:
		out.Error(styles.Fail.Render("Environment is not usable"))
		for _, e := range result.Errors() {
			out.Status("", e.Name+": "+e.Title)
		}
	case result.Failed:
		out.Warning(styles.Warn.Render("Environment OK, with warnings"))
		for _, w := range result.Warnings() {
			out.Status("", w.Name+": "+w.Title)
		}
	default:
		out.Success("Environment OK")
	}

	if result.PHP != nil {
		out.Blank()
		out.Linef("Active PHP: %s", styles.Version.Render(result.PHP.Version))
	}
}

// jsonOutput is the structure for machine-readable results.
type jsonOutput struct {
	Status     string            `json:"status"`
	PHPVersion string            `json:"php_version,omitempty"`
	Checks     []jsonCheckResult `json:"checks"`
	Warnings   []string          `json:"warnings,omitempty"`
	Errors     []string          `json:"errors,omitempty"`
}

type jsonCheckResult struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	Title       string `json:"title"`
	Breaking    bool   `json:"breaking"`
	Description string `json:"description,omitempty"`
}

func printJSON(cmd *cobra.Command, result *envcheck.Result) error {
	out := jsonOutput{
		Status: summaryStatus(result),
		Checks: make([]jsonCheckResult, len(result.Checks)),
	}
	if result.PHP != nil {
		out.PHPVersion = result.PHP.Version
	}

	for i, r := range result.Checks {
		out.Checks[i] = jsonCheckResult{
			Name:        r.Name,
			Status:      statusToString(r.Status),
			Title:       r.Title,
			Breaking:    r.Breaking,
			Description: r.Description,
		}
		if r.IsCritical() {
			out.Errors = append(out.Errors, r.Name+": "+r.Title)
		} else if r.Status == envcheck.StatusWarn {
			out.Warnings = append(out.Warnings, r.Name+": "+r.Title)
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(out); err != nil {
		return err
	}

	if result.TriggeredBreaking {
		return &doctorError{message: "environment check failed"}
	}
	return nil
}

func summaryStatus(result *envcheck.Result) string {
	switch {
	case result.TriggeredBreaking:
		return "failed"
	case result.Failed:
		return "ready_with_warnings"
	default:
		return "ready"
	}
}

func statusToString(s envcheck.CheckStatus) string {
	switch s {
	case envcheck.StatusPass:
		return "pass"
	case envcheck.StatusWarn:
		return "warn"
	case envcheck.StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// formatDuration renders an age like "3h" or "2d" for marker output.
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
