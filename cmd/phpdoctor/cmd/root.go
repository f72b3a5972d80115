// Package cmd provides the CLI commands for phpdoctor.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/phpdoctor/phpdoctor/internal/config"
	"github.com/phpdoctor/phpdoctor/internal/envcheck"
	"github.com/phpdoctor/phpdoctor/internal/logging"
	"github.com/phpdoctor/phpdoctor/pkg/version"
)

// Debug logging flag
var (
	debugMode      bool
	loggingCleanup func()
)

// NewRootCmd creates the root command for the phpdoctor CLI.
func NewRootCmd() *cobra.Command {
	var skipCheck bool

	cmd := &cobra.Command{
		Use:   "phpdoctor",
		Short: "Validate a Homebrew-managed PHP and Valet environment",
		Long: `phpdoctor checks that a local PHP development environment managed by
Homebrew and Laravel Valet is usable: the php binary, the Homebrew opt
link, the valet executable, and the sudoers entries both tools need.

Breaking problems abort with a non-zero exit code; advisory problems
only warn. Run 'phpdoctor doctor' for the full report.`,
		Version: version.Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return cmd.Help()
			}
			return runStartupValidation(cmd, skipCheck)
		},
	}

	cmd.SetVersionTemplate("phpdoctor version {{.Version}}\n")

	cmd.Flags().BoolVar(&skipCheck, "skip-check", false, "Skip validation when a recent clean pass is recorded")

	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.phpdoctor/logs/")
	cmd.PersistentPreRunE = startLogging
	cmd.PersistentPostRunE = stopLogging

	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// startLogging starts debug logging if the flag is set.
func startLogging(_ *cobra.Command, _ []string) error {
	if !debugMode {
		return nil
	}

	logger, cleanup, err := logging.Setup(logging.DebugConfig())
	if err != nil {
		return fmt.Errorf("failed to setup debug logging: %w", err)
	}
	loggingCleanup = cleanup
	slog.SetDefault(logger)
	slog.Info("Debug logging enabled",
		slog.String("log_file", logging.DefaultLogPath()),
		slog.String("version", version.Version))
	return nil
}

// stopLogging stops debug logging.
func stopLogging(_ *cobra.Command, _ []string) error {
	if loggingCleanup != nil {
		slog.Info("Debug logging stopped")
		loggingCleanup()
		loggingCleanup = nil
	}
	return nil
}

// runStartupValidation is the default action: validate the environment,
// honoring the marker cache from earlier clean passes.
func runStartupValidation(cmd *cobra.Command, skipCheck bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if skipCheck && !envcheck.NeedsCheck(cfg.Paths.DataDir, cfg.Paths.MarkerTTL) {
		age := envcheck.MarkerAge(cfg.Paths.DataDir)
		slog.Debug("skipping validation",
			slog.String("marker_age", age.String()))
		cmd.Printf("Environment OK (last checked %s ago)\n", formatDuration(age))
		return nil
	}

	return runDoctor(cmd, cfg, doctorOptions{})
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
