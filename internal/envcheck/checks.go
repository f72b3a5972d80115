package envcheck

import (
	"context"
	"strings"

	"github.com/phpdoctor/phpdoctor/internal/brew"
	"github.com/phpdoctor/phpdoctor/internal/config"
	"github.com/phpdoctor/phpdoctor/internal/shell"
)

// BuildChecks assembles the standard check list for cfg. Order is fixed;
// when several breaking checks fail, each still produces its own alert.
func BuildChecks(cfg *config.Config, runner shell.Runner, client *brew.Client) []Check {
	return []Check{
		{
			Name:           "php_binary",
			TitleKey:       "check.php_binary.title",
			DescriptionKey: "check.php_binary.description",
			Breaking:       true,
			Probe: func(context.Context) (bool, error) {
				return !runner.FileExists(cfg.PHPBinPath()), nil
			},
		},
		{
			Name:           "opt_entry",
			TitleKey:       "check.opt_entry.title",
			DescriptionKey: "check.opt_entry.description",
			Breaking:       true,
			Probe: func(ctx context.Context) (bool, error) {
				out, err := runner.Output(ctx, "ls", cfg.OptDir())
				if err != nil {
					// No listing means no php entry either
					return true, err
				}
				return !strings.Contains(out, "php"), nil
			},
		},
		{
			Name:           "valet_binary",
			TitleKey:       "check.valet_binary.title",
			DescriptionKey: "check.valet_binary.description",
			Breaking:       true,
			Probe: func(context.Context) (bool, error) {
				for _, path := range cfg.Valet.BinPaths {
					if runner.FileExists(path) {
						return false, nil
					}
				}
				return true, nil
			},
		},
		{
			Name:           "sudoers_brew",
			TitleKey:       "check.sudoers_brew.title",
			DescriptionKey: "check.sudoers_brew.description",
			Breaking:       true,
			Probe: func(ctx context.Context) (bool, error) {
				out, err := runner.Output(ctx, "cat", cfg.Paths.SudoersBrew)
				if err != nil {
					return true, err
				}
				return !strings.Contains(out, cfg.BrewBinPath()), nil
			},
		},
		{
			Name:           "sudoers_valet",
			TitleKey:       "check.sudoers_valet.title",
			DescriptionKey: "check.sudoers_valet.description",
			Breaking:       true,
			Probe: func(ctx context.Context) (bool, error) {
				out, err := runner.Output(ctx, "cat", cfg.Paths.SudoersValet)
				if err != nil {
					return true, err
				}
				for _, path := range cfg.Valet.BinPaths {
					if strings.Contains(out, path) {
						return false, nil
					}
				}
				return true, nil
			},
		},
		{
			Name:           "services_started",
			TitleKey:       "check.services_started.title",
			DescriptionKey: "check.services_started.description",
			Breaking:       false,
			Probe: func(ctx context.Context) (bool, error) {
				count, err := client.StartedPHPCount(ctx)
				if err != nil {
					// Advisory check: an unreadable service list is not
					// worth a warning of its own
					return false, err
				}
				return count > 1, nil
			},
		},
	}
}

// WatchPaths returns the filesystem locations the breaking checks read.
// Watch mode re-validates when any of these change.
func WatchPaths(cfg *config.Config) []string {
	paths := []string{
		cfg.PHPBinPath(),
		cfg.OptDir(),
		cfg.Paths.SudoersBrew,
		cfg.Paths.SudoersValet,
	}
	paths = append(paths, cfg.Valet.BinPaths...)
	return paths
}
