package envcheck

import (
	"context"
	"log/slog"

	"github.com/phpdoctor/phpdoctor/internal/alert"
	"github.com/phpdoctor/phpdoctor/internal/brew"
	"github.com/phpdoctor/phpdoctor/internal/config"
	"github.com/phpdoctor/phpdoctor/internal/locale"
	"github.com/phpdoctor/phpdoctor/internal/shell"
)

// CheckStatus represents the result of a single check.
type CheckStatus int

const (
	// StatusPass indicates the check passed.
	StatusPass CheckStatus = iota
	// StatusWarn indicates an advisory failure (warning only).
	StatusWarn
	// StatusFail indicates a breaking failure.
	StatusFail
)

// String returns the string representation of a CheckStatus.
func (s CheckStatus) String() string {
	switch s {
	case StatusPass:
		return "PASS"
	case StatusWarn:
		return "WARN"
	case StatusFail:
		return "FAIL"
	default:
		return "UNKNOWN"
	}
}

// Check is one immutable environment predicate, defined at startup.
// Probe returns true when the failure condition is met.
type Check struct {
	Name           string
	TitleKey       string
	DescriptionKey string
	Breaking       bool
	Probe          func(ctx context.Context) (bool, error)
}

// CheckResult holds the outcome of a single check.
type CheckResult struct {
	Name        string      `json:"name"`
	Status      CheckStatus `json:"status"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Breaking    bool        `json:"breaking"`
}

// IsCritical returns true if this is a breaking check that failed.
func (r CheckResult) IsCritical() bool {
	return r.Breaking && r.Status == StatusFail
}

// Result is the outcome of a full validation pass. The resolved PHP info is
// an explicit value here; nothing is stored in shared state.
type Result struct {
	// Failed is true when any check's failure condition was met,
	// breaking or advisory.
	Failed bool `json:"failed"`

	// TriggeredBreaking is true when a breaking check failed.
	TriggeredBreaking bool `json:"triggered_breaking"`

	// Checks are the individual outcomes, in execution order.
	Checks []CheckResult `json:"checks"`

	// PHP is the resolved aliased PHP formula info. Only set after a pass
	// with no breaking failures.
	PHP *brew.PHPInfo `json:"php,omitempty"`
}

// Warnings returns the advisory failures.
func (r *Result) Warnings() []CheckResult {
	var out []CheckResult
	for _, c := range r.Checks {
		if c.Status == StatusWarn {
			out = append(out, c)
		}
	}
	return out
}

// Errors returns the breaking failures.
func (r *Result) Errors() []CheckResult {
	var out []CheckResult
	for _, c := range r.Checks {
		if c.IsCritical() {
			out = append(out, c)
		}
	}
	return out
}

// Validator runs environment checks in a fixed sequence.
type Validator struct {
	checks   []Check
	notifier alert.Notifier
	catalog  *locale.Catalog
	lookup   func(ctx context.Context) (*brew.PHPInfo, error)
}

// Option configures a Validator.
type Option func(*Validator)

// WithNotifier sets the notifier used for failure alerts.
func WithNotifier(n alert.Notifier) Option {
	return func(v *Validator) {
		v.notifier = n
	}
}

// WithCatalog sets the message catalog for alert text.
func WithCatalog(c *locale.Catalog) Option {
	return func(v *Validator) {
		v.catalog = c
	}
}

// WithChecks replaces the default check list.
func WithChecks(checks []Check) Option {
	return func(v *Validator) {
		v.checks = checks
	}
}

// WithVersionLookup replaces the secondary version lookup.
func WithVersionLookup(fn func(ctx context.Context) (*brew.PHPInfo, error)) Option {
	return func(v *Validator) {
		v.lookup = fn
	}
}

// New creates a Validator with the standard check list for cfg.
func New(cfg *config.Config, runner shell.Runner, client *brew.Client, opts ...Option) *Validator {
	v := &Validator{
		checks:   BuildChecks(cfg, runner, client),
		notifier: alert.Func(func(string, string) {}),
		catalog:  locale.Default(),
		lookup: func(ctx context.Context) (*brew.PHPInfo, error) {
			return client.Info(ctx, cfg.Brew.Formula)
		},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Run executes the full validation pass without callbacks.
func (v *Validator) Run(ctx context.Context) (*Result, error) {
	return v.run(ctx, nil, nil)
}

// Validate executes the pass and fires callbacks: onFailure once per
// breaking check detected, onSuccess exactly once after the version lookup
// succeeds with no breaking failures. A lookup decode failure is returned
// as an error and onSuccess is not invoked.
func (v *Validator) Validate(ctx context.Context, onSuccess func(*Result), onFailure func(CheckResult)) (*Result, error) {
	return v.run(ctx, onSuccess, onFailure)
}

// run walks the checks sequentially on the calling goroutine. Notifications
// are fire-and-forget through the notifier; the failure state is always set
// synchronously before the next check runs.
func (v *Validator) run(ctx context.Context, onSuccess func(*Result), onFailure func(CheckResult)) (*Result, error) {
	result := &Result{}

	for _, chk := range v.checks {
		triggered, err := chk.Probe(ctx)
		if err != nil {
			slog.Warn("check probe error",
				slog.String("check", chk.Name),
				slog.String("error", err.Error()))
		}

		res := CheckResult{
			Name:        chk.Name,
			Title:       v.catalog.Get(chk.TitleKey),
			Description: v.catalog.Get(chk.DescriptionKey),
			Breaking:    chk.Breaking,
			Status:      StatusPass,
		}

		if triggered {
			result.Failed = true
			if chk.Breaking {
				res.Status = StatusFail
				result.TriggeredBreaking = true
			} else {
				res.Status = StatusWarn
			}

			v.notifier.Notify(res.Title, res.Description)

			if chk.Breaking && onFailure != nil {
				onFailure(res)
			}
		}

		result.Checks = append(result.Checks, res)
	}

	if result.TriggeredBreaking {
		return result, nil
	}

	info, err := v.lookup(ctx)
	if err != nil {
		return result, err
	}
	result.PHP = info

	if onSuccess != nil {
		onSuccess(result)
	}
	return result, nil
}
