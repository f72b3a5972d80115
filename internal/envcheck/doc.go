// Package envcheck validates the local PHP environment before the tool
// reports anything as healthy.
//
// The package runs a fixed ordered list of checks against the live system:
//   - php binary present under the Homebrew prefix
//   - php entry present in the Homebrew opt directory
//   - valet executable present at a known Composer path
//   - sudoers drop-ins referencing brew and valet
//   - at most one php service started
//
// Breaking checks halt the success path; advisory checks only warn. After a
// clean pass the active PHP version is resolved from Homebrew and handed to
// the success callback.
//
// Use the Validator type to run a validation pass:
//
//	v := envcheck.New(cfg, runner, client, envcheck.WithNotifier(n))
//	result, err := v.Run(ctx)
//	if result.TriggeredBreaking {
//	    // Environment is unusable
//	}
package envcheck
