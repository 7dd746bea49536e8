// Where: internal/command/error_helpers.go
// What: Shared CLI error output.
// Why: Keep fatal error output consistent across commands.
package command

import (
	"errors"
	"fmt"
	"io"

	"github.com/poruru-code/versionsync/internal/domain/parameter"
	"github.com/poruru-code/versionsync/internal/domain/request"
	"github.com/poruru-code/versionsync/internal/infra/awsclient"
)

// exitWithError prints an error message to the output writer and returns
// ExitFatal.
func exitWithError(out io.Writer, err error) int {
	consoleUI(out).Info(fmt.Sprintf("✗ %v", err))
	return ExitFatal
}

// exitWithSuggestion prints an error message followed by next steps.
func exitWithSuggestion(out io.Writer, message string, suggestions []string) int {
	ui := consoleUI(out)
	ui.Info(fmt.Sprintf("⚠️  %s", message))
	if len(suggestions) > 0 {
		ui.Info("")
		ui.Info("💡 Next steps:")
		for _, s := range suggestions {
			ui.Info(fmt.Sprintf("   - %s", s))
		}
	}
	return ExitFatal
}

// exitWithFatal explains the fatal error kinds of an invocation.
func exitWithFatal(out io.Writer, err error) int {
	var cfgErr *request.ConfigError
	if errors.As(err, &cfgErr) {
		ui := consoleUI(out)
		ui.Info("✗ invalid request")
		for _, problem := range cfgErr.Problems {
			ui.Info(fmt.Sprintf("   - %s: %s", problem.Field, problem.Reason))
		}
		return ExitFatal
	}

	var credErr *awsclient.CredentialError
	if errors.As(err, &credErr) {
		return exitWithSuggestion(out, err.Error(), []string{
			fmt.Sprintf("check that %s trusts the pipeline account", credErr.RoleARN),
			"retry once the role's trust policy has propagated",
		})
	}

	var guard *parameter.GuardViolation
	if errors.As(err, &guard) {
		return exitWithSuggestion(out, err.Error(), []string{
			"set NAME_PREFIX (or --name-prefix) to the root namespace of this deployment",
			"check ssm_prefix and application names for '..' or empty segments",
		})
	}
	return exitWithError(out, err)
}
