// Where: internal/wire/wire.go
// What: CLI and Lambda dependency wiring.
// Why: Centralize dependency construction for reuse by main and tests.
package wire

import (
	"io"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/poruru-code/versionsync/internal/command"
	"github.com/poruru-code/versionsync/internal/config"
	"github.com/poruru-code/versionsync/internal/infra/awsclient"
	"github.com/poruru-code/versionsync/internal/usecase/versionsync"
	"github.com/poruru-code/versionsync/internal/version"
)

var (
	// Stdout is the writer used for command output.
	Stdout io.Writer = os.Stdout
	// Stderr receives logs and diagnostics.
	Stderr io.Writer = os.Stderr
	// Stdin supplies requests read from "-".
	Stdin io.Reader = os.Stdin
	// LoadSettings reads the deployment settings. Tests may override this helper.
	LoadSettings = config.Load
	// StartLambda hands the handler to the Lambda runtime. Tests may override this helper.
	StartLambda = func(handler any) { lambda.Start(handler) }
)

// BuildDependencies constructs command dependencies. Settings are loaded by
// the command itself, after flags and env files have been applied.
func BuildDependencies() command.Dependencies {
	return command.Dependencies{
		Out:          Stdout,
		ErrOut:       Stderr,
		In:           Stdin,
		LoadSettings: LoadSettings,
		NewEngine:    NewEngine,
		StartLambda:  StartLambda,
	}
}

// NewEngine builds the AWS-backed engine described by settings.
func NewEngine(settings config.Settings) (command.Engine, error) {
	policies, err := settings.Policies()
	if err != nil {
		return nil, err
	}
	factory := awsclient.NewFactory(factoryOptions(settings))
	provider := NewBackendProvider(factory, retryPolicy(settings.Retry))
	return versionsync.New(provider, versionsync.Options{
		NamePrefix:     settings.NamePrefix,
		Policies:       policies,
		Concurrency:    settings.Concurrency,
		DeadlineMargin: settings.DeadlineMargin,
	}), nil
}

func factoryOptions(settings config.Settings) awsclient.Options {
	assume := settings.AssumeRole
	return awsclient.Options{
		Region:            settings.Region,
		AppID:             version.AppID(),
		CrossAccountReads: settings.CrossAccountReads,
		AssumeRole: awsclient.AssumeRoleOptions{
			SessionName: assume.SessionName,
			Duration:    assume.Duration,
			Retry: awsclient.RetryPolicy{
				MaxAttempts:     assume.MaxAttempts,
				InitialInterval: assume.InitialInterval,
				MaxInterval:     assume.MaxInterval,
			},
		},
	}
}

func retryPolicy(retry config.RetrySettings) awsclient.RetryPolicy {
	return awsclient.RetryPolicy{
		MaxAttempts:     retry.MaxAttempts,
		InitialInterval: retry.InitialInterval,
		MaxInterval:     retry.MaxInterval,
		MaxElapsed:      retry.MaxElapsed,
	}
}
