// Where: internal/command/resolve.go
// What: resolve command adapter.
// Why: Run one invocation from a request file and print the response.
package command

import (
	"context"
	"fmt"
	"strings"

	slogctx "github.com/veqryn/slog-context"
)

func runResolve(cli CLI, deps Dependencies) int {
	cmd := cli.Resolve
	settings, err := loadSettings(cli, deps)
	if err != nil {
		return exitWithError(deps.ErrOut, err)
	}
	if value := strings.TrimSpace(cmd.NamePrefix); value != "" {
		settings.NamePrefix = value
	}
	if value := strings.TrimSpace(cmd.Region); value != "" {
		settings.Region = value
	}

	logger, err := newLogger(deps.ErrOut, settings)
	if err != nil {
		return exitWithError(deps.ErrOut, err)
	}
	payload, err := readPayload(cmd.Request, deps.In)
	if err != nil {
		return exitWithFatal(deps.ErrOut, err)
	}
	if deps.NewEngine == nil {
		return exitWithError(deps.ErrOut, errEngineNotConfigured)
	}
	engine, err := deps.NewEngine(settings)
	if err != nil {
		return exitWithError(deps.ErrOut, err)
	}

	ctx := slogctx.NewCtx(context.Background(), logger)
	if cmd.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	resp, err := engine.Run(ctx, payload)
	if err != nil {
		return exitWithFatal(deps.ErrOut, err)
	}
	if err := writeResponse(deps.Out, cmd.Format, resp); err != nil {
		return exitWithError(deps.ErrOut, err)
	}

	if resp.Partial() {
		consoleUI(deps.ErrOut).Warn(fmt.Sprintf(
			"partial result: %d resolution failure(s), %d write failure(s)",
			len(resp.ResolutionFailures), len(resp.WriteFailures),
		))
		if cmd.FailOnPartial {
			return ExitPartial
		}
	}
	return ExitOK
}
