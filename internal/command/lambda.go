// Where: internal/command/lambda.go
// What: Lambda runtime adapter.
// Why: The engine runs as a pipeline state machine task.
package command

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/poruru-code/versionsync/internal/domain/artifact"
	"github.com/poruru-code/versionsync/internal/domain/request"
	slogctx "github.com/veqryn/slog-context"
)

var errEngineNotConfigured = errors.New("engine is not configured")

// LambdaHandler serves state machine invocations. Fatal errors fail the task.
type LambdaHandler struct {
	Engine Engine
	Logger *slog.Logger
}

// Handle decodes one invocation payload and runs it.
func (h LambdaHandler) Handle(ctx context.Context, raw json.RawMessage) (artifact.Response, error) {
	if h.Logger != nil {
		ctx = slogctx.NewCtx(ctx, h.Logger)
	}
	payload, err := request.Decode(raw)
	if err != nil {
		slogctx.FromCtx(ctx).Error("invalid payload", "error", err)
		return artifact.Response{}, err
	}
	resp, err := h.Engine.Run(ctx, payload)
	if err != nil {
		slogctx.FromCtx(ctx).Error("invocation failed", "error", err)
		return artifact.Response{}, err
	}
	return resp, nil
}

func runLambda(cli CLI, deps Dependencies) int {
	settings, err := loadSettings(cli, deps)
	if err != nil {
		return exitWithError(deps.ErrOut, err)
	}
	logger, err := newLogger(deps.ErrOut, settings)
	if err != nil {
		return exitWithError(deps.ErrOut, err)
	}
	if deps.NewEngine == nil || deps.StartLambda == nil {
		return exitWithError(deps.ErrOut, errEngineNotConfigured)
	}
	engine, err := deps.NewEngine(settings)
	if err != nil {
		return exitWithError(deps.ErrOut, err)
	}

	handler := LambdaHandler{Engine: engine, Logger: logger}
	deps.StartLambda(handler.Handle)
	return ExitOK
}
