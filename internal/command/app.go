// Where: internal/command/app.go
// What: CLI entrypoint logic.
// Why: Provide a testable command dispatcher.
package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/poruru-code/versionsync/internal/config"
	"github.com/poruru-code/versionsync/internal/domain/artifact"
	"github.com/poruru-code/versionsync/internal/domain/request"
	"github.com/poruru-code/versionsync/internal/version"
)

// Exit codes returned by Run.
const (
	ExitOK      = 0
	ExitFatal   = 1
	ExitPartial = 2
)

// Engine runs one invocation.
type Engine interface {
	Run(ctx context.Context, payload request.Payload) (artifact.Response, error)
}

// Dependencies holds all injected dependencies required for CLI command execution.
type Dependencies struct {
	Out    io.Writer
	ErrOut io.Writer
	In     io.Reader
	// LoadSettings reads the deployment settings.
	LoadSettings func() (config.Settings, error)
	// NewEngine builds an engine bound to settings.
	NewEngine func(config.Settings) (Engine, error)
	// StartLambda hands a handler to the Lambda runtime. It does not return
	// under a real runtime.
	StartLambda func(handler any)
}

// CLI defines the command-line interface structure parsed by Kong.
type CLI struct {
	EnvFile   string      `name:"env-file" help:"Path to .env file"`
	LogLevel  string      `name:"log-level" help:"Log level (debug/info/warn/error)"`
	LogFormat string      `name:"log-format" help:"Log format (json/text)"`
	Resolve   ResolveCmd  `cmd:"" help:"Resolve versions and optionally write them to Parameter Store"`
	Validate  ValidateCmd `cmd:"" help:"Validate a request without calling AWS"`
	Lambda    LambdaCmd   `cmd:"" help:"Serve requests as an AWS Lambda function"`
	Version   VersionCmd  `cmd:"" help:"Show version information"`
}

type (
	// ResolveCmd defines the resolve command flags.
	ResolveCmd struct {
		Request       string        `short:"r" default:"-" help:"Request file (JSON or YAML), '-' reads stdin"`
		NamePrefix    string        `name:"name-prefix" help:"Root namespace for parameter writes (overrides NAME_PREFIX)"`
		Region        string        `help:"AWS region"`
		Timeout       time.Duration `default:"5m" help:"Time limit for the whole invocation"`
		Format        string        `short:"f" enum:"json,text" default:"json" help:"Output format (json/text)"`
		FailOnPartial bool          `name:"fail-on-partial" help:"Exit with code 2 when any application failed"`
	}

	// ValidateCmd defines the validate command flags.
	ValidateCmd struct {
		Request string `short:"r" default:"-" help:"Request file (JSON or YAML), '-' reads stdin"`
	}

	LambdaCmd struct{}

	VersionCmd struct{}
)

// Run is the main entry point for CLI command execution.
// It parses the command-line arguments, identifies the requested command,
// and dispatches to the appropriate handler. Returns ExitOK, ExitFatal or
// ExitPartial.
func Run(args []string, deps Dependencies) int {
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	if deps.ErrOut == nil {
		deps.ErrOut = os.Stderr
	}
	if deps.In == nil {
		deps.In = os.Stdin
	}
	if deps.LoadSettings == nil {
		deps.LoadSettings = config.Load
	}

	if len(args) == 0 {
		return runNoArgs(deps.Out)
	}

	cli := CLI{}
	parser, err := kong.New(&cli, kong.Name(cliName()), kong.Writers(deps.Out, deps.ErrOut))
	if err != nil {
		return exitWithError(deps.ErrOut, err)
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		return handleParseError(err, deps.ErrOut)
	}

	if cli.EnvFile != "" {
		if err := godotenv.Load(cli.EnvFile); err != nil {
			consoleUI(deps.ErrOut).Warn(fmt.Sprintf("failed to load env file %s: %v", cli.EnvFile, err))
		}
	} else if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			consoleUI(deps.ErrOut).Warn(fmt.Sprintf("failed to load .env: %v", err))
		}
	}

	if exitCode, handled := dispatchCommand(ctx.Command(), cli, deps); handled {
		return exitCode
	}

	consoleUI(deps.ErrOut).Warn("unknown command")
	return ExitFatal
}

type commandHandler func(CLI, Dependencies) int

func dispatchCommand(command string, cli CLI, deps Dependencies) (int, bool) {
	handlers := map[string]commandHandler{
		"resolve":  runResolve,
		"validate": runValidate,
		"lambda":   runLambda,
		"version":  runVersion,
	}
	if handler, ok := handlers[command]; ok {
		return handler(cli, deps), true
	}
	return ExitFatal, false
}

func runVersion(_ CLI, deps Dependencies) int {
	consoleUI(deps.Out).Info(version.GetVersion())
	return ExitOK
}

func runNoArgs(out io.Writer) int {
	ui := consoleUI(out)
	cmd := cliName()
	ui.Info("Usage:")
	ui.Info(fmt.Sprintf("  %s resolve --request <file|-> [--name-prefix <root>] [--format json|text] [--fail-on-partial]", cmd))
	ui.Info(fmt.Sprintf("  %s validate --request <file|->", cmd))
	ui.Info(fmt.Sprintf("  %s lambda", cmd))
	ui.Info("")
	ui.Info(fmt.Sprintf("Try: %s resolve --help", cmd))
	return ExitOK
}

// handleParseError provides user-friendly error messages for parse failures.
func handleParseError(err error, out io.Writer) int {
	msg := err.Error()
	if strings.Contains(msg, "expected string value") || strings.Contains(msg, "expected duration") {
		cmd := cliName()
		switch {
		case strings.Contains(msg, "--request"):
			return exitWithSuggestion(out, "`-r/--request` expects a value.", []string{
				fmt.Sprintf("%s resolve --request ./request.json", cmd),
				fmt.Sprintf("cat request.json | %s resolve --request -", cmd),
			})
		case strings.Contains(msg, "--timeout"):
			return exitWithSuggestion(out, "`--timeout` expects a duration.", []string{
				fmt.Sprintf("%s resolve --timeout 90s", cmd),
			})
		case strings.Contains(msg, "--env-file"):
			return exitWithSuggestion(out, "`--env-file` expects a value.", []string{
				fmt.Sprintf("%s --env-file .env.prod resolve", cmd),
			})
		}
	}
	return exitWithError(out, err)
}
