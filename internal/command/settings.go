// Where: internal/command/settings.go
// What: Settings and logger setup shared by commands.
// Why: Apply global flags over the deployment settings in one place.
package command

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/poruru-code/versionsync/internal/config"
)

func loadSettings(cli CLI, deps Dependencies) (config.Settings, error) {
	settings, err := deps.LoadSettings()
	if err != nil {
		return config.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	if value := strings.TrimSpace(cli.LogLevel); value != "" {
		settings.LogLevel = value
	}
	if value := strings.TrimSpace(cli.LogFormat); value != "" {
		settings.LogFormat = value
	}
	return settings, nil
}

// newLogger builds the slog logger described by settings.
func newLogger(out io.Writer, settings config.Settings) (*slog.Logger, error) {
	level := slog.LevelInfo
	if raw := strings.TrimSpace(settings.LogLevel); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			return nil, fmt.Errorf("log level %q: %w", raw, err)
		}
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(strings.TrimSpace(settings.LogFormat)) {
	case "", "json":
		return slog.New(slog.NewJSONHandler(out, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(out, opts)), nil
	default:
		return nil, fmt.Errorf("unsupported log format %q", settings.LogFormat)
	}
}
