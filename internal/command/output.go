// Where: internal/command/output.go
// What: Output helpers for command adapters.
// Why: Centralize UserInterface usage and response encoding.
package command

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/poruru-code/versionsync/internal/domain/artifact"
	"github.com/poruru-code/versionsync/internal/infra/ui"
)

func consoleUI(out io.Writer) ui.UserInterface {
	return ui.NewUI(out, true)
}

func writeResponse(out io.Writer, format string, resp artifact.Response) error {
	switch format {
	case "text":
		return ui.RenderReport(out, resp)
	case "", "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
