// Where: internal/command/input.go
// What: Request payload loading for CLI commands.
// Why: Accept a request file or stdin in JSON or YAML.
package command

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/poruru-code/versionsync/internal/domain/request"
)

func readPayload(path string, stdin io.Reader) (request.Payload, error) {
	var (
		raw []byte
		err error
	)
	path = strings.TrimSpace(path)
	if path == "" || path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return request.Payload{}, fmt.Errorf("read request: %w", err)
	}
	return request.Decode(raw)
}
