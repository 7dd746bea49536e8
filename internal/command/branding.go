// Where: internal/command/branding.go
// What: Brand-aware CLI naming.
// Why: Keep user-facing command names consistent with the current brand.
package command

import (
	"os"
	"strings"

	"github.com/poruru-code/versionsync/internal/constants"
	"github.com/poruru-code/versionsync/internal/meta"
)

func cliName() string {
	name := strings.TrimSpace(os.Getenv(constants.EnvCLICmd))
	if name == "" {
		name = strings.TrimSpace(meta.Slug)
	}
	if name == "" {
		name = "versionsync"
	}
	return name
}
