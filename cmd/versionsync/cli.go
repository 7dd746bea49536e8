// Where: cmd/versionsync/cli.go
// What: Entrypoint argument selection.
// Why: The same binary serves as a Lambda function and as a CLI.
package main

import (
	"strings"

	"github.com/poruru-code/versionsync/internal/constants"
)

// commandArgs starts the Lambda handler when the process runs inside the
// Lambda runtime and no command was given.
func commandArgs(args []string, getenv func(string) string) []string {
	if len(args) == 0 && strings.TrimSpace(getenv(constants.EnvLambdaRuntimeAPI)) != "" {
		return []string{"lambda"}
	}
	return args
}
