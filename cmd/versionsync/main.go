// Where: cmd/versionsync/main.go
// What: CLI and Lambda entrypoint.
// Why: Execute versionsync commands with configured dependencies.
package main

import (
	"os"

	"github.com/poruru-code/versionsync/internal/command"
	"github.com/poruru-code/versionsync/internal/wire"
)

func main() {
	os.Exit(command.Run(commandArgs(os.Args[1:], os.Getenv), wire.BuildDependencies()))
}
