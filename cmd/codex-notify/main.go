// codex-notify - Codex CLI notification hook
// Source: https://github.com/ariel-frischer/codex-notify

package main

import (
	"os"

	"github.com/ariel-frischer/codex-notify/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
