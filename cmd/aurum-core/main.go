// Package main is the entry point for the aurum-core backend's
// development and diagnostics binary.
package main

import (
	"os"

	"github.com/aurumlabs/aurum-core/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
