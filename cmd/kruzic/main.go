// Package main is the entry point for the kruzic demo CLI/TUI.
package main

import (
	"os"

	"github.com/kruzic-io/kruzic/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
