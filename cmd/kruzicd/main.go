// Package main is the entry point for the kruzicd platform daemon.
package main

import (
	"os"

	"github.com/kruzic-io/kruzic/internal/daemon/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
