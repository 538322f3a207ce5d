// Package main provides the entry point for the gitglob CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/gitglob/cmd/gitglob/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
