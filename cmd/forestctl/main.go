// Package main implements forestctl, a command line tool for analyzing forest
// inventory files without running the API server.
package main

import (
	"os"

	"github.com/phrazzld/forest-inventory/cmd/forestctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
