// Package main provides the entry point for clusterkeeper-cli.
//
// clusterkeeper-cli is the command-line tool for managing a running
// clusterkeeper-server over its local control socket.
package main

import (
	"fmt"
	"os"

	"github.com/nodacore/clusterkeeper/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
