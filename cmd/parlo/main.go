// Package main is the entry point for the parlo CLI.
//
// Usage:
//
//	parlo [flags] <command> [subcommand] [args]
//
// Commands:
//
//	analyze    - Decode a clip and print its envelope and pitch series
//	render     - Draw a clip's envelope in the terminal
//	regions    - Inspect and edit saved echo regions
//	serve      - Run the HTTP and websocket analysis service
//	config     - Manage the configuration file
//	version    - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/parlo-app/parlo/go/cmd/parlo/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
