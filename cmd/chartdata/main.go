// Package main provides the entry point for the chartdata CLI.
package main

import (
	"fmt"
	"os"

	"github.com/Sumatoshi-tech/chartdata/cmd/chartdata/commands"
	"github.com/Sumatoshi-tech/chartdata/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	err := commands.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
