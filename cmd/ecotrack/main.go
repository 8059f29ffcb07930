// Command ecotrack is the carbon footprint tracking CLI.
package main

import (
	"os"

	"github.com/ecotrack/ecotrack/internal/cli"
	"github.com/ecotrack/ecotrack/pkg/version"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

// run builds and executes the root command. Cobra prints the error; the
// caller only maps it to the process exit code.
func run() error {
	rootCmd := cli.NewRootCmd(version.GetVersion())
	return rootCmd.Execute()
}
