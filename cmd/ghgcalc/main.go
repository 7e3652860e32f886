// Command ghgcalc calculates and reconciles greenhouse-gas emissions.
package main

import (
	"os"

	"github.com/rshade/ghgcalc/internal/cli"
	"github.com/rshade/ghgcalc/pkg/version"
)

func main() {
	os.Exit(cli.ExitCode(run()))
}

func run() error {
	root := cli.NewRootCmd(version.GetVersion())
	return root.Execute()
}
