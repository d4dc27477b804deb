// Command mixer assembles bundler configs from a mix manifest.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/mixer/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
