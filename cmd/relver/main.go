package main

import (
	"os"

	"github.com/raveheart1/relver/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
