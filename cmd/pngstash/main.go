package main

import (
	"os"

	"github.com/i5heu/pngstash/internal/cli"
)

func main() {
	exitCode := cli.Run(os.Args, os.Stdout, os.Stderr)
	os.Exit(exitCode)
}
