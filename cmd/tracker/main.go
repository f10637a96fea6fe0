package main

import (
	"os"

	"github.com/kutbudev/tracker/internal/cli/commands"
)

// Version will be set during build with ldflags
var Version = "0.1.0"

func main() {
	app := commands.NewApp(Version)
	if err := app.Run(os.Args); err != nil {
		os.Exit(commands.ExitCode(os.Stderr, err))
	}
}
