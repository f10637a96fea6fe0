package commands

import (
	"github.com/urfave/cli/v2"
)

// NewApp assembles the tracker command line.
func NewApp(version string) *cli.App {
	return &cli.App{
		Name:                 "tracker",
		Usage:                "Personal time tracking: projects, tasks, tags and a single running timer",
		Version:              version,
		Flags:                GlobalFlags(),
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			// Timer
			NewStartCommand(),
			NewStopCommand(),
			NewStatusCommand(),

			// Reports
			NewTodayCommand(),
			NewReportCommand(),

			// Catalog
			NewProjectCommand(),
			NewTaskCommand(),
			NewTagCommand(),

			// Meta
			NewConfigCommand(),
			NewDBCommand(),
			NewMcpCommand(version),
		},
	}
}
