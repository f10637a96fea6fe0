package commands

import (
	"fmt"
	"os"

	"github.com/kutbudev/tracker/internal/config"
	"github.com/urfave/cli/v2"
)

// NewDBCommand creates the 'db' command group for the local store.
func NewDBCommand() *cli.Command {
	return &cli.Command{
		Name:  "db",
		Usage: "Maintain the local database",
		Subcommands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Create or upgrade the schema",
				Action: withEnv(func(c *cli.Context, e *env) error {
					if _, err := e.requireLocal("db migrate"); err != nil {
						return err
					}
					// openEnv already migrated
					e.success("Database %s is up to date.", describeDatabase(e.cfg))
					return nil
				}),
			},
			{
				Name:      "export",
				Usage:     "Write every project, task, tag and entry as JSON",
				ArgsUsage: "PATH",
				Action: withEnv(func(c *cli.Context, e *env) error {
					local, err := e.requireLocal("db export")
					if err != nil {
						return err
					}
					if err := requireArgs(c, 1, "export path"); err != nil {
						return err
					}
					f, err := os.Create(c.Args().First())
					if err != nil {
						return fmt.Errorf("could not create export file: %w", err)
					}
					dump, err := local.Export(c.Context, f)
					if cerr := f.Close(); err == nil && cerr != nil {
						err = cerr
					}
					if err != nil {
						return err
					}
					e.success("Exported %d projects, %d tasks, %d tags and %d entries.",
						len(dump.Projects), len(dump.Tasks), len(dump.Tags), len(dump.Entries))
					return nil
				}),
			},
			{
				Name:      "import",
				Usage:     "Load a file written by 'db export'; any conflict aborts the import",
				ArgsUsage: "PATH",
				Action: withEnv(func(c *cli.Context, e *env) error {
					local, err := e.requireLocal("db import")
					if err != nil {
						return err
					}
					if err := requireArgs(c, 1, "import path"); err != nil {
						return err
					}
					f, err := os.Open(c.Args().First())
					if err != nil {
						return fmt.Errorf("could not open import file: %w", err)
					}
					defer f.Close()
					dump, err := local.Import(c.Context, f)
					if err != nil {
						return err
					}
					e.success("Imported %d projects, %d tasks, %d tags and %d entries.",
						len(dump.Projects), len(dump.Tasks), len(dump.Tags), len(dump.Entries))
					return nil
				}),
			},
		},
	}
}

func describeDatabase(cfg *config.Config) string {
	if cfg.Database.Driver == "postgres" {
		return "(postgres)"
	}
	return cfg.DatabasePath()
}
