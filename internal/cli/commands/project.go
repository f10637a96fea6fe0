package commands

import (
	"github.com/kutbudev/tracker/internal/engine"
	"github.com/kutbudev/tracker/internal/models"
	"github.com/kutbudev/tracker/internal/output"
	"github.com/urfave/cli/v2"
)

// NewProjectCommand creates all subcommands for the 'project' command group.
func NewProjectCommand() *cli.Command {
	return &cli.Command{
		Name:    "project",
		Aliases: []string{"p"},
		Usage:   "Manage projects",
		Subcommands: []*cli.Command{
			projectListCmd(),
			projectCreateCmd(),
			projectShowCmd(),
			projectUpdateCmd(),
			projectDeleteCmd(),
		},
	}
}

func projectRecords(projects ...models.Project) []output.Record {
	records := make([]output.Record, len(projects))
	for i, p := range projects {
		records[i] = output.ProjectRecord(p)
	}
	return records
}

// projectListCmd lists all projects.
func projectListCmd() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List all projects",
		Action: withEnv(func(c *cli.Context, e *env) error {
			projects, err := e.service.ListProjects(c.Context)
			if err != nil {
				return err
			}
			if len(projects) == 0 && e.format != output.FormatJSON {
				e.success("No projects found. Use 'tracker project create' to add one.")
				return nil
			}
			return e.print(projectRecords(projects...))
		}),
	}
}

// projectCreateCmd creates a new project.
func projectCreateCmd() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Aliases:   []string{"add"},
		Usage:     "Create a new project",
		ArgsUsage: "NAME",
		Flags:     []cli.Flag{colorFlag("project color as #rrggbb")},
		Action: withEnv(func(c *cli.Context, e *env) error {
			if err := requireArgs(c, 1, "project name"); err != nil {
				return err
			}
			project, err := e.service.CreateProject(c.Context, engine.CatalogInput{
				Name:  c.Args().First(),
				Color: c.String("color"),
			})
			if err != nil {
				return err
			}
			return e.print(projectRecords(*project))
		}),
	}
}

// projectShowCmd shows details for a specific project.
func projectShowCmd() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a project",
		ArgsUsage: "PROJECT",
		Action: withEnv(func(c *cli.Context, e *env) error {
			if err := requireArgs(c, 1, "project"); err != nil {
				return err
			}
			project, err := e.service.GetProject(c.Context, c.Args().First())
			if err != nil {
				return err
			}
			return e.print(projectRecords(*project))
		}),
	}
}

// projectUpdateCmd renames or recolors a project.
func projectUpdateCmd() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Rename or recolor a project",
		ArgsUsage: "PROJECT",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "new project name",
			},
			colorFlag("new color as #rrggbb"),
		},
		Action: withEnv(func(c *cli.Context, e *env) error {
			if err := requireArgs(c, 1, "project"); err != nil {
				return err
			}
			up := engine.CatalogUpdate{
				Name:  optionalString(c, "name"),
				Color: optionalString(c, "color"),
			}
			if up.Name == nil && up.Color == nil {
				return models.Validation("nothing to update: pass --name or --color")
			}
			project, err := e.service.UpdateProject(c.Context, c.Args().First(), up)
			if err != nil {
				return err
			}
			return e.print(projectRecords(*project))
		}),
	}
}

// projectDeleteCmd deletes a project with its tasks and entries.
func projectDeleteCmd() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete a project with its tasks and entries",
		ArgsUsage: "PROJECT",
		Flags:     []cli.Flag{yesFlag},
		Action: withEnv(func(c *cli.Context, e *env) error {
			if err := requireArgs(c, 1, "project"); err != nil {
				return err
			}
			ref := c.Args().First()
			if err := confirm(c, "Delete project "+ref+" and all its tasks and entries?"); err != nil {
				return err
			}
			deleted, err := e.service.DeleteProject(c.Context, ref)
			if err != nil {
				return err
			}
			if !deleted {
				return models.NotFound("project", ref)
			}
			e.success("Project %s deleted.", ref)
			return nil
		}),
	}
}
