package commands

import (
	"github.com/kutbudev/tracker/internal/engine"
	"github.com/kutbudev/tracker/internal/models"
	"github.com/kutbudev/tracker/internal/output"
	"github.com/urfave/cli/v2"
)

// NewTaskCommand creates the 'task' command group. Tasks are addressed
// as PROJECT TASK.
func NewTaskCommand() *cli.Command {
	return &cli.Command{
		Name:    "task",
		Aliases: []string{"t"},
		Usage:   "Manage tasks inside projects",
		Subcommands: []*cli.Command{
			taskListCmd(),
			taskCreateCmd(),
			taskShowCmd(),
			taskUpdateCmd(),
			taskDefaultCmd(),
			taskDeleteCmd(),
		},
	}
}

func taskRecords(tasks ...models.Task) []output.Record {
	records := make([]output.Record, len(tasks))
	for i, t := range tasks {
		records[i] = output.TaskRecord(t)
	}
	return records
}

func taskListCmd() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List tasks, optionally of one project",
		ArgsUsage: "[PROJECT]",
		Action: withEnv(func(c *cli.Context, e *env) error {
			tasks, err := e.service.ListTasks(c.Context, c.Args().First())
			if err != nil {
				return err
			}
			return e.print(taskRecords(tasks...))
		}),
	}
}

func taskCreateCmd() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Aliases:   []string{"add"},
		Usage:     "Create a task",
		ArgsUsage: "PROJECT NAME",
		Flags: []cli.Flag{
			colorFlag("task color as #rrggbb"),
			&cli.BoolFlag{
				Name:    "default",
				Aliases: []string{"d"},
				Usage:   "make it the project's default task",
			},
		},
		Action: withEnv(func(c *cli.Context, e *env) error {
			if err := requireArgs(c, 2, "project", "task name"); err != nil {
				return err
			}
			task, err := e.service.CreateTask(c.Context, c.Args().Get(0), engine.TaskInput{
				Name:    c.Args().Get(1),
				Color:   c.String("color"),
				Default: c.Bool("default"),
			})
			if err != nil {
				return err
			}
			return e.print(taskRecords(*task))
		}),
	}
}

func taskShowCmd() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a task",
		ArgsUsage: "PROJECT TASK",
		Action: withEnv(func(c *cli.Context, e *env) error {
			if err := requireArgs(c, 2, "project", "task"); err != nil {
				return err
			}
			task, err := e.service.GetTask(c.Context, c.Args().Get(0), c.Args().Get(1))
			if err != nil {
				return err
			}
			return e.print(taskRecords(*task))
		}),
	}
}

func taskUpdateCmd() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Rename, recolor or (un)set the default flag of a task",
		ArgsUsage: "PROJECT TASK",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "new task name"},
			colorFlag("new color as #rrggbb"),
			&cli.BoolFlag{Name: "default", Usage: "--default or --default=false"},
		},
		Action: withEnv(func(c *cli.Context, e *env) error {
			if err := requireArgs(c, 2, "project", "task"); err != nil {
				return err
			}
			up := engine.TaskUpdate{
				Name:    optionalString(c, "name"),
				Color:   optionalString(c, "color"),
				Default: optionalBool(c, "default"),
			}
			if up.Name == nil && up.Color == nil && up.Default == nil {
				return models.Validation("nothing to update: pass --name, --color or --default")
			}
			task, err := e.service.UpdateTask(c.Context, c.Args().Get(0), c.Args().Get(1), up)
			if err != nil {
				return err
			}
			return e.print(taskRecords(*task))
		}),
	}
}

// taskDefaultCmd is shorthand for update --default.
func taskDefaultCmd() *cli.Command {
	return &cli.Command{
		Name:      "default",
		Usage:     "Make a task the project's default",
		ArgsUsage: "PROJECT TASK",
		Action: withEnv(func(c *cli.Context, e *env) error {
			if err := requireArgs(c, 2, "project", "task"); err != nil {
				return err
			}
			yes := true
			task, err := e.service.UpdateTask(c.Context, c.Args().Get(0), c.Args().Get(1), engine.TaskUpdate{Default: &yes})
			if err != nil {
				return err
			}
			return e.print(taskRecords(*task))
		}),
	}
}

func taskDeleteCmd() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete a task and its entries",
		ArgsUsage: "PROJECT TASK",
		Flags:     []cli.Flag{yesFlag},
		Action: withEnv(func(c *cli.Context, e *env) error {
			if err := requireArgs(c, 2, "project", "task"); err != nil {
				return err
			}
			project, ref := c.Args().Get(0), c.Args().Get(1)
			if err := confirm(c, "Delete task "+project+"/"+ref+" and its entries?"); err != nil {
				return err
			}
			deleted, err := e.service.DeleteTask(c.Context, project, ref)
			if err != nil {
				return err
			}
			if !deleted {
				return models.NotFound("task", ref)
			}
			e.success("Task %s/%s deleted.", project, ref)
			return nil
		}),
	}
}
