package commands

import (
	"strconv"
	"time"

	"github.com/kutbudev/tracker/internal/engine"
	"github.com/kutbudev/tracker/internal/models"
	"github.com/kutbudev/tracker/internal/output"
	"github.com/kutbudev/tracker/internal/ui/live"
	"github.com/urfave/cli/v2"
)

func entryRecords(e *env, entry *models.Entry) []output.Record {
	return []output.Record{output.EntryRecord(*entry, e.loc, time.Now())}
}

// NewStartCommand starts the timer.
func NewStartCommand() *cli.Command {
	return &cli.Command{
		Name:      "start",
		Usage:     "Start the timer; TASK defaults to the project's default task",
		ArgsUsage: "PROJECT [TASK]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "what you are working on"},
			&cli.StringFlag{Name: "notes", Aliases: []string{"n"}, Usage: "free-form notes"},
			&cli.StringSliceFlag{Name: "tag", Aliases: []string{"t"}, Usage: "tag the entry (repeatable)"},
		},
		Action: withEnv(func(c *cli.Context, e *env) error {
			if err := requireArgs(c, 1, "project"); err != nil {
				return err
			}
			entry, err := e.service.Start(c.Context, engine.StartRequest{
				Project:     c.Args().Get(0),
				Task:        c.Args().Get(1),
				Description: c.String("description"),
				Notes:       c.String("notes"),
				Tags:        c.StringSlice("tag"),
			})
			if err != nil {
				return err
			}
			return e.print(entryRecords(e, entry))
		}),
	}
}

// NewStopCommand stops the running timer.
func NewStopCommand() *cli.Command {
	return &cli.Command{
		Name:  "stop",
		Usage: "Stop the running timer",
		Action: withEnv(func(c *cli.Context, e *env) error {
			entry, err := e.service.Stop(c.Context)
			if err != nil {
				return err
			}
			return e.print(entryRecords(e, entry))
		}),
	}
}

// NewStatusCommand shows the running entry.
func NewStatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show the running timer",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "live", Aliases: []string{"l"}, Usage: "keep refreshing until q is pressed"},
		},
		Action: withEnv(func(c *cli.Context, e *env) error {
			if c.Bool("live") && isInteractive() {
				return live.Run(c.Context, live.New(e.service.Status, e.loc, nil))
			}
			entry, err := e.service.Status(c.Context)
			if err != nil {
				return err
			}
			if entry == nil {
				if e.format == output.FormatJSON {
					return e.print(nil)
				}
				e.success("No timer running.")
				return nil
			}
			return e.print(entryRecords(e, entry))
		}),
	}
}

var copyFlag = &cli.BoolFlag{
	Name:  "copy",
	Usage: "also copy the report to the clipboard as a markdown table",
}

func printReport(c *cli.Context, e *env, reports []models.Report) error {
	records := make([]output.Record, 0, len(reports)+1)
	for _, r := range reports {
		records = append(records, output.ReportRecord(r))
	}
	if len(reports) > 0 && e.format != output.FormatJSON {
		records = append(records, output.TotalRecord(reports))
	}
	if err := e.print(records); err != nil {
		return err
	}
	if c.Bool("copy") {
		if err := output.Copy(output.Markdown(records)); err != nil {
			return err
		}
		e.success("Report copied to clipboard.")
	}
	return nil
}

// NewTodayCommand reports time since local midnight.
func NewTodayCommand() *cli.Command {
	return &cli.Command{
		Name:  "today",
		Usage: "Time per project/task since midnight",
		Flags: []cli.Flag{copyFlag},
		Action: withEnv(func(c *cli.Context, e *env) error {
			reports, err := e.service.Today(c.Context)
			if err != nil {
				return err
			}
			return printReport(c, e, reports)
		}),
	}
}

// NewReportCommand reports time since midnight DAYS days ago.
func NewReportCommand() *cli.Command {
	return &cli.Command{
		Name:      "report",
		Usage:     "Time per project/task since midnight DAYS days ago (0 = whole history)",
		ArgsUsage: "[DAYS]",
		Flags:     []cli.Flag{copyFlag},
		Action: withEnv(func(c *cli.Context, e *env) error {
			days := 0
			if c.NArg() > 0 {
				n, err := strconv.Atoi(c.Args().First())
				if err != nil {
					return models.Validation("days must be an integer, got %q", c.Args().First())
				}
				days = n
			}
			reports, err := e.service.Report(c.Context, days)
			if err != nil {
				return err
			}
			return printReport(c, e, reports)
		}),
	}
}
