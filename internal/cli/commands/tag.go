package commands

import (
	"github.com/kutbudev/tracker/internal/engine"
	"github.com/kutbudev/tracker/internal/models"
	"github.com/kutbudev/tracker/internal/output"
	"github.com/urfave/cli/v2"
)

// NewTagCommand creates the 'tag' command group.
func NewTagCommand() *cli.Command {
	return &cli.Command{
		Name:  "tag",
		Usage: "Manage tags",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List all tags",
				Action: withEnv(func(c *cli.Context, e *env) error {
					tags, err := e.service.ListTags(c.Context)
					if err != nil {
						return err
					}
					return e.print(tagRecords(tags...))
				}),
			},
			{
				Name:      "create",
				Aliases:   []string{"add"},
				Usage:     "Create a tag",
				ArgsUsage: "NAME",
				Flags:     []cli.Flag{colorFlag("tag color as #rrggbb")},
				Action: withEnv(func(c *cli.Context, e *env) error {
					if err := requireArgs(c, 1, "tag name"); err != nil {
						return err
					}
					tag, err := e.service.CreateTag(c.Context, engine.CatalogInput{
						Name:  c.Args().First(),
						Color: c.String("color"),
					})
					if err != nil {
						return err
					}
					return e.print(tagRecords(*tag))
				}),
			},
			{
				Name:      "show",
				Usage:     "Show a tag",
				ArgsUsage: "TAG",
				Action: withEnv(func(c *cli.Context, e *env) error {
					if err := requireArgs(c, 1, "tag"); err != nil {
						return err
					}
					tag, err := e.service.GetTag(c.Context, c.Args().First())
					if err != nil {
						return err
					}
					return e.print(tagRecords(*tag))
				}),
			},
			{
				Name:      "update",
				Usage:     "Rename or recolor a tag",
				ArgsUsage: "TAG",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "new tag name"},
					colorFlag("new color as #rrggbb"),
				},
				Action: withEnv(func(c *cli.Context, e *env) error {
					if err := requireArgs(c, 1, "tag"); err != nil {
						return err
					}
					up := engine.CatalogUpdate{
						Name:  optionalString(c, "name"),
						Color: optionalString(c, "color"),
					}
					if up.Name == nil && up.Color == nil {
						return models.Validation("nothing to update: pass --name or --color")
					}
					tag, err := e.service.UpdateTag(c.Context, c.Args().First(), up)
					if err != nil {
						return err
					}
					return e.print(tagRecords(*tag))
				}),
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a tag and remove it from entries",
				ArgsUsage: "TAG",
				Flags:     []cli.Flag{yesFlag},
				Action: withEnv(func(c *cli.Context, e *env) error {
					if err := requireArgs(c, 1, "tag"); err != nil {
						return err
					}
					ref := c.Args().First()
					if err := confirm(c, "Delete tag "+ref+"?"); err != nil {
						return err
					}
					deleted, err := e.service.DeleteTag(c.Context, ref)
					if err != nil {
						return err
					}
					if !deleted {
						return models.NotFound("tag", ref)
					}
					e.success("Tag %s deleted.", ref)
					return nil
				}),
			},
		},
	}
}

func tagRecords(tags ...models.Tag) []output.Record {
	records := make([]output.Record, len(tags))
	for i, t := range tags {
		records[i] = output.TagRecord(t)
	}
	return records
}
