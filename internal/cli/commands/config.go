package commands

import (
	"fmt"
	"strings"

	"github.com/kutbudev/tracker/internal/config"
	"github.com/kutbudev/tracker/internal/output"
	"github.com/urfave/cli/v2"
)

// NewConfigCommand creates the 'config' command group.
func NewConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show and change settings",
		Subcommands: []*cli.Command{
			configListCmd(),
			configSetCmd(),
			configForgetCmd(),
		},
	}
}

func configListCmd() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls", "show"},
		Usage:   "Show every setting with its effective value",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			format := c.String("format")
			if format == "" {
				format = cfg.Format
			}
			settings := cfg.Settings()
			records := make([]output.Record, len(settings))
			for i, s := range settings {
				records[i] = output.SettingRecord(s)
			}
			if err := output.Print(c.App.Writer, format, records); err != nil {
				return err
			}
			if format != output.FormatJSON {
				fmt.Fprintf(c.App.Writer, "config file: %s\n", cfg.File())
			}
			return nil
		},
	}
}

func configSetCmd() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Validate and save a setting (keys: " + strings.Join(config.Keys(), ", ") + ")",
		ArgsUsage: "KEY VALUE",
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 2, "key", "value"); err != nil {
				return err
			}
			path := c.String("config")
			if path == "" {
				var err error
				if path, err = config.Path(); err != nil {
					return err
				}
			}
			key, value := c.Args().Get(0), c.Args().Get(1)
			if err := config.Set(path, key, value); err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, output.Success(fmt.Sprintf("%s saved.", key)))
			return nil
		},
	}
}

func configForgetCmd() *cli.Command {
	return &cli.Command{
		Name:  "forget-secrets",
		Usage: "Remove the database DSN from the system keyring",
		Action: func(c *cli.Context) error {
			if err := config.ClearSecrets(); err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, output.Success("Keyring secrets removed."))
			return nil
		},
	}
}
