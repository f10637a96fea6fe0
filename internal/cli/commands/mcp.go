package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kutbudev/tracker/internal/mcp"
	"github.com/urfave/cli/v2"
)

func NewMcpCommand(version string) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "MCP (Model Context Protocol) server",
		Subcommands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start MCP server (stdio)",
				Action: withEnv(func(c *cli.Context, e *env) error {
					return mcp.ServeStdio(c.Context, e.service, version, mcp.WithLocation(e.loc))
				}),
			},
			{
				Name:  "config",
				Usage: "Print MCP config examples for clients",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "client",
						Aliases: []string{"c"},
						Usage:   "target client (generic|codex)",
						Value:   "generic",
					},
				},
				Action: func(c *cli.Context) error {
					switch strings.ToLower(c.String("client")) {
					case "codex":
						printCodexConfig(c)
					default:
						printGenericConfig(c)
					}
					return nil
				},
			},
		},
	}
}

func printGenericConfig(c *cli.Context) {
	cfg := map[string]interface{}{
		"mcpServers": map[string]interface{}{
			"tracker": map[string]interface{}{
				"command": "tracker",
				"args":    []string{"mcp", "serve"},
			},
		},
	}
	b, _ := json.MarshalIndent(cfg, "", "  ")
	fmt.Fprintln(c.App.Writer, string(b))
}

func printCodexConfig(c *cli.Context) {
	w := c.App.Writer
	fmt.Fprintln(w, "# Add the following to ~/.codex/config.toml (merge with existing settings)")
	fmt.Fprintln(w, "[mcp_servers.tracker]")
	fmt.Fprintln(w, "command = \"tracker\"")
	fmt.Fprintln(w, "args = [\"mcp\", \"serve\"]")
	fmt.Fprintln(w, "enabled = true")
}
