package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/kutbudev/tracker/internal/api"
	"github.com/kutbudev/tracker/internal/config"
	"github.com/kutbudev/tracker/internal/engine"
	"github.com/kutbudev/tracker/internal/output"
	"github.com/kutbudev/tracker/internal/repository"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

// GlobalFlags are accepted before any command.
func GlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "output format (table|json|markdown); defaults to the config value",
		},
		&cli.BoolFlag{
			Name:  "remote",
			Usage: "talk to the tracker server at server.url instead of the local database",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "log SQL statements",
		},
		&cli.StringFlag{
			Name:    "config",
			Usage:   "config file path",
			EnvVars: []string{"TRACKER_CONFIG"},
		},
	}
}

// env is everything a command needs: configuration, a service and where to print.
type env struct {
	cfg     *config.Config
	loc     *time.Location
	format  string
	service engine.Service
	local   *engine.Engine
	db      *repository.Database
	out     io.Writer
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.LoadFrom(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if c.Bool("debug") {
		cfg.Debug = true
	}
	return cfg, nil
}

// openEnv picks the local engine or, with --remote, the HTTP client.
func openEnv(c *cli.Context) (*env, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	format := c.String("format")
	if format == "" {
		format = cfg.Format
	}

	e := &env{cfg: cfg, loc: loc, format: format, out: c.App.Writer}
	if e.out == nil {
		e.out = os.Stdout
	}

	if c.Bool("remote") {
		e.service = api.NewClient(cfg.Server.URL)
		return e, nil
	}

	db, err := repository.NewDatabase(cfg)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	e.db = db
	e.local = engine.New(db, engine.WithLocation(loc))
	e.service = e.local
	return e, nil
}

// requireLocal rejects --remote for commands that work on the database file.
func (e *env) requireLocal(command string) (*engine.Engine, error) {
	if e.local == nil {
		return nil, fmt.Errorf("%s needs the local database; drop --remote", command)
	}
	return e.local, nil
}

func (e *env) Close() {
	if e.db != nil {
		e.db.Close()
	}
}

func (e *env) print(records []output.Record) error {
	return output.Print(e.out, e.format, records)
}

func (e *env) success(format string, args ...interface{}) {
	if e.format == output.FormatJSON {
		return
	}
	fmt.Fprintln(e.out, output.Success(fmt.Sprintf(format, args...)))
}

// withEnv opens an env for the duration of fn.
func withEnv(fn func(c *cli.Context, e *env) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		e, err := openEnv(c)
		if err != nil {
			return err
		}
		defer e.Close()
		return fn(c, e)
	}
}

func requireArgs(c *cli.Context, n int, names ...string) error {
	if c.NArg() < n {
		return fmt.Errorf("%s required", strings.Join(names, " and "))
	}
	return nil
}

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

var errAborted = errors.New("aborted")

// confirm asks before destructive operations. --yes or a non-interactive
// stdin skips the prompt.
func confirm(c *cli.Context, message string) error {
	if c.Bool("yes") || !isInteractive() {
		return nil
	}
	ok := false
	if err := survey.AskOne(&survey.Confirm{Message: message, Default: false}, &ok); err != nil {
		return err
	}
	if !ok {
		return errAborted
	}
	return nil
}

var yesFlag = &cli.BoolFlag{
	Name:    "yes",
	Aliases: []string{"y"},
	Usage:   "do not ask for confirmation",
}

func colorFlag(usage string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "color",
		Aliases: []string{"c"},
		Usage:   usage,
	}
}

// optionalString returns a pointer to the flag value when the flag was given.
func optionalString(c *cli.Context, name string) *string {
	if !c.IsSet(name) {
		return nil
	}
	v := c.String(name)
	return &v
}

func optionalBool(c *cli.Context, name string) *bool {
	if !c.IsSet(name) {
		return nil
	}
	v := c.Bool(name)
	return &v
}

// ExitCode reports the process exit status for err and prints it.
func ExitCode(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, errAborted) {
		fmt.Fprintln(w, "Aborted.")
		return 1
	}
	fmt.Fprintln(w, output.Error(err))
	return 1
}
