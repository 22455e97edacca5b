// Package console implements the synodctl administration commands on top of the session controller.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/Ipeter02/ccapsystemsynod/internal/models"
	"github.com/Ipeter02/ccapsystemsynod/internal/service"
	"github.com/Ipeter02/ccapsystemsynod/pkg/config"
	appErrors "github.com/Ipeter02/ccapsystemsynod/pkg/errors"
)

// ErrUsage is returned when a command line cannot be parsed.
var ErrUsage = errors.New("usage error")

type command struct {
	summary string
	run     func(ctx context.Context, c *Console, args []string) error
}

// Console dispatches subcommands. It expects an initialised session controller.
type Console struct {
	session *service.SessionController
	grace   config.GraceConfig
	out     io.Writer
	logger  *zap.Logger
	now     func() time.Time
}

// New constructs a console writing human-readable output to out.
func New(session *service.SessionController, grace config.GraceConfig, out io.Writer, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Console{session: session, grace: grace, out: out, logger: logger, now: time.Now}
}

// Run executes one subcommand. args[0] names the command.
func (c *Console) Run(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		c.usage()
		if len(args) == 0 {
			return ErrUsage
		}
		return nil
	}
	cmd, ok := commands[args[0]]
	if !ok {
		c.usage()
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
	return cmd.run(ctx, c, args[1:])
}

func (c *Console) usage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(c.out, "usage: synodctl [global flags] <command> [flags]")
	fmt.Fprintln(c.out, "\ncommands:")
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\t%s\n", name, commands[name].summary)
	}
	_ = w.Flush()
}

func (c *Console) client() *service.SyncClient {
	return c.session.Client()
}

// actor returns the logged-in user or UNAUTHORIZED.
func (c *Console) actor() (*models.User, error) {
	if u := c.session.Current(); u != nil {
		return u, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "not logged in; run synodctl login first")
}

// flags builds a flag set whose parse errors are reported as ErrUsage.
func (c *Console) flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(c.out)
	return fs
}

func parse(fs *pflag.FlagSet, args []string, positional int) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	rest := fs.Args()
	if len(rest) != positional {
		return nil, fmt.Errorf("%w: %s expects %d argument(s), got %d", ErrUsage, fs.Name(), positional, len(rest))
	}
	return rest, nil
}

func (c *Console) table(header string, fill func(w io.Writer)) {
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, header)
	fill(w)
	_ = w.Flush()
}

func (c *Console) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

// reload re-runs session restoration after the store was replaced wholesale.
func (c *Console) reload(ctx context.Context) error {
	_, err := c.session.Init(ctx)
	return err
}

func blank(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
