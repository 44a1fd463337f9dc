// Package cli is the snekpath command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/brensch/snekpath/config"
	"github.com/brensch/snekpath/logging"
	"github.com/brensch/snekpath/server"
)

// Version information set at build time.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

type App struct {
	root   *cobra.Command
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	logFormat  string
	logLevel   string

	cfg    config.File
	logger *slog.Logger
}

func New() *App {
	app := &App{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	app.root = &cobra.Command{
		Use:   "snekpath",
		Short: "Navigation engine for a grid snake agent",
		Long: `snekpath decides moves for a snake agent on an N×N board: A* toward the
target while the board is sparse, a Hamiltonian cycle with shortcuts once it
fills up, and a flood-fill fallback when both come up empty.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: app.setup,
	}

	flags := app.root.PersistentFlags()
	flags.StringVar(&app.configPath, "config", os.Getenv("SNEKPATH_CONFIG"), "YAML config file")
	flags.StringVar(&app.logFormat, "log-format", "", "Log format: text, json or pretty")
	flags.StringVar(&app.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	app.root.AddCommand(
		app.newVersionCmd(),
		app.newSimulateCmd(),
		app.newServeCmd(),
		app.newCycleCmd(),
		app.newDecideCmd(),
		app.newPlayCmd(),
		app.newReportCmd(),
	)
	return app
}

// WithIO sets custom streams, for tests.
func (a *App) WithIO(stdin io.Reader, stdout, stderr io.Writer) *App {
	a.stdin = stdin
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetIn(stdin)
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

func (a *App) Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return a.root.ExecuteContext(ctx)
}

// ExecuteWithArgs runs the CLI with specific arguments.
func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.Execute(ctx)
}

// setup loads the config file, applies SNEKPATH_* variables and then the
// root flags, and builds the logger.
func (a *App) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadFile(a.configPath)
	if err != nil {
		return err
	}
	if err := config.EnvOverrides(&cfg); err != nil {
		return err
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}

	logger, err := logging.New(a.stderr, cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	server.Version = Version
	return nil
}

func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "snekpath version %s\n", Version)
			fmt.Fprintf(a.stdout, "  Git commit: %s\n", GitCommit)
		},
	}
}
