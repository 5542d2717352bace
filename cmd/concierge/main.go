package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dusk-indust/concierge/internal/config"
)

// version is set by goreleaser at build time.
var version = "dev"

// Global CLI flags, parsed before the subcommand.
type cliFlags struct {
	ConfigDir string
	Verbose   bool
	Version   bool
}

// env carries what every subcommand needs.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

const usage = `usage: concierge [-config-dir dir] [-verbose] <command> [flags]

commands:
  serve -agent <name> [-addr host:port]   run one agent
  serve-all [-base-port n]                run every agent on sequential ports
  ask <question>                          answer a question via the specialists
  probe                                   check the specialists and ask each a sample question
  mcp [-http addr]                        serve the doctor directory over MCP
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var flags cliFlags

	fs := flag.NewFlagSet("concierge", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	fs.StringVar(&flags.ConfigDir, "config-dir", ".", "directory holding concierge.yml")
	fs.BoolVar(&flags.Verbose, "verbose", false, "enable debug logging and progress output")
	fs.BoolVar(&flags.Version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if flags.Version {
		fmt.Fprintln(stdout, version)
		return nil
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	cfg, err := config.Load(flags.ConfigDir)
	if err != nil {
		return err
	}
	if flags.Verbose {
		cfg.Verbose = true
	}

	e := &env{
		cfg:    cfg,
		logger: newLogger(stderr, cfg.Verbose),
		stdout: stdout,
		stderr: stderr,
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "serve":
		return runServe(ctx, e, rest)
	case "serve-all":
		return runServeAll(ctx, e, rest)
	case "ask":
		return runAsk(ctx, e, rest)
	case "probe":
		return runProbe(ctx, e, rest)
	case "mcp":
		return runMCP(ctx, e, rest)
	}
	fs.Usage()
	return fmt.Errorf("unknown command %q", cmd)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
