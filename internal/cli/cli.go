// Package cli parses the command line and assembles the program: config,
// logger, engine client, shared state, and the Bubble Tea runtime.
package cli

import (
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/ToKoel/tugboat/internal/config"
	"github.com/ToKoel/tugboat/internal/dockerx"
	"github.com/ToKoel/tugboat/internal/logging"
	"github.com/ToKoel/tugboat/internal/state"
	"github.com/ToKoel/tugboat/internal/tui"
)

// Version is the release string shown by --version.
const Version = "0.1.0"

// Options holds the parsed command-line flags.
type Options struct {
	ConfigPath  string
	LogFile     string
	Debug       bool
	ShowHelp    bool
	ShowVersion bool
}

// ParseArgs parses flags. The dashboard takes no positional arguments.
func ParseArgs(args []string) (Options, error) {
	var opts Options

	fs := pflag.NewFlagSet("tugboat", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.ConfigPath, "config", "", "path to config file")
	fs.StringVar(&opts.LogFile, "log-file", "", "debug log file (implies --debug)")
	fs.BoolVar(&opts.Debug, "debug", false, "write a debug log file")
	fs.BoolVarP(&opts.ShowHelp, "help", "h", false, "show help")
	fs.BoolVarP(&opts.ShowVersion, "version", "v", false, "show version")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	if opts.LogFile != "" {
		opts.Debug = true
	}
	return opts, nil
}

// Run executes the dashboard and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	opts, err := ParseArgs(args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Fprint(stdout, usage)
			return 0
		}
		fmt.Fprintf(stderr, "tugboat: %v\n", err)
		return 2
	}
	if opts.ShowHelp {
		fmt.Fprint(stdout, usage)
		return 0
	}
	if opts.ShowVersion {
		fmt.Fprintf(stdout, "tugboat version %s\n", Version)
		return 0
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(stderr, "tugboat: %v\n", err)
		return 2
	}
	if opts.Debug {
		cfg.Debug = true
	}
	if opts.LogFile != "" {
		cfg.LogFile = opts.LogFile
	}

	logger := logging.New(cfg.Debug, cfg.LogFile)
	defer logger.Sync()

	// Construction only fails on malformed environment (e.g. a bad
	// DOCKER_HOST). An unreachable daemon constructs fine and surfaces as
	// an empty container table.
	client, err := dockerx.NewRealClient(cfg.LogTailLines)
	if err != nil {
		fmt.Fprintf(stderr, "tugboat: %v\n", err)
		return 1
	}
	defer client.Close()

	app := state.New(state.Options{
		MaxLogLines:    cfg.MaxLogLines,
		WindowCapacity: cfg.StatsWindow,
	})
	model := tui.New(app, client, logger)

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = program.Run()
	app.StopTasks()
	if err != nil {
		fmt.Fprintf(stderr, "tugboat: %v\n", err)
		return 1
	}
	return 0
}

const usage = `tugboat - a terminal dashboard for Docker containers

USAGE:
  tugboat [flags]

FLAGS:
  -h, --help          show this help message
  -v, --version       show version information
  --config PATH       config file (default: ~/.config/tugboat/config.yaml)
  --debug             write a debug log file
  --log-file PATH     debug log file location (implies --debug)

HOTKEYS (once running):
  Up/k, Down/j        move selection / scroll logs
  Enter               open menu / confirm
  Esc, q              close panel / quit
  /                   search (logs or container images)
  n, N                next / previous match
  G                   jump to latest logs
  Left/h, Right/l     pan logs horizontally
  ?                   help

The container engine is reached via the standard environment (DOCKER_HOST
and friends) or the default local socket.
`
