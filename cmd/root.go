// Package cmd implements the CLI command structure for tarefas.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tarefas-go/internal/config"
	"github.com/nibzard/tarefas-go/internal/logging"
	"github.com/nibzard/tarefas-go/internal/storage"
	"github.com/nibzard/tarefas-go/internal/todo"
)

// Version is set via ldflags at build time.
var Version = "dev"

// app carries what every subcommand needs.
type app struct {
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer
	logger *log.Logger
}

// Run executes the tarefas CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("tarefas", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}

	a := &app{
		cfg:    cfg,
		stdout: stdout,
		stderr: stderr,
		logger: logging.New(stderr, logging.OptionsFromConfig(cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)),
	}
	if *showVersion {
		return a.versionCommand()
	}

	// Determine the subcommand
	// If no args or first arg is a flag, use "list" as default
	subcommand := "list"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	a.logger.Debug("running command", "command", subcommand, "storage", cfg.Storage, "data", cfg.DataFile)

	// Execute the subcommand
	switch subcommand {
	case "list", "ls":
		return a.listCommand(remainingArgs)
	case "add":
		return a.addCommand(remainingArgs)
	case "toggle", "done":
		return a.toggleCommand(remainingArgs)
	case "rm", "remove":
		return a.removeCommand(remainingArgs)
	case "clear":
		return a.clearCommand(remainingArgs)
	case "stats":
		return a.statsCommand(remainingArgs)
	case "export":
		return a.exportCommand(remainingArgs)
	case "validate":
		return a.validateCommand(remainingArgs)
	case "config":
		return a.configCommand(remainingArgs)
	case "tui":
		return a.tuiCommand(ctx, remainingArgs)
	case "logs":
		return a.logsCommand(remainingArgs)
	case "version":
		return a.versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// openBackend opens the configured storage backend.
func (a *app) openBackend() (storage.Backend, error) {
	kind, err := storage.ParseKind(a.cfg.Storage)
	if err != nil {
		return nil, err
	}
	backend, err := storage.Open(kind, a.cfg.DataFile, a.cfg.DatabaseFile)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	return backend, nil
}

// openStore opens the backend and loads the task list from it. The returned
// func releases the backend.
func (a *app) openStore(logger *log.Logger) (*todo.Store, func(), error) {
	backend, err := a.openBackend()
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := storage.Close(backend); err != nil {
			a.logger.Warn("closing storage", "err", err)
		}
	}
	return todo.Open(backend, todo.WithLogger(logger)), closeFn, nil
}

// defaultPriority parses the configured priority for new tasks.
func (a *app) defaultPriority() (todo.Priority, error) {
	p, err := todo.ParsePriority(a.cfg.DefaultPriority)
	if err != nil {
		return "", fmt.Errorf("default_priority: %w", err)
	}
	return p, nil
}

func (a *app) versionCommand() error {
	fmt.Fprintf(a.stdout, "tarefas version %s\n", Version)
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Tarefas - A small task list for the terminal")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tarefas [global options] [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  list          List tasks (default command)")
	fmt.Fprintln(w, "  add <text>    Add a task")
	fmt.Fprintln(w, "  toggle <id>   Mark a task completed or pending again")
	fmt.Fprintln(w, "  rm <id>       Remove a task")
	fmt.Fprintln(w, "  clear         Remove all completed tasks")
	fmt.Fprintln(w, "  stats         Show totals and progress")
	fmt.Fprintln(w, "  export        Write tasks as JSON or YAML")
	fmt.Fprintln(w, "  validate      Check the stored data for errors")
	fmt.Fprintln(w, "  config        Show the effective configuration")
	fmt.Fprintln(w, "  tui           Launch terminal UI")
	fmt.Fprintln(w, "  logs          Show the latest terminal UI log")
	fmt.Fprintln(w, "  version       Show version information")
	fmt.Fprintln(w, "  help          Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List Options:")
	fmt.Fprintln(w, "  -s string")
	fmt.Fprintln(w, "        Status filter (Todas|Pendentes|Concluídas)")
	fmt.Fprintln(w, "  -p string")
	fmt.Fprintln(w, "        Priority filter (Todas|Alta|Média|Baixa)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Add Options (before the description):")
	fmt.Fprintln(w, "  -p string")
	fmt.Fprintln(w, "        Priority (Alta|Média|Baixa)")
	fmt.Fprintln(w, "  -c string")
	fmt.Fprintln(w, "        Category")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export Options:")
	fmt.Fprintln(w, "  -format string")
	fmt.Fprintln(w, "        Output format (json|yaml)")
	fmt.Fprintln(w, "  -o string")
	fmt.Fprintln(w, "        Output file (default stdout)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Logs Options:")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
}
