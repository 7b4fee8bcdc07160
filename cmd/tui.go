package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/nibzard/tarefas-go/internal/logging"
	"github.com/nibzard/tarefas-go/internal/ui"
)

// tuiCommand launches the terminal UI. Logs go to a per-run file so they
// do not tear the screen.
func (a *app) tuiCommand(ctx context.Context, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}

	priority, err := a.defaultPriority()
	if err != nil {
		return err
	}

	logger := logging.Discard()
	runLog, err := logging.NewRunLog(a.cfg.LogDir, a.cfg.DataFile)
	if err != nil {
		a.logger.Warn("session log disabled", "err", err)
	} else {
		defer runLog.Close()
		logger = runLog.Logger(logging.OptionsFromConfig(a.cfg.LogLevel, a.cfg.LogFormat, true, a.cfg.LogCaller))
	}

	store, closeFn, err := a.openStore(logger)
	if err != nil {
		return err
	}
	defer closeFn()

	return ui.RunTUI(ctx, store, ui.WithDefaultPriority(priority), ui.WithLogger(logger))
}

// logsCommand prints the latest terminal UI session log for the
// configured task list.
func (a *app) logsCommand(args []string) error {
	fs := flag.NewFlagSet("tarefas logs", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	logDir, err := logging.SessionDir(a.cfg.LogDir, a.cfg.DataFile)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}

	logPath, err := logging.LatestSession(logDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(a.stdout, "No log files found.")
		return nil
	}

	fmt.Fprintf(a.stdout, "Log: %s\n\n", logPath)
	return logging.Tail(a.stdout, logPath, *n)
}
