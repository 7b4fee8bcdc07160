package cmd

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/nibzard/tarefas-go/internal/config"
	"github.com/nibzard/tarefas-go/internal/storage"
	"github.com/nibzard/tarefas-go/internal/todo"
)

// exportCommand writes the task list as JSON or YAML.
func (a *app) exportCommand(args []string) error {
	fs := flag.NewFlagSet("tarefas export", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	format := fs.String("format", "json", "Output format (json|yaml)")
	output := fs.String("o", "", "Output file (default stdout)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	store, closeFn, err := a.openStore(a.logger)
	if err != nil {
		return err
	}
	defer closeFn()

	tasks := store.Tasks()
	var data []byte
	switch strings.ToLower(*format) {
	case "json":
		data, err = todo.Encode(tasks)
	case "yaml", "yml":
		if tasks == nil {
			tasks = []todo.Task{}
		}
		data, err = yaml.Marshal(tasks)
	default:
		return fmt.Errorf("invalid format %q, must be one of: json, yaml", *format)
	}
	if err != nil {
		return fmt.Errorf("encoding tasks: %w", err)
	}

	if *output == "" {
		_, err = a.stdout.Write(data)
		return err
	}
	if err := storage.NewFile(*output).Write(data); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	a.logger.Info("exported tasks", "count", len(tasks), "file", *output)
	return nil
}

// validateCommand checks the stored data and reports every problem.
// The store itself loads fail-soft, so this is where corruption shows up.
func (a *app) validateCommand(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}

	backend, err := a.openBackend()
	if err != nil {
		return err
	}
	defer storage.Close(backend)

	data, err := backend.Read()
	if errors.Is(err, storage.ErrNotExist) {
		fmt.Fprintf(a.stdout, "No task data at %s yet.\n", backend.Location())
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", backend.Location(), err)
	}

	result := todo.Validate(data)
	for _, w := range result.Warnings {
		fmt.Fprintf(a.stdout, "warning: %s\n", w)
	}
	if result.Valid {
		fmt.Fprintf(a.stdout, "%s: valid\n", backend.Location())
		return nil
	}

	fmt.Fprintf(a.stdout, "%s: invalid\n", backend.Location())
	for _, e := range result.Errors {
		fmt.Fprintf(a.stdout, "  %v\n", e)
	}
	return fmt.Errorf("validation failed with %d error(s)", len(result.Errors))
}

// configCommand prints the effective configuration, or an example file.
func (a *app) configCommand(args []string) error {
	fs := flag.NewFlagSet("tarefas config", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	example := fs.Bool("example", false, "Print an example config file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *example {
		fmt.Fprint(a.stdout, config.ExampleConfig())
		return nil
	}

	if len(a.cfg.Files) == 0 {
		fmt.Fprintln(a.stdout, "# no config files found, using defaults")
	}
	for _, f := range a.cfg.Files {
		fmt.Fprintf(a.stdout, "# from %s\n", f)
	}
	return toml.NewEncoder(a.stdout).Encode(a.cfg)
}
