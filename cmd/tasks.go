package cmd

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/nibzard/tarefas-go/internal/todo"
)

// addCommand creates a task from the remaining arguments.
func (a *app) addCommand(args []string) error {
	fs := flag.NewFlagSet("tarefas add", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	priorityArg := fs.String("p", "", "Priority (Alta|Média|Baixa)")
	category := fs.String("c", "", "Category")

	if err := fs.Parse(args); err != nil {
		return err
	}

	priority, err := a.defaultPriority()
	if err != nil {
		return err
	}
	if *priorityArg != "" {
		if priority, err = todo.ParsePriority(*priorityArg); err != nil {
			return err
		}
	}

	store, closeFn, err := a.openStore(a.logger)
	if err != nil {
		return err
	}
	defer closeFn()

	task, err := store.Create(strings.Join(fs.Args(), " "), priority, *category)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Added #%d: %s\n", task.ID, task.Description)
	return nil
}

// listCommand prints the filtered, sorted view.
func (a *app) listCommand(args []string) error {
	fs := flag.NewFlagSet("tarefas list", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	statusArg := fs.String("s", "", "Status filter (Todas|Pendentes|Concluídas)")
	priorityArg := fs.String("p", "", "Priority filter (Todas|Alta|Média|Baixa)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	status, err := todo.ParseStatusFilter(*statusArg)
	if err != nil {
		return err
	}
	priority, err := todo.ParsePriorityFilter(*priorityArg)
	if err != nil {
		return err
	}

	store, closeFn, err := a.openStore(a.logger)
	if err != nil {
		return err
	}
	defer closeFn()

	n := 0
	for task := range store.View(status, priority) {
		fmt.Fprintln(a.stdout, task)
		n++
	}
	if n == 0 {
		if store.Len() == 0 {
			fmt.Fprintln(a.stdout, "No tasks yet. Add one with: tarefas add <description>")
		} else {
			fmt.Fprintln(a.stdout, "No tasks match the filters.")
		}
	}
	return nil
}

// toggleCommand flips the completed state of a task.
func (a *app) toggleCommand(args []string) error {
	id, err := parseID("toggle", args)
	if err != nil {
		return err
	}

	store, closeFn, err := a.openStore(a.logger)
	if err != nil {
		return err
	}
	defer closeFn()

	task, found, err := store.Toggle(id)
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintf(a.stdout, "Task #%d not found.\n", id)
		return nil
	}

	if task.Completed {
		fmt.Fprintf(a.stdout, "Completed #%d: %s\n", task.ID, task.Description)
	} else {
		fmt.Fprintf(a.stdout, "Reopened #%d: %s\n", task.ID, task.Description)
	}
	return nil
}

// removeCommand deletes a task.
func (a *app) removeCommand(args []string) error {
	id, err := parseID("rm", args)
	if err != nil {
		return err
	}

	store, closeFn, err := a.openStore(a.logger)
	if err != nil {
		return err
	}
	defer closeFn()

	removed, err := store.Remove(id)
	if err != nil {
		return err
	}
	if !removed {
		fmt.Fprintf(a.stdout, "Task #%d not found.\n", id)
		return nil
	}

	fmt.Fprintf(a.stdout, "Removed #%d\n", id)
	return nil
}

// clearCommand removes every completed task.
func (a *app) clearCommand(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}

	store, closeFn, err := a.openStore(a.logger)
	if err != nil {
		return err
	}
	defer closeFn()

	n, err := store.ClearCompleted()
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Removed %d completed task(s)\n", n)
	return nil
}

// statsCommand prints totals and progress.
func (a *app) statsCommand(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}

	store, closeFn, err := a.openStore(a.logger)
	if err != nil {
		return err
	}
	defer closeFn()

	s := store.Stats()
	fmt.Fprintf(a.stdout, "Total:      %d\n", s.Total)
	fmt.Fprintf(a.stdout, "Concluídas: %d\n", s.Completed)
	fmt.Fprintf(a.stdout, "Pendentes:  %d\n", s.Pending)
	fmt.Fprintf(a.stdout, "Progresso:  %.0f%%\n", s.Percent())
	return nil
}

func parseID(command string, args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: tarefas %s <id>", command)
	}
	id, err := strconv.Atoi(strings.TrimPrefix(args[0], "#"))
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid task id %q", args[0])
	}
	return id, nil
}
