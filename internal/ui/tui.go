// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/nibzard/tarefas-go/internal/todo"
)

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

// tuiConfig holds TUI configuration.
type tuiConfig struct {
	defaultPriority todo.Priority
	logger          *log.Logger
}

// WithDefaultPriority sets the priority preselected in the add form.
// Unknown priorities are ignored.
func WithDefaultPriority(p todo.Priority) TUIOption {
	return func(c *tuiConfig) {
		if p.Valid() {
			c.defaultPriority = p
		}
	}
}

// WithLogger sets the logger used for session events.
func WithLogger(logger *log.Logger) TUIOption {
	return func(c *tuiConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// RunTUI starts the TUI over store and blocks until the user quits or ctx
// is cancelled.
func RunTUI(ctx context.Context, store *todo.Store, opts ...TUIOption) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(store, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type mode int

const (
	modeList mode = iota
	modeAdd
	modeConfirmDelete
)

const (
	fieldDescription = iota
	fieldCategory
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Faint(true)
	cursorStyle = lipgloss.NewStyle().Bold(true)
	doneStyle   = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

type tuiModel struct {
	store  *todo.Store
	logger *log.Logger

	tasks  []todo.Task
	cursor int
	mode   mode

	statusFilter   todo.StatusFilter
	priorityFilter todo.PriorityFilter

	description     textinput.Model
	category        textinput.Model
	field           int
	priority        todo.Priority
	defaultPriority todo.Priority

	pendingDel *todo.Task
	showHelp   bool
	message    string
	isError    bool
}

func newTUIModel(store *todo.Store, opts ...TUIOption) *tuiModel {
	c := &tuiConfig{
		defaultPriority: todo.PriorityMedium,
		logger:          log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}

	description := textinput.New()
	description.Placeholder = "Descrição da tarefa"
	description.CharLimit = 256
	description.Width = 50

	category := textinput.New()
	category.Placeholder = todo.DefaultCategory
	category.CharLimit = 64
	category.Width = 30

	m := &tuiModel{
		store:           store,
		logger:          c.logger,
		statusFilter:    todo.StatusAll,
		priorityFilter:  todo.PriorityAll,
		description:     description,
		category:        category,
		priority:        c.defaultPriority,
		defaultPriority: c.defaultPriority,
		message:         "Press a to add, space to toggle, d to delete, ? for help.",
	}
	m.refresh()
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	m.logger.Info("session started", "file", m.store.Location(), "tasks", m.store.Len())
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeAdd:
			return m.updateAddMode(msg)
		case modeConfirmDelete:
			return m.updateDeleteConfirm(msg.String())
		default:
			return m.updateListMode(msg.String())
		}
	case tea.WindowSizeMsg:
		if w := msg.Width - 20; w > 10 {
			m.description.Width = w
		}
	}
	return m, nil
}

func (m *tuiModel) updateListMode(key string) (tea.Model, tea.Cmd) {
	if m.showHelp && key != "q" {
		m.showHelp = false
		return m, nil
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "?", "h":
		m.showHelp = true
	case "up", "k":
		m.cursor = clampCursor(m.cursor-1, len(m.tasks))
	case "down", "j":
		m.cursor = clampCursor(m.cursor+1, len(m.tasks))
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = clampCursor(len(m.tasks)-1, len(m.tasks))
	case " ", "space", "enter":
		m.toggleSelected()
	case "d", "delete":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.pendingDel = &task
		m.mode = modeConfirmDelete
		m.setMessage(fmt.Sprintf("Delete #%d %q? y/n", task.ID, task.Description))
	case "c":
		m.clearCompleted()
	case "s":
		m.statusFilter = nextInCycle(todo.StatusFilters, m.statusFilter)
		m.refresh()
		m.setMessage("Status filter: " + string(m.statusFilter))
	case "p":
		m.priorityFilter = nextInCycle(todo.PriorityFilters, m.priorityFilter)
		m.refresh()
		m.setMessage("Priority filter: " + string(m.priorityFilter))
	case "a":
		return m, m.startAdd()
	}
	return m, nil
}

func (m *tuiModel) updateAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.stopAdd()
		m.setMessage("Cancelled")
		return m, nil
	case "tab", "shift+tab":
		return m, m.switchField()
	case "ctrl+p":
		m.priority = nextInCycle(todo.Priorities, m.priority)
		return m, nil
	case "enter":
		m.submitAdd()
		return m, nil
	}

	var cmd tea.Cmd
	if m.field == fieldCategory {
		m.category, cmd = m.category.Update(msg)
	} else {
		m.description, cmd = m.description.Update(msg)
	}
	return m, cmd
}

func (m *tuiModel) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "Y":
		task := m.pendingDel
		m.pendingDel = nil
		m.mode = modeList
		if task == nil {
			m.setMessage("Nothing to delete")
			return m, nil
		}
		removed, err := m.store.Remove(task.ID)
		m.refresh()
		switch {
		case err != nil:
			m.setError(err)
		case removed:
			m.logger.Info("task removed", "id", task.ID)
			m.setMessage(fmt.Sprintf("Deleted #%d", task.ID))
		default:
			m.setMessage(fmt.Sprintf("Task #%d no longer exists", task.ID))
		}
	case "n", "N", "esc":
		m.pendingDel = nil
		m.mode = modeList
		m.setMessage("Delete cancelled")
	}
	return m, nil
}

func (m *tuiModel) toggleSelected() {
	selected, ok := m.selected()
	if !ok {
		return
	}
	task, found, err := m.store.Toggle(selected.ID)
	m.refresh()
	if err != nil {
		m.setError(err)
		return
	}
	if !found {
		m.setMessage(fmt.Sprintf("Task #%d no longer exists", selected.ID))
		return
	}
	m.logger.Info("task toggled", "id", task.ID, "completed", task.Completed)
	if task.Completed {
		m.setMessage(fmt.Sprintf("Completed #%d", task.ID))
	} else {
		m.setMessage(fmt.Sprintf("Reopened #%d", task.ID))
	}
}

func (m *tuiModel) clearCompleted() {
	n, err := m.store.ClearCompleted()
	m.refresh()
	if err != nil {
		m.setError(err)
		return
	}
	m.logger.Info("completed tasks cleared", "count", n)
	m.setMessage(fmt.Sprintf("Removed %d completed task(s)", n))
}

func (m *tuiModel) startAdd() tea.Cmd {
	m.mode = modeAdd
	m.field = fieldDescription
	m.priority = m.defaultPriority
	m.description.SetValue("")
	m.category.SetValue("")
	m.category.Blur()
	m.setMessage("New task: enter to save, tab to switch field, ctrl+p for priority, esc to cancel")
	return m.description.Focus()
}

func (m *tuiModel) stopAdd() {
	m.mode = modeList
	m.description.Blur()
	m.category.Blur()
	m.description.SetValue("")
	m.category.SetValue("")
}

func (m *tuiModel) switchField() tea.Cmd {
	if m.field == fieldDescription {
		m.field = fieldCategory
		m.description.Blur()
		return m.category.Focus()
	}
	m.field = fieldDescription
	m.category.Blur()
	return m.description.Focus()
}

func (m *tuiModel) submitAdd() {
	task, err := m.store.Create(m.description.Value(), m.priority, m.category.Value())
	if errors.Is(err, todo.ErrEmptyDescription) {
		m.setError(errors.New("please enter a task description"))
		return
	}
	m.stopAdd()
	m.refresh()
	if err != nil {
		m.setError(err)
		return
	}
	m.logger.Info("task created", "id", task.ID, "priority", task.Priority, "category", task.Category)
	m.setMessage(fmt.Sprintf("Added #%d", task.ID))
	if i := slices.IndexFunc(m.tasks, func(t todo.Task) bool { return t.ID == task.ID }); i >= 0 {
		m.cursor = i
	}
}

// refresh re-reads the current view, keeping the cursor in range.
func (m *tuiModel) refresh() {
	m.tasks = slices.Collect(m.store.View(m.statusFilter, m.priorityFilter))
	m.cursor = clampCursor(m.cursor, len(m.tasks))
}

func (m *tuiModel) selected() (todo.Task, bool) {
	if len(m.tasks) == 0 {
		return todo.Task{}, false
	}
	return m.tasks[m.cursor], true
}

func (m *tuiModel) setMessage(s string) {
	m.message = s
	m.isError = false
}

func (m *tuiModel) setError(err error) {
	m.logger.Error("operation failed", "err", err)
	m.message = err.Error()
	m.isError = true
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b)
	writeStats(&b, m.store.Stats())

	if m.showHelp {
		writeHelp(&b)
		return b.String()
	}

	writeFilters(&b, m.statusFilter, m.priorityFilter)
	m.writeTasks(&b)

	if m.mode == modeAdd {
		m.writeAddForm(&b)
	}

	if m.isError {
		b.WriteString(errorStyle.Render(m.message))
	} else {
		b.WriteString(okStyle.Render(m.message))
	}
	b.WriteString("\n")
	writeFooter(&b)
	return b.String()
}

func writeTitle(b *strings.Builder) {
	title := "Tarefas"
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeStats(b *strings.Builder, s todo.Stats) {
	b.WriteString(headerStyle.Render(fmt.Sprintf("Total: %d  Concluídas: %d  Pendentes: %d  Progresso: %.0f%%",
		s.Total, s.Completed, s.Pending, s.Percent())))
	b.WriteString("\n\n")
}

func writeFilters(b *strings.Builder, status todo.StatusFilter, priority todo.PriorityFilter) {
	b.WriteString(fmt.Sprintf("Status: %s (s)  Prioridade: %s (p)\n\n", status, priority))
}

func (m *tuiModel) writeTasks(b *strings.Builder) {
	if len(m.tasks) == 0 {
		if m.store.Len() == 0 {
			b.WriteString("  No tasks yet. Press a to add one.\n\n")
		} else {
			b.WriteString("  No tasks match the current filters.\n\n")
		}
		return
	}

	for i, task := range m.tasks {
		line := task.String()
		if task.Completed {
			line = doneStyle.Render(line)
		}
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> ") + line + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	b.WriteString("\n")
}

func (m *tuiModel) writeAddForm(b *strings.Builder) {
	b.WriteString("New task\n")
	b.WriteString("  Description: " + m.description.View() + "\n")
	b.WriteString("  Category:    " + m.category.View() + "\n")
	b.WriteString(fmt.Sprintf("  Priority:    %s %s (ctrl+p)\n\n", m.priority.Marker(), m.priority))
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  up/k, down/j   Move\n")
	b.WriteString("  space, enter   Toggle completed\n")
	b.WriteString("  a              Add task\n")
	b.WriteString("  d              Delete task (confirm with y)\n")
	b.WriteString("  c              Clear completed tasks\n")
	b.WriteString("  s              Cycle status filter\n")
	b.WriteString("  p              Cycle priority filter\n")
	b.WriteString("  ?, h           Toggle this help screen\n")
	b.WriteString("  q, ctrl+c      Quit\n\n")
	b.WriteString("Add form: tab switches field, ctrl+p cycles priority, enter saves, esc cancels\n\n")
	b.WriteString("Press any key to return\n")
}

func writeFooter(b *strings.Builder) {
	b.WriteString("a add | space toggle | d delete | c clear | s/p filter | ? help | q quit\n")
}

func nextInCycle[T comparable](items []T, current T) T {
	i := slices.Index(items, current)
	return items[(i+1)%len(items)]
}

func clampCursor(cur, n int) int {
	if n <= 0 || cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
