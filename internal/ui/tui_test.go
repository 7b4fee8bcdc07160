package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/tarefas-go/internal/storage"
	"github.com/nibzard/tarefas-go/internal/todo"
)

func newTestModel(t *testing.T, opts ...TUIOption) (*tuiModel, *todo.Store, *storage.Memory) {
	t.Helper()
	mem := storage.NewMemory(nil)
	clock := func() time.Time { return time.Date(2026, 3, 10, 14, 30, 0, 0, time.Local) }
	store := todo.Open(mem, todo.WithClock(clock))
	return newTUIModel(store, opts...), store, mem
}

func mustCreate(t *testing.T, s *todo.Store, desc string, p todo.Priority) todo.Task {
	t.Helper()
	task, err := s.Create(desc, p, "")
	if err != nil {
		t.Fatalf("Create(%q) failed: %v", desc, err)
	}
	return task
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *tuiModel, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func TestAddTask(t *testing.T) {
	m, store, _ := newTestModel(t)

	press(m, runes("a"))
	if m.mode != modeAdd {
		t.Fatalf("expected add mode, got %v", m.mode)
	}
	if m.priority != todo.PriorityMedium {
		t.Errorf("default priority: got %q, want Média", m.priority)
	}

	press(m,
		runes("Comprar pão"),
		tea.KeyMsg{Type: tea.KeyTab},
		runes("Casa"),
		tea.KeyMsg{Type: tea.KeyCtrlP},
		tea.KeyMsg{Type: tea.KeyEnter},
	)

	if m.mode != modeList {
		t.Errorf("expected list mode after submit, got %v", m.mode)
	}
	tasks := store.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	got := tasks[0]
	if got.Description != "Comprar pão" || got.Category != "Casa" || got.Priority != todo.PriorityLow {
		t.Errorf("unexpected task: %+v", got)
	}
	if len(m.tasks) != 1 {
		t.Errorf("view not refreshed after add: %d rows", len(m.tasks))
	}
	if m.isError {
		t.Errorf("unexpected error message %q", m.message)
	}
}

func TestAddTaskDefaults(t *testing.T) {
	m, store, _ := newTestModel(t, WithDefaultPriority(todo.PriorityHigh))

	press(m, runes("a"), runes("Ligar"), tea.KeyMsg{Type: tea.KeyEnter})

	tasks := store.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].Priority != todo.PriorityHigh {
		t.Errorf("priority: got %q, want Alta", tasks[0].Priority)
	}
	if tasks[0].Category != todo.DefaultCategory {
		t.Errorf("category: got %q, want %q", tasks[0].Category, todo.DefaultCategory)
	}
}

func TestAddEmptyDescriptionWarns(t *testing.T) {
	m, store, mem := newTestModel(t)

	press(m, runes("a"), runes("   "), tea.KeyMsg{Type: tea.KeyEnter})

	if m.mode != modeAdd {
		t.Errorf("expected to stay in add mode, got %v", m.mode)
	}
	if !m.isError || !strings.Contains(m.message, "description") {
		t.Errorf("expected description warning, got %q", m.message)
	}
	if store.Len() != 0 || mem.Writes != 0 {
		t.Errorf("empty description must not mutate: len=%d writes=%d", store.Len(), mem.Writes)
	}
}

func TestAddCancel(t *testing.T) {
	m, store, _ := newTestModel(t)

	press(m, runes("a"), runes("rascunho"), tea.KeyMsg{Type: tea.KeyEsc})

	if m.mode != modeList {
		t.Errorf("expected list mode, got %v", m.mode)
	}
	if store.Len() != 0 {
		t.Errorf("cancel must not create, got %d tasks", store.Len())
	}
	if m.description.Value() != "" {
		t.Errorf("form not reset: %q", m.description.Value())
	}
}

func TestToggleSelected(t *testing.T) {
	m, store, _ := newTestModel(t)
	task := mustCreate(t, store, "Estudar", todo.PriorityHigh)
	m.refresh()

	press(m, tea.KeyMsg{Type: tea.KeySpace})
	got, _ := store.Get(task.ID)
	if !got.Completed || got.CompletedAt == nil {
		t.Fatalf("expected completed task, got %+v", got)
	}

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	got, _ = store.Get(task.ID)
	if got.Completed || got.CompletedAt != nil {
		t.Errorf("expected pending task after second toggle, got %+v", got)
	}
}

func TestToggleEmptyListIsNoop(t *testing.T) {
	m, _, mem := newTestModel(t)
	press(m, tea.KeyMsg{Type: tea.KeySpace})
	if mem.Writes != 0 {
		t.Errorf("expected no writes, got %d", mem.Writes)
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	m, store, _ := newTestModel(t)
	mustCreate(t, store, "Primeira", todo.PriorityHigh)
	second := mustCreate(t, store, "Segunda", todo.PriorityLow)
	m.refresh()
	press(m, runes("j"))

	press(m, runes("d"))
	if m.mode != modeConfirmDelete {
		t.Fatalf("expected confirm mode, got %v", m.mode)
	}
	press(m, runes("n"))
	if store.Len() != 2 {
		t.Fatalf("cancelled delete removed a task")
	}

	press(m, runes("d"), runes("y"))
	if _, ok := store.Get(second.ID); ok {
		t.Error("expected second task to be removed")
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 task left, got %d", store.Len())
	}
	if m.cursor != 0 {
		t.Errorf("cursor not clamped: %d", m.cursor)
	}
}

func TestClearCompleted(t *testing.T) {
	m, store, _ := newTestModel(t)
	a := mustCreate(t, store, "a", todo.PriorityHigh)
	mustCreate(t, store, "b", todo.PriorityHigh)
	if _, _, err := store.Toggle(a.ID); err != nil {
		t.Fatal(err)
	}
	m.refresh()

	press(m, runes("c"))

	if store.Len() != 1 {
		t.Errorf("expected 1 task after clear, got %d", store.Len())
	}
	if !strings.Contains(m.message, "1") {
		t.Errorf("expected count in message, got %q", m.message)
	}
}

func TestFilterCycling(t *testing.T) {
	m, store, _ := newTestModel(t)
	done := mustCreate(t, store, "feito", todo.PriorityHigh)
	mustCreate(t, store, "pendente alta", todo.PriorityHigh)
	mustCreate(t, store, "pendente baixa", todo.PriorityLow)
	if _, _, err := store.Toggle(done.ID); err != nil {
		t.Fatal(err)
	}
	m.refresh()

	press(m, runes("s"))
	if m.statusFilter != todo.StatusPending {
		t.Fatalf("status filter: got %q", m.statusFilter)
	}
	if len(m.tasks) != 2 {
		t.Errorf("pending view: got %d rows, want 2", len(m.tasks))
	}

	press(m, runes("p"))
	if m.priorityFilter != todo.PriorityFilter(todo.PriorityHigh) {
		t.Fatalf("priority filter: got %q", m.priorityFilter)
	}
	if len(m.tasks) != 1 || m.tasks[0].Description != "pendente alta" {
		t.Errorf("pending Alta view: got %+v", m.tasks)
	}

	press(m, runes("s"), runes("s"), runes("p"), runes("p"), runes("p"))
	if m.statusFilter != todo.StatusAll || m.priorityFilter != todo.PriorityAll {
		t.Errorf("filters should wrap around, got %q/%q", m.statusFilter, m.priorityFilter)
	}
	if len(m.tasks) != 3 {
		t.Errorf("full view: got %d rows", len(m.tasks))
	}
}

func TestWriteFailureShownInStatusLine(t *testing.T) {
	m, store, mem := newTestModel(t)
	task := mustCreate(t, store, "Estudar", todo.PriorityHigh)
	m.refresh()
	mem.FailWrites = errors.New("disk full")

	press(m, tea.KeyMsg{Type: tea.KeySpace})

	if !m.isError || !strings.Contains(m.message, "disk full") {
		t.Errorf("expected write error in status line, got %q", m.message)
	}
	got, _ := store.Get(task.ID)
	if !got.Completed {
		t.Error("in-memory state should keep the toggle")
	}
	if !strings.Contains(m.View(), "disk full") {
		t.Error("view should render the error")
	}
}

func TestViewRendersTasksAndStats(t *testing.T) {
	m, store, _ := newTestModel(t)
	a := mustCreate(t, store, "Pagar contas", todo.PriorityHigh)
	mustCreate(t, store, "Regar plantas", todo.PriorityLow)
	if _, _, err := store.Toggle(a.ID); err != nil {
		t.Fatal(err)
	}
	m.refresh()

	out := m.View()
	for _, want := range []string{"Tarefas", "Total: 2", "Concluídas: 1", "Pendentes: 1", "50%", "Pagar contas", "Regar plantas", "🔴", "🟢", "10/03/2026 14:30"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Regar plantas") > strings.Index(out, "Pagar contas") {
		t.Error("completed task should be listed after pending ones")
	}
}

func TestViewEmptyState(t *testing.T) {
	m, _, _ := newTestModel(t)
	if !strings.Contains(m.View(), "No tasks yet") {
		t.Errorf("expected empty state, got:\n%s", m.View())
	}
}

func TestHelpToggle(t *testing.T) {
	m, _, _ := newTestModel(t)

	press(m, runes("?"))
	if !m.showHelp || !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatal("expected help screen")
	}
	press(m, runes("x"))
	if m.showHelp {
		t.Error("any key should close help")
	}
}

func TestQuit(t *testing.T) {
	for _, msg := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		m, _, _ := newTestModel(t)
		cmd := press(m, msg)
		if cmd == nil {
			t.Fatalf("%s: expected quit command", msg)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: expected QuitMsg", msg)
		}
	}
}

func TestNextInCycle(t *testing.T) {
	if got := nextInCycle(todo.Priorities, todo.PriorityLow); got != todo.PriorityHigh {
		t.Errorf("wrap: got %q", got)
	}
	if got := nextInCycle(todo.Priorities, todo.Priority("Urgente")); got != todo.PriorityHigh {
		t.Errorf("unknown: got %q", got)
	}
}

func TestClampCursor(t *testing.T) {
	tests := []struct{ cur, n, want int }{
		{0, 0, 0},
		{-1, 3, 0},
		{5, 3, 2},
		{1, 3, 1},
	}
	for _, tt := range tests {
		if got := clampCursor(tt.cur, tt.n); got != tt.want {
			t.Errorf("clampCursor(%d, %d) = %d, want %d", tt.cur, tt.n, got, tt.want)
		}
	}
}

func TestIsTTY(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("buffer is not a TTY")
	}
}
