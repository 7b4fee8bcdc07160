package todo

import (
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tarefas-go/internal/storage"
)

// Store owns the task list. Every mutation is written through to the
// backend before the method returns.
//
// A Store is not safe for concurrent use.
type Store struct {
	backend storage.Backend
	tasks   []Task
	nextID  int
	now     func() time.Time
	logger  *log.Logger

	// rejected holds backend content that failed validation on the last
	// load. It is backed up before the first write replaces it.
	rejected []byte
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for created_at and completed_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open creates a store over backend and loads its current content.
func Open(backend storage.Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		tasks:   []Task{},
		nextID:  1,
		now:     time.Now,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Load()
	return s
}

// Location describes the backing storage.
func (s *Store) Location() string {
	return s.backend.Location()
}

// Load replaces the in-memory list with the backend content and returns a
// copy of it. Missing or malformed content yields an empty list; Load
// never fails. The id counter only moves forward, so ids handed out
// earlier in this process are not reused after a reload.
func (s *Store) Load() []Task {
	s.rejected = nil
	s.tasks = s.read()

	next := 1
	for _, t := range s.tasks {
		if t.ID >= next {
			next = t.ID + 1
		}
	}
	if next > s.nextID {
		s.nextID = next
	}

	s.logger.Debug("tasks loaded", "location", s.backend.Location(), "count", len(s.tasks), "next_id", s.nextID)
	return s.Tasks()
}

func (s *Store) read() []Task {
	data, err := s.backend.Read()
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			s.logger.Debug("no task data yet", "location", s.backend.Location())
		} else {
			s.logger.Warn("cannot read task data, starting empty", "location", s.backend.Location(), "err", err)
		}
		return []Task{}
	}

	tasks, result := decode(data)
	for _, w := range result.Warnings {
		s.logger.Warn(w)
	}
	if !result.Valid {
		s.logger.Warn("ignoring malformed task data, starting empty", "location", s.backend.Location(), "err", result.Err())
		if len(bytes.TrimSpace(data)) > 0 {
			s.rejected = data
		}
		return []Task{}
	}
	return tasks
}

// Persist writes the whole list to the backend, replacing what was there.
// Content rejected by the last Load is backed up first; if that fails,
// nothing is written.
func (s *Store) Persist() error {
	data, err := Encode(s.tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := s.backupRejected(); err != nil {
		return err
	}
	if err := s.backend.Write(data); err != nil {
		s.logger.Error("failed to save tasks", "location", s.backend.Location(), "err", err)
		return fmt.Errorf("save tasks to %s: %w", s.backend.Location(), err)
	}
	return nil
}

// backupRejected keeps a copy of content that failed validation before it
// is overwritten. A backend without backup support only gets a warning.
func (s *Store) backupRejected() error {
	if s.rejected == nil {
		return nil
	}
	location, err := storage.Backup(s.backend, s.rejected)
	switch {
	case errors.Is(err, storage.ErrBackupUnsupported):
		s.logger.Warn("overwriting malformed task data without a backup", "location", s.backend.Location())
	case err != nil:
		s.logger.Error("failed to back up malformed task data", "location", s.backend.Location(), "err", err)
		return fmt.Errorf("back up malformed task data: %w", err)
	default:
		s.logger.Warn("malformed task data backed up", "backup", location)
	}
	s.rejected = nil
	return nil
}

// Encode serializes tasks in the file format: a JSON array with 2-space
// indentation, a trailing newline and non-ASCII text kept as-is.
func Encode(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tasks); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Create appends a pending task. The description is trimmed and must not
// be empty; an empty category becomes DefaultCategory. Rejected input
// leaves the store untouched. When saving fails the task stays in memory
// and is returned along with the error.
func (s *Store) Create(description string, priority Priority, category string) (Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return Task{}, ErrEmptyDescription
	}
	if !priority.Valid() {
		return Task{}, fmt.Errorf("%w %q", ErrInvalidPriority, priority)
	}
	category = strings.TrimSpace(category)
	if category == "" {
		category = DefaultCategory
	}

	t := Task{
		ID:          s.nextID,
		Description: description,
		Priority:    priority,
		Category:    category,
		Completed:   false,
		CreatedAt:   NewTimestamp(s.now()),
		CompletedAt: nil,
	}
	s.tasks = append(s.tasks, t)
	s.nextID++

	s.logger.Debug("task created", "id", t.ID, "priority", t.Priority, "category", t.Category)
	if err := s.Persist(); err != nil {
		return t, err
	}
	return t, nil
}

// Toggle flips a task between pending and completed. found is false when
// no task has id; the list is still written, like every other call.
func (s *Store) Toggle(id int) (Task, bool, error) {
	i := s.index(id)
	if i < 0 {
		return Task{}, false, s.Persist()
	}

	t := &s.tasks[i]
	t.Completed = !t.Completed
	if t.Completed {
		ts := NewTimestamp(s.now())
		t.CompletedAt = &ts
	} else {
		t.CompletedAt = nil
	}
	toggled := *t

	s.logger.Debug("task toggled", "id", id, "completed", toggled.Completed)
	err := s.Persist()
	return toggled, true, err
}

// Remove deletes the task with id. found is false when no task has id;
// the list is still written.
func (s *Store) Remove(id int) (bool, error) {
	i := s.index(id)
	if i < 0 {
		return false, s.Persist()
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)

	s.logger.Debug("task removed", "id", id)
	return true, s.Persist()
}

// ClearCompleted removes every completed task, keeping pending tasks in
// their original order, and returns how many were removed.
func (s *Store) ClearCompleted() (int, error) {
	kept := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	removed := len(s.tasks) - len(kept)
	s.tasks = kept

	s.logger.Debug("completed tasks cleared", "removed", removed)
	if err := s.Persist(); err != nil {
		return removed, err
	}
	return removed, nil
}

// View returns the tasks matching both filters, pending before completed
// and then by priority rank. The sort is stable, so ties keep creation
// order. The sequence is computed from the current list each time it is
// ranged over and yields copies.
func (s *Store) View(status StatusFilter, priority PriorityFilter) iter.Seq[Task] {
	return func(yield func(Task) bool) {
		for _, t := range filterAndSort(s.tasks, status, priority) {
			if !yield(t) {
				return
			}
		}
	}
}

func filterAndSort(tasks []Task, status StatusFilter, priority PriorityFilter) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if status.Match(t) && priority.Match(t) {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, compareForView)
	return out
}

func compareForView(a, b Task) int {
	if a.Completed != b.Completed {
		if !a.Completed {
			return -1
		}
		return 1
	}
	return cmp.Compare(a.Priority.Rank(), b.Priority.Rank())
}

// Tasks returns a copy of the list in creation order.
func (s *Store) Tasks() []Task {
	return slices.Clone(s.tasks)
}

// Get returns the task with id.
func (s *Store) Get(id int) (Task, bool) {
	i := s.index(id)
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i], true
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// NextID returns the id the next created task will get.
func (s *Store) NextID() int {
	return s.nextID
}

// Stats counts total, completed and pending tasks.
func (s *Store) Stats() Stats {
	st := Stats{Total: len(s.tasks)}
	for _, t := range s.tasks {
		if t.Completed {
			st.Completed++
		}
	}
	st.Pending = st.Total - st.Completed
	return st
}

func (s *Store) index(id int) int {
	return slices.IndexFunc(s.tasks, func(t Task) bool { return t.ID == id })
}
