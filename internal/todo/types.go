package todo

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// TimestampLayout is the on-disk timestamp format (DD/MM/YYYY HH:MM).
const TimestampLayout = "02/01/2006 15:04"

// DefaultCategory is used when a task is created without a category.
const DefaultCategory = "Sem categoria"

var (
	// ErrEmptyDescription rejects a create whose description is blank.
	ErrEmptyDescription = errors.New("task description is empty")
	// ErrInvalidPriority rejects a priority outside Alta, Média, Baixa.
	ErrInvalidPriority = errors.New("invalid priority")
	// ErrInvalidFilter rejects an unknown status or priority filter.
	ErrInvalidFilter = errors.New("invalid filter")
)

// Priority is a task priority label.
type Priority string

const (
	PriorityHigh   Priority = "Alta"
	PriorityMedium Priority = "Média"
	PriorityLow    Priority = "Baixa"
)

// Priorities lists the known priorities from highest to lowest.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Rank orders priorities for display: 1 for Alta through 3 for Baixa,
// 4 for anything else.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	return p.Rank() < 4
}

// Marker returns the colored dot shown next to a priority.
func (p Priority) Marker() string {
	switch p {
	case PriorityHigh:
		return "🔴"
	case PriorityMedium:
		return "🟡"
	case PriorityLow:
		return "🟢"
	default:
		return "⚪"
	}
}

// ParsePriority accepts the Portuguese labels in any case, with or
// without accents, plus English aliases and 1-3.
func ParsePriority(s string) (Priority, error) {
	switch normalizeLabel(s) {
	case "alta", "high", "h", "1":
		return PriorityHigh, nil
	case "média", "media", "medium", "m", "2":
		return PriorityMedium, nil
	case "baixa", "low", "l", "3":
		return PriorityLow, nil
	default:
		return "", fmt.Errorf("%w %q, must be one of: Alta, Média, Baixa", ErrInvalidPriority, s)
	}
}

// StatusFilter selects tasks by completion state.
type StatusFilter string

const (
	StatusAll       StatusFilter = "Todas"
	StatusPending   StatusFilter = "Pendentes"
	StatusCompleted StatusFilter = "Concluídas"
)

// StatusFilters lists the status filters in menu order.
var StatusFilters = []StatusFilter{StatusAll, StatusPending, StatusCompleted}

// Match reports whether t passes the filter. Unknown filters match
// everything.
func (f StatusFilter) Match(t Task) bool {
	switch f {
	case StatusPending:
		return !t.Completed
	case StatusCompleted:
		return t.Completed
	default:
		return true
	}
}

// ParseStatusFilter accepts the Portuguese labels and English aliases.
// An empty string selects all tasks.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch normalizeLabel(s) {
	case "", "todas", "all":
		return StatusAll, nil
	case "pendentes", "pendente", "pending", "todo":
		return StatusPending, nil
	case "concluídas", "concluidas", "concluída", "concluida", "completed", "done":
		return StatusCompleted, nil
	default:
		return "", fmt.Errorf("%w: status %q, must be one of: Todas, Pendentes, Concluídas", ErrInvalidFilter, s)
	}
}

// PriorityFilter selects tasks by exact priority label.
type PriorityFilter string

// PriorityAll disables priority filtering.
const PriorityAll PriorityFilter = "Todas"

// PriorityFilters lists the priority filters in menu order.
var PriorityFilters = []PriorityFilter{
	PriorityAll,
	PriorityFilter(PriorityHigh),
	PriorityFilter(PriorityMedium),
	PriorityFilter(PriorityLow),
}

// Match reports whether t passes the filter.
func (f PriorityFilter) Match(t Task) bool {
	if f == PriorityAll || f == "" {
		return true
	}
	return Priority(f) == t.Priority
}

// ParsePriorityFilter accepts "Todas"/"all" or anything ParsePriority
// accepts. An empty string selects all priorities.
func ParsePriorityFilter(s string) (PriorityFilter, error) {
	switch normalizeLabel(s) {
	case "", "todas", "all":
		return PriorityAll, nil
	}
	p, err := ParsePriority(s)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}
	return PriorityFilter(p), nil
}

func normalizeLabel(s string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(s)))
}

// Timestamp is a minute-precision local time that marshals as
// "DD/MM/YYYY HH:MM".
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to the minute in local time, so a value
// survives a save/load round trip unchanged.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.In(time.Local).Truncate(time.Minute)}
}

// ParseTimestamp parses a "DD/MM/YYYY HH:MM" string in local time.
func ParseTimestamp(s string) (Timestamp, error) {
	t, err := time.ParseInLocation(TimestampLayout, s, time.Local)
	if err != nil {
		return Timestamp{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return Timestamp{Time: t}, nil
}

// String formats the timestamp in the on-disk layout.
func (ts Timestamp) String() string {
	return ts.Format(TimestampLayout)
}

// MarshalJSON implements json.Marshaler.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.String())
}

// MarshalYAML implements yaml.Marshaler.
func (ts Timestamp) MarshalYAML() (interface{}, error) {
	return ts.String(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

// Task is a single to-do item.
type Task struct {
	ID          int        `json:"id" yaml:"id"`
	Description string     `json:"description" yaml:"description"`
	Priority    Priority   `json:"priority" yaml:"priority"`
	Category    string     `json:"category" yaml:"category"`
	Completed   bool       `json:"completed" yaml:"completed"`
	CreatedAt   Timestamp  `json:"created_at" yaml:"created_at"`
	CompletedAt *Timestamp `json:"completed_at" yaml:"completed_at"`
}

// String renders the task as one list line:
// "[x] 🔴 #3 Pagar contas (Casa) 02/01/2026 09:00 ✓ 03/01/2026 18:45".
func (t Task) String() string {
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}
	line := fmt.Sprintf("%s %s #%d %s (%s) %s", check, t.Priority.Marker(), t.ID, t.Description, t.Category, t.CreatedAt)
	if t.CompletedAt != nil {
		line += " ✓ " + t.CompletedAt.String()
	}
	return line
}

// Stats summarizes the task list.
type Stats struct {
	Total     int
	Completed int
	Pending   int
}

// Percent returns the completed share in [0, 100].
func (s Stats) Percent() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Total) * 100
}
