package todo

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed tasks.schema.json
var taskSchemaJSON string

const taskSchemaURL = "https://github.com/nibzard/tarefas-go/tasks.schema.json"

// MaxTaskID is the largest id accepted on load. It matches the schema's
// maximum and leaves room for the next id on 32-bit platforms.
const MaxTaskID = 1<<31 - 1

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(taskSchemaURL, strings.NewReader(taskSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add task schema: %w", err)
	}
	return compiler.Compile(taskSchemaURL)
})

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // JSON path to the error location, e.g. "[2].created_at"
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool // false when the embedded schema could not be compiled
}

// Err joins all validation errors, or returns nil when valid.
func (r *ValidationResult) Err() error {
	if r == nil || r.Valid {
		return nil
	}
	return errors.Join(r.Errors...)
}

func (r *ValidationResult) fail(path string, err error) {
	r.Valid = false
	r.Errors = append(r.Errors, &ValidationError{Path: path, Err: err})
}

// Validate checks a serialized task list against tasks.schema.json and
// the rules the schema cannot express (unique ids, completed_at set
// exactly when completed).
func Validate(data []byte) *ValidationResult {
	_, result := decode(data)
	return result
}

// decode validates data and returns the tasks it holds. The tasks are
// only meaningful when the result is valid.
func decode(data []byte) ([]Task, *ValidationResult) {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.fail("", errors.New("task data is empty"))
		return nil, result
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		result.fail("", fmt.Errorf("parse task data: %w", err))
		return nil, result
	}

	schema, err := compiledSchema()
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("JSON Schema validation not available, using minimal checks: %v", err))
	} else {
		result.UsedSchema = true
		if err := schema.Validate(doc); err != nil {
			appendSchemaErrors(result, err)
			return nil, result
		}
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		result.fail("", fmt.Errorf("task data must be an array: %w", err))
		return nil, result
	}

	tasks := make([]Task, 0, len(raw))
	seen := make(map[int]int, len(raw))
	for i, item := range raw {
		path := fmt.Sprintf("[%d]", i)

		var task Task
		if err := json.Unmarshal(item, &task); err != nil {
			result.fail(path, err)
			continue
		}
		if err := validateTaskMinimal(&task); err != nil {
			err.Path = path + err.Path
			result.Valid = false
			result.Errors = append(result.Errors, err)
			continue
		}
		if first, dup := seen[task.ID]; dup {
			result.fail(path+".id", fmt.Errorf("duplicate id %d (also at [%d])", task.ID, first))
			continue
		}
		seen[task.ID] = i
		tasks = append(tasks, task)
	}

	if !result.Valid {
		return nil, result
	}
	return tasks, result
}

// validateTaskMinimal performs the checks that hold even without the
// schema. Paths are relative to the task.
func validateTaskMinimal(task *Task) *ValidationError {
	if task.ID < 1 || task.ID > MaxTaskID {
		return &ValidationError{
			Path: ".id",
			Err:  fmt.Errorf("must be an integer between 1 and %d, got %d", MaxTaskID, task.ID),
		}
	}

	if strings.TrimSpace(task.Description) == "" {
		return &ValidationError{
			Path: ".description",
			Err:  fmt.Errorf("missing required field"),
		}
	}

	if task.Priority == "" {
		return &ValidationError{
			Path: ".priority",
			Err:  fmt.Errorf("missing required field"),
		}
	}

	if task.CreatedAt.IsZero() {
		return &ValidationError{
			Path: ".created_at",
			Err:  fmt.Errorf("missing required field"),
		}
	}

	if task.Completed != (task.CompletedAt != nil) {
		return &ValidationError{
			Path: ".completed_at",
			Err:  fmt.Errorf("must be set if and only if completed is true"),
		}
	}

	return nil
}

func appendSchemaErrors(result *ValidationResult, err error) {
	if err == nil {
		return
	}
	result.Valid = false

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.Errors = append(result.Errors, err)
		return
	}

	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

// jsonPointerToPath turns "/2/created_at" into "[2].created_at".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
