package todo

import (
	"strings"
	"testing"
)

const validTask = `{"id": 1, "description": "a", "priority": "Alta", "category": "c", "completed": false, "created_at": "01/01/2026 10:00", "completed_at": null}`

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		wantErr  bool
		wantPath string
	}{
		{"empty array", `[]`, false, ""},
		{"single valid task", "[" + validTask + "]", false, ""},
		{"completed_at omitted on pending task", `[{"id": 1, "description": "a", "priority": "Alta", "category": "c", "completed": false, "created_at": "01/01/2026 10:00"}]`, false, ""},
		{"completed task", `[{"id": 2, "description": "b", "priority": "Baixa", "category": "", "completed": true, "created_at": "01/01/2026 10:00", "completed_at": "01/01/2026 12:00"}]`, false, ""},
		{"blank", "  ", true, ""},
		{"invalid json", `[`, true, ""},
		{"not an array", `{}`, true, ""},
		{"null", `null`, true, ""},
		{"zero id", `[{"id": 0, "description": "a", "priority": "Alta", "category": "c", "completed": false, "created_at": "01/01/2026 10:00", "completed_at": null}]`, true, "[0].id"},
		{"id above maximum", `[{"id": 2147483648, "description": "a", "priority": "Alta", "category": "c", "completed": false, "created_at": "01/01/2026 10:00", "completed_at": null}]`, true, "[0].id"},
		{"blank description", `[{"id": 1, "description": "   ", "priority": "Alta", "category": "c", "completed": false, "created_at": "01/01/2026 10:00", "completed_at": null}]`, true, "[0].description"},
		{"wrong type", `[{"id": "1", "description": "a", "priority": "Alta", "category": "c", "completed": false, "created_at": "01/01/2026 10:00", "completed_at": null}]`, true, "[0].id"},
		{"pending with completed_at", `[{"id": 1, "description": "a", "priority": "Alta", "category": "c", "completed": false, "created_at": "01/01/2026 10:00", "completed_at": "01/01/2026 10:00"}]`, true, "[0]"},
		{"impossible date", `[{"id": 1, "description": "a", "priority": "Alta", "category": "c", "completed": false, "created_at": "45/13/2026 10:00", "completed_at": null}]`, true, "[0]"},
		{"duplicate id", "[" + validTask + "," + validTask + "]", true, "[1].id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate([]byte(tt.data))
			if result.Valid == tt.wantErr {
				t.Fatalf("Valid = %v, errors: %v", result.Valid, result.Errors)
			}
			if !tt.wantErr {
				if result.Err() != nil {
					t.Errorf("Err() = %v, want nil", result.Err())
				}
				return
			}
			if result.Err() == nil {
				t.Fatal("expected Err() to be non-nil")
			}
			if tt.wantPath == "" {
				return
			}
			found := false
			for _, err := range result.Errors {
				if ve, ok := err.(*ValidationError); ok && strings.HasPrefix(ve.Path, tt.wantPath) {
					found = true
				}
			}
			if !found {
				t.Errorf("expected an error at %q, got %v", tt.wantPath, result.Errors)
			}
		})
	}
}

func TestValidateUsesSchema(t *testing.T) {
	result := Validate([]byte(`[]`))
	if !result.UsedSchema {
		t.Errorf("expected embedded schema to be used, warnings: %v", result.Warnings)
	}
}

func TestValidationErrorFormat(t *testing.T) {
	err := &ValidationError{Path: "[3].priority", Err: errString("missing required field")}
	if got := err.Error(); got != "[3].priority: missing required field" {
		t.Errorf("Error() = %q", got)
	}

	noPath := &ValidationError{Err: errString("boom")}
	if got := noPath.Error(); got != "boom" {
		t.Errorf("Error() = %q", got)
	}
}

type errString string

func (e errString) Error() string { return string(e) }

func TestJSONPointerToPath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"#", ""},
		{"/0", "[0]"},
		{"/2/created_at", "[2].created_at"},
		{"#/10/id", "[10].id"},
		{"/a~1b/c~0d", "a/b.c~d"},
	}

	for _, tt := range tests {
		if got := jsonPointerToPath(tt.input); got != tt.want {
			t.Errorf("jsonPointerToPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
