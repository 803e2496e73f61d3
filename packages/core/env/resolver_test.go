package env

import (
	"fmt"
	"regexp"
	"testing"
)

func TestResolverResolve(t *testing.T) {
	t.Setenv("HITVERB_TEST_TOKEN", "s3cret")

	tests := []struct {
		name      string
		input     string
		variables map[string]any
		expected  string
	}{
		{
			name:     "no templates",
			input:    "https://example.com/items",
			expected: "https://example.com/items",
		},
		{
			name:      "variable",
			input:     "https://{{host}}/items",
			variables: map[string]any{"host": "api.local"},
			expected:  "https://api.local/items",
		},
		{
			name:      "non-string variable",
			input:     "/items/{{ id }}",
			variables: map[string]any{"id": 42},
			expected:  "/items/42",
		},
		{
			name:     "process environment",
			input:    "Bearer {{$HITVERB_TEST_TOKEN}}",
			expected: "Bearer s3cret",
		},
		{
			name:     "unresolved left in place",
			input:    "{{missing}} and {{$HITVERB_TEST_UNSET}}",
			expected: "{{missing}} and {{$HITVERB_TEST_UNSET}}",
		},
		{
			name:     "builtin function",
			input:    "{{base64('user:pass')}}",
			expected: "dXNlcjpwYXNz",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver()
			r.SetVariables(tt.variables)
			if got := r.Resolve(tt.input); got != tt.expected {
				t.Errorf("Resolve(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestResolverUUID(t *testing.T) {
	got := NewResolver().Resolve("{{uuid()}}")
	pattern := regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	if !pattern.MatchString(got) {
		t.Errorf("Resolve(uuid()) = %q, want a v4 UUID", got)
	}
}

func TestResolverWarnsOnUnresolved(t *testing.T) {
	var warnings []string
	r := NewResolver()
	r.SetWarnFunc(func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	})

	r.Resolve("{{a}} {{b}}")
	if len(warnings) != 2 {
		t.Fatalf("got %d warnings, want 2: %v", len(warnings), warnings)
	}
	if warnings[0] != "unresolved template: a" {
		t.Errorf("warnings[0] = %q", warnings[0])
	}
}

func TestResolverResolveAll(t *testing.T) {
	r := NewResolver()
	r.SetVariable("v", "x")

	got := r.ResolveAll([]string{"X-A", "{{v}}"})
	if len(got) != 2 || got[0] != "X-A" || got[1] != "x" {
		t.Errorf("ResolveAll() = %v", got)
	}
	if r.ResolveAll(nil) != nil {
		t.Error("ResolveAll(nil) should be nil")
	}
}

func TestResolverGetUnresolvedVariables(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		variables map[string]any
		expected  []string
	}{
		{
			name:     "no variables",
			input:    "hello world",
			expected: nil,
		},
		{
			name:      "resolved variable",
			input:     "{{foo}}",
			variables: map[string]any{"foo": "bar"},
			expected:  nil,
		},
		{
			name:     "multiple unresolved variables",
			input:    "{{foo}} and {{bar}}",
			expected: []string{"foo", "bar"},
		},
		{
			name:      "mixed resolved and unresolved",
			input:     "{{foo}} and {{bar}} and {{baz}}",
			variables: map[string]any{"bar": "middle"},
			expected:  []string{"foo", "baz"},
		},
		{
			name:     "known function",
			input:    "{{uuid()}}",
			expected: nil,
		},
		{
			name:     "unknown function",
			input:    "{{nope()}}",
			expected: []string{"nope()"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver()
			r.SetVariables(tt.variables)

			got := r.GetUnresolvedVariables(tt.input)
			if len(got) != len(tt.expected) {
				t.Fatalf("GetUnresolvedVariables(%q) = %v, want %v", tt.input, got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("GetUnresolvedVariables(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.expected[i])
				}
			}
			if r.HasUnresolvedVariables(tt.input) != (len(tt.expected) > 0) {
				t.Errorf("HasUnresolvedVariables(%q) disagrees with GetUnresolvedVariables", tt.input)
			}
		})
	}
}
