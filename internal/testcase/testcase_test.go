package testcase

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tc, err := New("What is 2+2?")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tc.ID == "" {
		t.Fatalf("expected generated id")
	}
	if tc.Input != "What is 2+2?" {
		t.Fatalf("input: got %q", tc.Input)
	}
}

func TestNewRejectsEmptyInput(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "   ", "\n\t"} {
		if _, err := New(input); err == nil {
			t.Fatalf("New(%q): expected error", input)
		}
	}
}

func TestFromMap(t *testing.T) {
	t.Parallel()

	tc, err := FromMap(map[string]any{
		"input":           "hello",
		"expected_output": "world",
		"context":         []any{"a", "b"},
		"expected_tools":  []string{"search"},
		"tags":            []any{"easy"},
		"metadata":        map[string]any{"source": "unit"},
	})
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	if tc.Input != "hello" || tc.ExpectedOutput != "world" {
		t.Fatalf("got input=%q expected=%q", tc.Input, tc.ExpectedOutput)
	}
	if len(tc.Context) != 2 || tc.Context[1] != "b" {
		t.Fatalf("context: got %#v", tc.Context)
	}
	if len(tc.ExpectedTools) != 1 || tc.ExpectedTools[0] != "search" {
		t.Fatalf("expected_tools: got %#v", tc.ExpectedTools)
	}
	if tc.Metadata["source"] != "unit" {
		t.Fatalf("metadata: got %#v", tc.Metadata)
	}
	if tc.ID == "" {
		t.Fatalf("expected generated id")
	}
}

func TestFromMapKeepsSuppliedID(t *testing.T) {
	t.Parallel()

	tc, err := FromMap(map[string]any{"id": "case-1", "input": "x"})
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	if tc.ID != "case-1" {
		t.Fatalf("id: got %q", tc.ID)
	}
}

func TestFromMapErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   map[string]any
		want string
	}{
		{"missing input", map[string]any{"expected_output": "x"}, "input cannot be empty"},
		{"whitespace input", map[string]any{"input": "  "}, "input cannot be empty"},
		{"non-string input", map[string]any{"input": 42}, "must be a string"},
		{"bad context", map[string]any{"input": "x", "context": "not a list"}, "list of strings"},
		{"bad context elem", map[string]any{"input": "x", "context": []any{1}}, "expected string"},
		{"bad metadata", map[string]any{"input": "x", "metadata": "nope"}, "must be a map"},
	}

	for _, c := range cases {
		_, err := FromMap(c.in)
		if err == nil {
			t.Fatalf("%s: expected error", c.name)
		}
		if !strings.Contains(err.Error(), c.want) {
			t.Fatalf("%s: got %q, want substring %q", c.name, err, c.want)
		}
	}
}

func TestValidateDistinguishesNilSlices(t *testing.T) {
	t.Parallel()

	tc, err := FromMap(map[string]any{"input": "x", "tools_called": []any{}})
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	if tc.ToolsCalled == nil {
		t.Fatalf("empty tools_called should stay non-nil")
	}
	if tc.ExpectedTools != nil {
		t.Fatalf("absent expected_tools should stay nil")
	}
}
