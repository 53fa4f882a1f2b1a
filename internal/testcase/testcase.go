package testcase

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// TestCase is a single evaluation item: an input, the output under test, and
// optional ground truth used by scorers.
//
// Optional string fields use "" for absent. Slice fields distinguish nil
// (not provided) from empty (provided, zero elements); ToolCorrectness relies
// on that distinction for ToolsCalled vs ExpectedTools.
type TestCase struct {
	ID             string         `json:"id"`
	Input          string         `json:"input"`
	ActualOutput   string         `json:"actual_output,omitempty"`
	ExpectedOutput string         `json:"expected_output,omitempty"`
	Context        []string       `json:"context,omitempty"`
	ToolsCalled    []string       `json:"tools_called,omitempty"`
	ExpectedTools  []string       `json:"expected_tools,omitempty"`
	Tags           []string       `json:"tags,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// New creates a test case with a generated id.
func New(input string) (*TestCase, error) {
	tc := &TestCase{
		ID:    uuid.NewString(),
		Input: input,
	}
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	return tc, nil
}

// Validate checks required fields and fills in a missing id.
func (tc *TestCase) Validate() error {
	if tc == nil {
		return fmt.Errorf("testcase: nil test case")
	}
	if strings.TrimSpace(tc.Input) == "" {
		return fmt.Errorf("testcase: input cannot be empty")
	}
	if strings.TrimSpace(tc.ID) == "" {
		tc.ID = uuid.NewString()
	}
	return nil
}

// FromMap builds a test case from a raw mapping, converting field by field.
// Unknown keys are ignored.
func FromMap(m map[string]any) (*TestCase, error) {
	if m == nil {
		return nil, fmt.Errorf("testcase: nil map")
	}

	tc := &TestCase{}
	var err error

	if tc.ID, err = stringField(m, "id"); err != nil {
		return nil, err
	}
	if tc.Input, err = stringField(m, "input"); err != nil {
		return nil, err
	}
	if tc.ActualOutput, err = stringField(m, "actual_output"); err != nil {
		return nil, err
	}
	if tc.ExpectedOutput, err = stringField(m, "expected_output"); err != nil {
		return nil, err
	}
	if tc.Context, err = stringSliceField(m, "context"); err != nil {
		return nil, err
	}
	if tc.ToolsCalled, err = stringSliceField(m, "tools_called"); err != nil {
		return nil, err
	}
	if tc.ExpectedTools, err = stringSliceField(m, "expected_tools"); err != nil {
		return nil, err
	}
	if tc.Tags, err = stringSliceField(m, "tags"); err != nil {
		return nil, err
	}
	if raw, ok := m["metadata"]; ok && raw != nil {
		md, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("testcase: metadata must be a map, got %T", raw)
		}
		tc.Metadata = md
	}

	if err := tc.Validate(); err != nil {
		return nil, err
	}
	return tc, nil
}

func stringField(m map[string]any, key string) (string, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("testcase: %s must be a string, got %T", key, raw)
	}
	return s, nil
}

func stringSliceField(m map[string]any, key string) ([]string, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for i, elem := range v {
			s, ok := elem.(string)
			if !ok {
				return nil, fmt.Errorf("testcase: %s[%d]: expected string, got %T", key, i, elem)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("testcase: %s must be a list of strings, got %T", key, raw)
	}
}
