package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/stellarlinkco/openeval/internal/testcase"
)

// FromJSON loads a dataset from a JSON file holding an array of test cases.
func FromJSON(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: read %s: %w", path, err)
	}

	var cases []*testcase.TestCase
	if err := json.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("dataset: parse %s: %w", path, err)
	}

	d := New(datasetName(path))
	for i, tc := range cases {
		if err := d.Add(tc); err != nil {
			return nil, fmt.Errorf("dataset: %s case %d: %w", path, i, err)
		}
	}
	return d, nil
}

// FromCSV loads a dataset from a CSV file. The header row names the columns;
// input, expected_output, context, tools_called, expected_tools, and tags are
// recognized, with list columns split on ";". Unknown columns land in
// metadata.
func FromCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("dataset: read header of %s: %w", path, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.ToLower(header[i]))
	}

	d := New(datasetName(path))
	row := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: read %s: %w", path, err)
		}
		row++

		tc := &testcase.TestCase{}
		for i, value := range record {
			if i >= len(header) {
				break
			}
			switch header[i] {
			case "id":
				tc.ID = value
			case "input":
				tc.Input = value
			case "actual_output":
				tc.ActualOutput = value
			case "expected_output":
				tc.ExpectedOutput = value
			case "context":
				tc.Context = splitList(value)
			case "tools_called":
				tc.ToolsCalled = splitList(value)
			case "expected_tools":
				tc.ExpectedTools = splitList(value)
			case "tags":
				tc.Tags = splitList(value)
			default:
				if tc.Metadata == nil {
					tc.Metadata = make(map[string]any)
				}
				tc.Metadata[header[i]] = value
			}
		}
		if err := d.Add(tc); err != nil {
			return nil, fmt.Errorf("dataset: %s row %d: %w", path, row, err)
		}
	}
	return d, nil
}

// SaveJSON writes the dataset's test cases as a JSON array.
func (d *Dataset) SaveJSON(path string) error {
	data, err := json.MarshalIndent(d.items, "", "  ")
	if err != nil {
		return fmt.Errorf("dataset: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("dataset: write %s: %w", path, err)
	}
	return nil
}

func datasetName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
