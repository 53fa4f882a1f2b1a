package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stellarlinkco/openeval/internal/testcase"
)

func TestAddDeduplicates(t *testing.T) {
	t.Parallel()

	d := New("qa")
	if err := d.Add(&testcase.TestCase{Input: "q1", ExpectedOutput: "a1"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := d.Add(&testcase.TestCase{Input: "q1", ExpectedOutput: "a1"}); err != nil {
		t.Fatalf("Add duplicate: %v", err)
	}
	if err := d.Add(&testcase.TestCase{Input: "q1", ExpectedOutput: "a2"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if d.Len() != 2 {
		t.Fatalf("Len: got %d, want 2", d.Len())
	}
	if err := d.Add(&testcase.TestCase{Input: "   "}); err == nil {
		t.Fatalf("blank input: expected error")
	}
}

func TestFilter(t *testing.T) {
	t.Parallel()

	d := New("qa")
	_ = d.Add(&testcase.TestCase{Input: "a", Tags: []string{"easy", "math"}})
	_ = d.Add(&testcase.TestCase{Input: "b", Tags: []string{"easy"}})
	_ = d.Add(&testcase.TestCase{Input: "c", Tags: []string{"hard", "math"}})

	if got := d.Filter("easy").Len(); got != 2 {
		t.Fatalf("Filter(easy): got %d", got)
	}
	if got := d.Filter("easy", "math").Len(); got != 1 {
		t.Fatalf("Filter(easy,math): got %d", got)
	}
	if got := d.Filter().Len(); got != 0 {
		t.Fatalf("Filter(): got %d", got)
	}
}

func TestSample(t *testing.T) {
	t.Parallel()

	d := New("qa")
	for _, in := range []string{"a", "b", "c", "d", "e"} {
		_ = d.Add(&testcase.TestCase{Input: in})
	}

	s := d.Sample(3)
	if s.Len() != 3 {
		t.Fatalf("Sample(3): got %d", s.Len())
	}
	seen := make(map[string]bool)
	for _, tc := range s.Items() {
		if seen[tc.Input] {
			t.Fatalf("Sample drew %q twice", tc.Input)
		}
		seen[tc.Input] = true
	}

	if got := d.Sample(10).Len(); got != 5 {
		t.Fatalf("Sample(10): got %d", got)
	}
	if got := d.Sample(0).Len(); got != 0 {
		t.Fatalf("Sample(0): got %d", got)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "cases.json")

	d := New("cases")
	_ = d.Add(&testcase.TestCase{Input: "q1", ExpectedOutput: "a1", Tags: []string{"smoke"}})
	_ = d.Add(&testcase.TestCase{Input: "q2", Context: []string{"ctx"}})

	if err := d.SaveJSON(path); err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}

	loaded, err := FromJSON(path)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("loaded Len: got %d", loaded.Len())
	}
	if loaded.Name() != "cases" {
		t.Fatalf("loaded Name: got %q", loaded.Name())
	}
	if loaded.Items()[0].Tags[0] != "smoke" {
		t.Fatalf("tags lost in round trip")
	}
}

func TestFromCSV(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "suite.csv")
	csvData := "input,expected_output,tags,difficulty\n" +
		"What is 2+2?,4,math;easy,1\n" +
		"Name a prime.,2,math,2\n"
	if err := os.WriteFile(path, []byte(csvData), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	d, err := FromCSV(path)
	if err != nil {
		t.Fatalf("FromCSV: %v", err)
	}
	if d.Len() != 2 {
		t.Fatalf("Len: got %d", d.Len())
	}

	first := d.Items()[0]
	if first.Input != "What is 2+2?" || first.ExpectedOutput != "4" {
		t.Fatalf("first case: %+v", first)
	}
	if len(first.Tags) != 2 || first.Tags[0] != "math" || first.Tags[1] != "easy" {
		t.Fatalf("tags: %v", first.Tags)
	}
	if first.Metadata["difficulty"] != "1" {
		t.Fatalf("metadata: %v", first.Metadata)
	}
}
