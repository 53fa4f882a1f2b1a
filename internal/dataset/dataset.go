package dataset

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/stellarlinkco/openeval/internal/testcase"
)

// Dataset is a named, deduplicated collection of test cases. Two cases are
// considered duplicates when both input and expected output match.
type Dataset struct {
	name  string
	items []*testcase.TestCase
	seen  map[string]bool
}

// New returns an empty dataset.
func New(name string) *Dataset {
	return &Dataset{
		name: name,
		seen: make(map[string]bool),
	}
}

// Name returns the dataset name.
func (d *Dataset) Name() string {
	return d.name
}

// Len returns the number of test cases.
func (d *Dataset) Len() int {
	return len(d.items)
}

// Items returns the test cases in insertion order. The slice is shared;
// callers must not modify it.
func (d *Dataset) Items() []*testcase.TestCase {
	return d.items
}

// Add validates and appends a test case. Duplicates are silently skipped.
func (d *Dataset) Add(tc *testcase.TestCase) error {
	if tc == nil {
		return errors.New("dataset: nil test case")
	}
	if err := tc.Validate(); err != nil {
		return fmt.Errorf("dataset: %w", err)
	}

	key := tc.Input + "\x00" + tc.ExpectedOutput
	if d.seen[key] {
		return nil
	}
	d.seen[key] = true
	d.items = append(d.items, tc)
	return nil
}

// Filter returns a new dataset containing cases tagged with every given tag.
// With no tags it returns an empty dataset.
func (d *Dataset) Filter(tags ...string) *Dataset {
	out := New(d.name)
	if len(tags) == 0 {
		return out
	}

	for _, tc := range d.items {
		tagSet := make(map[string]bool, len(tc.Tags))
		for _, tag := range tc.Tags {
			tagSet[tag] = true
		}
		all := true
		for _, want := range tags {
			if !tagSet[want] {
				all = false
				break
			}
		}
		if all {
			_ = out.Add(tc)
		}
	}
	return out
}

// Sample returns a new dataset with up to n cases drawn without replacement.
// If n meets or exceeds the dataset size, all cases are returned.
func (d *Dataset) Sample(n int) *Dataset {
	out := New(d.name)
	if n <= 0 {
		return out
	}
	if n >= len(d.items) {
		for _, tc := range d.items {
			_ = out.Add(tc)
		}
		return out
	}

	perm := rand.Perm(len(d.items))
	for _, idx := range perm[:n] {
		_ = out.Add(d.items[idx])
	}
	return out
}
