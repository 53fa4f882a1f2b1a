package cost

// Entry records one metered call, labeled for grouping (typically by scorer
// name).
type Entry struct {
	Label   string  `json:"label,omitempty"`
	Tokens  int     `json:"tokens"`
	CostUSD float64 `json:"cost_usd"`
}

// LabelTotals aggregates entries sharing a label.
type LabelTotals struct {
	Tokens  int     `json:"tokens"`
	CostUSD float64 `json:"cost_usd"`
}

// Tracker accumulates metered-call costs over one evaluation run. It is owned
// by a single goroutine for the duration of the run and is not safe for
// concurrent use.
type Tracker struct {
	entries []Entry
}

// Add records one call.
func (t *Tracker) Add(label string, tokens int, costUSD float64) {
	if t == nil {
		return
	}
	t.entries = append(t.entries, Entry{Label: label, Tokens: tokens, CostUSD: costUSD})
}

// TotalCost returns the USD sum across all entries.
func (t *Tracker) TotalCost() float64 {
	if t == nil {
		return 0
	}
	total := 0.0
	for _, e := range t.entries {
		total += e.CostUSD
	}
	return total
}

// TotalTokens returns the token sum across all entries.
func (t *Tracker) TotalTokens() int {
	if t == nil {
		return 0
	}
	total := 0
	for _, e := range t.entries {
		total += e.Tokens
	}
	return total
}

// ByLabel aggregates usage per label.
func (t *Tracker) ByLabel() map[string]LabelTotals {
	if t == nil {
		return nil
	}
	out := make(map[string]LabelTotals, len(t.entries))
	for _, e := range t.entries {
		label := e.Label
		if label == "" {
			label = "default"
		}
		agg := out[label]
		agg.Tokens += e.Tokens
		agg.CostUSD += e.CostUSD
		out[label] = agg
	}
	return out
}
