// Package trace records named spans around task and scorer execution so a
// run can report where its wall time went. Collection is scoped to a context
// rather than global state.
package trace

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Span is one timed unit of work.
type Span struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Input      string    `json:"input,omitempty"`
	Output     string    `json:"output,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	DurationMs int64     `json:"duration_ms"`
	Err        string    `json:"error,omitempty"`
}

// Collector accumulates spans. Safe for concurrent use.
type Collector struct {
	mu    sync.Mutex
	spans []Span
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add records a finished span. A nil collector ignores the call.
func (c *Collector) Add(s Span) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.spans = append(c.spans, s)
}

// Spans returns a copy of the recorded spans.
func (c *Collector) Spans() []Span {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Span, len(c.spans))
	copy(out, c.spans)
	return out
}

type ctxKey struct{}

// NewContext attaches a collector to the context.
func NewContext(ctx context.Context, c *Collector) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext returns the collector attached to ctx, or nil.
func FromContext(ctx context.Context) *Collector {
	c, _ := ctx.Value(ctxKey{}).(*Collector)
	return c
}

// Do runs fn, recording a span on whatever collector ctx carries. With no
// collector attached the timing overhead is all it costs.
func Do(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	_, err := DoCapture(ctx, name, "", func(ctx context.Context) (string, error) {
		return "", fn(ctx)
	})
	return err
}

// DoCapture runs fn and records its input and output text on the span, for
// work units whose payload is worth keeping alongside the timing.
func DoCapture(ctx context.Context, name, input string, fn func(ctx context.Context) (string, error)) (string, error) {
	start := time.Now()
	output, err := fn(ctx)

	span := Span{
		ID:         uuid.NewString(),
		Name:       name,
		Input:      input,
		Output:     output,
		StartedAt:  start,
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		span.Err = err.Error()
	}
	FromContext(ctx).Add(span)
	return output, err
}
