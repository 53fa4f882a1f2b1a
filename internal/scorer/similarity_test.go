package scorer

import (
	"context"
	"math"
	"testing"

	"github.com/stellarlinkco/openeval/internal/testcase"
)

type fakeEmbedder struct {
	vectors map[string][]float64
	tokens  int
}

func (f *fakeEmbedder) Embed(ctx context.Context, model, text string) ([]float64, int, error) {
	v, ok := f.vectors[text]
	if !ok {
		v = []float64{0, 0, 1}
	}
	return v, f.tokens, nil
}

func TestSimilarity(t *testing.T) {
	t.Parallel()

	emb := &fakeEmbedder{
		vectors: map[string][]float64{
			"identical": {1, 0, 0},
			"close":     {1, 0.2, 0},
			"opposite":  {-1, 0, 0},
		},
		tokens: 7,
	}

	{
		res, err := Similarity{Embedder: emb}.Score(context.Background(), &testcase.TestCase{
			Input: "q", ActualOutput: "identical", ExpectedOutput: "identical",
		})
		if err != nil {
			t.Fatalf("Score: %v", err)
		}
		if math.Abs(res.Value-1.0) > 1e-9 {
			t.Fatalf("identical: got value=%v", res.Value)
		}
		if !res.Passed {
			t.Fatalf("identical should pass")
		}
		if res.TokenUsage != 14 {
			t.Fatalf("token usage: got %d", res.TokenUsage)
		}
	}
	{
		res, err := Similarity{Embedder: emb}.Score(context.Background(), &testcase.TestCase{
			Input: "q", ActualOutput: "close", ExpectedOutput: "identical",
		})
		if err != nil {
			t.Fatalf("Score: %v", err)
		}
		if res.Value <= 0.9 || res.Value >= 1.0 {
			t.Fatalf("close: got value=%v", res.Value)
		}
	}
	{
		// Negative similarity clamps to zero.
		res, err := Similarity{Embedder: emb}.Score(context.Background(), &testcase.TestCase{
			Input: "q", ActualOutput: "opposite", ExpectedOutput: "identical",
		})
		if err != nil {
			t.Fatalf("Score: %v", err)
		}
		if res.Value != 0.0 {
			t.Fatalf("opposite: got value=%v", res.Value)
		}
	}
	{
		_, err := Similarity{Embedder: emb}.Score(context.Background(), &testcase.TestCase{Input: "q", ActualOutput: "x"})
		if err == nil {
			t.Fatalf("missing expected_output: expected error")
		}
	}
	{
		_, err := Similarity{}.Score(context.Background(), &testcase.TestCase{Input: "q", ActualOutput: "x", ExpectedOutput: "y"})
		if err == nil {
			t.Fatalf("nil embedder: expected error")
		}
	}
}

func TestCosineSimilarity(t *testing.T) {
	t.Parallel()

	if got := cosineSimilarity([]float64{1, 0}, []float64{0, 1}); got != 0 {
		t.Fatalf("orthogonal: got %v", got)
	}
	if got := cosineSimilarity([]float64{1, 0}, []float64{1, 0, 0}); got != 0 {
		t.Fatalf("length mismatch: got %v", got)
	}
	if got := cosineSimilarity([]float64{0, 0}, []float64{1, 0}); got != 0 {
		t.Fatalf("zero norm: got %v", got)
	}
}
