package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stellarlinkco/openeval/internal/config"
	"github.com/stellarlinkco/openeval/internal/runner"
	"github.com/stellarlinkco/openeval/internal/store"
)

func newTestServer(t *testing.T) (*Server, store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("OPENEVAL_DISABLE_AUTH", "true")

	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	s, err := NewServer(config.Default(), st)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return s, st
}

func seedExperiment(t *testing.T, st store.Store, id, name string, mean float64) {
	t.Helper()
	exp := &runner.ExperimentResult{
		ID:        id,
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Summary: map[string]runner.ScorerSummary{
			"ExactMatch": {Mean: mean, Min: mean, Max: mean, PassRate: 1.0, Count: 1},
		},
		Results: []*runner.EvalResult{{TestCaseID: "tc-1", Input: "q", ActualOutput: "a"}},
	}
	if err := st.SaveExperiment(context.Background(), exp); err != nil {
		t.Fatalf("SaveExperiment: %v", err)
	}
}

func doRequest(s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)

	w := doRequest(s, http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("body: %s", w.Body.String())
	}
}

func TestListAndGetExperiments(t *testing.T) {
	s, st := newTestServer(t)
	seedExperiment(t, st, "exp-1", "baseline", 0.5)
	seedExperiment(t, st, "exp-2", "candidate", 0.8)

	w := doRequest(s, http.MethodGet, "/api/experiments", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status: %d", w.Code)
	}
	var listResp struct {
		Experiments []*store.ExperimentSummary `json:"experiments"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listResp.Experiments) != 2 {
		t.Fatalf("got %d experiments", len(listResp.Experiments))
	}

	w = doRequest(s, http.MethodGet, "/api/experiments/exp-1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status: %d", w.Code)
	}
	var exp runner.ExperimentResult
	if err := json.Unmarshal(w.Body.Bytes(), &exp); err != nil {
		t.Fatalf("decode experiment: %v", err)
	}
	if exp.Name != "baseline" {
		t.Fatalf("experiment name: %q", exp.Name)
	}

	w = doRequest(s, http.MethodGet, "/api/experiments/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing status: %d", w.Code)
	}

	w = doRequest(s, http.MethodGet, "/api/experiments?limit=bogus", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad limit status: %d", w.Code)
	}
}

func TestExperimentReport(t *testing.T) {
	s, st := newTestServer(t)
	seedExperiment(t, st, "exp-1", "baseline", 0.5)

	w := doRequest(s, http.MethodGet, "/api/experiments/exp-1/report", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type: %q", ct)
	}
	if !strings.Contains(w.Body.String(), "baseline") {
		t.Fatalf("report missing experiment name")
	}
}

func TestCompareEndpoint(t *testing.T) {
	s, st := newTestServer(t)
	seedExperiment(t, st, "exp-1", "baseline", 0.5)
	seedExperiment(t, st, "exp-2", "candidate", 0.8)

	body, _ := json.Marshal(compareRequest{Baseline: "baseline", Candidate: "candidate"})
	w := doRequest(s, http.MethodPost, "/api/compare", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d body: %s", w.Code, w.Body.String())
	}

	var cmp runner.Comparison
	if err := json.Unmarshal(w.Body.Bytes(), &cmp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	d := cmp.Scorers["ExactMatch"]
	if !d.Improved || d.Delta < 0.29 || d.Delta > 0.31 {
		t.Fatalf("delta: %+v", d)
	}

	body, _ = json.Marshal(compareRequest{Baseline: "baseline", Candidate: "missing"})
	w = doRequest(s, http.MethodPost, "/api/compare", body)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing candidate status: %d", w.Code)
	}

	w = doRequest(s, http.MethodPost, "/api/compare", []byte(`{"baseline": ""}`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty request status: %d", w.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("OPENEVAL_DISABLE_AUTH", "")
	t.Setenv("OPENEVAL_API_KEY", "secret")

	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer st.Close()

	s, err := NewServer(config.Default(), st)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	w := doRequest(s, http.MethodGet, "/api/experiments", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no key status: %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/experiments", nil)
	req.Header.Set("X-API-Key", "secret")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("with key status: %d", rec.Code)
	}
}

func TestNewServerWithoutAuthConfig(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("OPENEVAL_DISABLE_AUTH", "")
	t.Setenv("OPENEVAL_API_KEY", "")

	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "noauth.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer st.Close()

	if _, err := NewServer(config.Default(), st); err == nil {
		t.Fatalf("expected error without auth configuration")
	}
}
