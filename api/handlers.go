package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stellarlinkco/openeval/internal/report"
	"github.com/stellarlinkco/openeval/internal/runner"
	"github.com/stellarlinkco/openeval/internal/store"
)

type compareRequest struct {
	Baseline  string `json:"baseline"`
	Candidate string `json:"candidate"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleListExperiments(c *gin.Context) {
	limit, err := parseLimitParam(c.Query("limit"), 50)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	list, err := s.store.ListExperiments(c.Request.Context(), limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	if list == nil {
		list = []*store.ExperimentSummary{}
	}
	c.JSON(http.StatusOK, gin.H{"experiments": list})
}

func (s *Server) handleGetExperiment(c *gin.Context) {
	exp, err := s.store.GetExperiment(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, exp)
}

func (s *Server) handleExperimentReport(c *gin.Context) {
	exp, err := s.store.GetExperiment(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := report.Render(c.Writer, exp); err != nil {
		respondError(c, http.StatusInternalServerError, err)
	}
}

func (s *Server) handleCompare(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Baseline) == "" || strings.TrimSpace(req.Candidate) == "" {
		respondError(c, http.StatusBadRequest, errors.New("api: baseline and candidate are required"))
		return
	}

	baseline, err := s.lookupExperiment(c, req.Baseline)
	if err != nil {
		return
	}
	candidate, err := s.lookupExperiment(c, req.Candidate)
	if err != nil {
		return
	}

	cmp, err := runner.Compare(baseline, candidate)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, cmp)
}

// lookupExperiment resolves a reference as an experiment id first, then as
// the latest run with that name. On failure it writes the error response and
// returns a non-nil error.
func (s *Server) lookupExperiment(c *gin.Context, ref string) (*runner.ExperimentResult, error) {
	ctx := c.Request.Context()

	exp, err := s.store.GetExperiment(ctx, ref)
	if err == nil {
		return exp, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusInternalServerError, err)
		return nil, err
	}

	exp, err = s.store.GetLatestByName(ctx, ref)
	if errors.Is(err, store.ErrNotFound) {
		err = fmt.Errorf("api: no experiment with id or name %q", ref)
		respondError(c, http.StatusNotFound, err)
		return nil, err
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return nil, err
	}
	return exp, nil
}

func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		c.Status(status)
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func parseLimitParam(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("api: invalid limit %q", raw)
	}
	return limit, nil
}
