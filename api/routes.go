package api

import (
	"errors"
	"os"
	"strings"
)

func (s *Server) registerRoutes() error {
	if s == nil || s.router == nil {
		return nil
	}

	api := s.router.Group("/api")
	apiKey := strings.TrimSpace(os.Getenv("OPENEVAL_API_KEY"))
	if apiKey != "" {
		api.Use(apiKeyAuthMiddleware(apiKey))
	} else if strings.EqualFold(strings.TrimSpace(os.Getenv("OPENEVAL_DISABLE_AUTH")), "true") {
		// Explicitly allow unauthenticated access.
	} else {
		return errors.New("api: missing auth configuration: set OPENEVAL_API_KEY or set OPENEVAL_DISABLE_AUTH=true")
	}

	api.GET("/health", s.handleHealth)

	api.GET("/experiments", s.handleListExperiments)
	api.GET("/experiments/:id", s.handleGetExperiment)
	api.GET("/experiments/:id/report", s.handleExperimentReport)

	api.POST("/compare", s.handleCompare)

	return nil
}
