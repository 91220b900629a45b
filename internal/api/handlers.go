package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/newsharvest/internal/runs"
)

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleHarvest handles POST /api/harvest. It claims the store path and runs
// the pipeline on a background goroutine; the response carries the run ID for
// status polling.
func (s *Server) handleHarvest(c *gin.Context) {
	var req HarvestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if len(req.URLs) == 0 && req.ListingURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provide urls or listing_url"})
		return
	}

	run, beginErr := s.registry.Begin(s.storePath)
	if beginErr != nil {
		if errors.Is(beginErr, runs.ErrRunActive) {
			c.JSON(http.StatusConflict, gin.H{"error": "a harvesting run is already in progress"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start run"})
		return
	}

	s.log.Info("run started", "run_id", run.ID(), "urls", len(req.URLs), "listing_url", req.ListingURL)
	go s.runHarvest(run, req)

	c.JSON(http.StatusAccepted, gin.H{
		"message": "harvesting run started",
		"run_id":  run.ID(),
	})
}

// handleStatus handles GET /api/status.
func (s *Server) handleStatus(c *gin.Context) {
	run, ok := s.registry.Current(s.storePath)
	if !ok {
		c.JSON(http.StatusOK, StatusResponse{Logs: []string{}})
		return
	}

	resp := StatusResponse{
		Running: run.Status() == runs.StatusRunning,
		RunID:   run.ID(),
		Status:  string(run.Status()),
		Logs:    tailLines(run.Lines(), statusLogLimit),
	}
	if report, done := run.Report(); done {
		resp.Report = &report
	}

	c.JSON(http.StatusOK, resp)
}

// handleLinks handles GET /api/links?url=... — the link-extraction helper for
// paginated sources.
func (s *Server) handleLinks(c *gin.Context) {
	listingURL := c.Query("url")
	if listingURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url query parameter is required"})
		return
	}

	pl, err := s.newPipeline(nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build pipeline"})
		return
	}

	links, nextLink, extractErr := pl.ExtractLinks(c.Request.Context(), listingURL)
	if extractErr != nil {
		s.log.Error("link extraction failed", "listing_url", listingURL, "error", extractErr)
		c.JSON(http.StatusInternalServerError, gin.H{"error": extractErr.Error()})
		return
	}

	if links == nil {
		links = []string{}
	}
	c.JSON(http.StatusOK, LinksResponse{Links: links, NextLink: nextLink})
}

// tailLines returns the last n lines.
func tailLines(lines []string, n int) []string {
	if len(lines) <= n {
		return lines
	}
	return lines[len(lines)-n:]
}
