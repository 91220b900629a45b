// Package api implements the HTTP API for the harvester service.
package api

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/newsharvest/internal/logger"
	"github.com/jonesrussell/newsharvest/internal/pipeline"
	"github.com/jonesrussell/newsharvest/internal/runs"
)

// PipelineFactory builds a pipeline whose progress lines go to emit. The
// service builds one pipeline per run so each run gets a fresh view of the
// store.
type PipelineFactory func(emit pipeline.LogSink) (*pipeline.Pipeline, error)

// Server holds the API dependencies.
type Server struct {
	log         logger.Interface
	registry    *runs.Registry
	newPipeline PipelineFactory
	storePath   string
}

// Params holds the parameters for creating an API server.
type Params struct {
	Logger      logger.Interface
	Registry    *runs.Registry
	NewPipeline PipelineFactory
	StorePath   string
}

// NewServer creates a new API server instance.
func NewServer(p Params) *Server {
	return &Server{
		log:         p.Logger,
		registry:    p.Registry,
		newPipeline: p.NewPipeline,
		storePath:   p.StorePath,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", s.handleHealth)

	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/harvest", s.handleHarvest)
		apiGroup.GET("/status", s.handleStatus)
		apiGroup.GET("/links", s.handleLinks)
	}

	return router
}

// runHarvest executes one pipeline run in the background and finishes the
// run handle with the report.
func (s *Server) runHarvest(run *runs.Run, req HarvestRequest) {
	ctx := context.Background()

	pl, err := s.newPipeline(run.Log)
	if err != nil {
		s.log.Error("pipeline construction failed", "run_id", run.ID(), "error", err)
		run.Log("Could not start the run: " + err.Error())
		s.registry.Finish(run, pipelineReportZero)
		return
	}

	var report = pipelineReportZero
	if req.ListingURL != "" {
		report = pl.HarvestListing(ctx, req.ListingURL)
	} else {
		report = pl.ProcessURLs(ctx, req.URLs)
	}

	s.log.Info("run finished",
		"run_id", run.ID(),
		"processed", report.Processed,
		"skipped", report.Skipped,
		"failed", report.Failed,
	)
	s.registry.Finish(run, report)
}
