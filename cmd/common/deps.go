// Package common provides shared dependency construction for commands.
package common

import (
	"fmt"

	"github.com/jonesrussell/newsharvest/internal/config"
	"github.com/jonesrussell/newsharvest/internal/extract"
	"github.com/jonesrussell/newsharvest/internal/fetch"
	"github.com/jonesrussell/newsharvest/internal/logger"
	"github.com/jonesrussell/newsharvest/internal/pipeline"
	"github.com/jonesrussell/newsharvest/internal/sink"
	"github.com/jonesrussell/newsharvest/internal/store"
)

// Deps bundles the dependencies every command needs.
type Deps struct {
	Config *config.Config
	Logger logger.Interface
}

// New loads the configuration and builds the logger.
func New() (*Deps, error) {
	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		return nil, cfgErr
	}

	log, logErr := logger.New(&logger.Config{
		Level:       logger.Level(cfg.Logger.Level),
		Development: cfg.Logger.Development,
		Encoding:    cfg.Logger.Encoding,
	})
	if logErr != nil {
		return nil, fmt.Errorf("create logger: %w", logErr)
	}

	return &Deps{Config: cfg, Logger: log}, nil
}

// OpenStore opens the configured state file.
func (d *Deps) OpenStore() *store.Store {
	return store.Open(d.Config.Harvester.StorePath, d.Logger.WithComponent("store"))
}

// NewSink builds the ingest sink: Elasticsearch when enabled, a discarding
// sink otherwise.
func (d *Deps) NewSink() (pipeline.IngestSink, error) {
	esCfg := d.Config.Elasticsearch
	if !esCfg.Enabled {
		return sink.NewNoop(d.Logger.WithComponent("sink")), nil
	}

	esSink, err := sink.NewElasticsearch(sink.ElasticsearchParams{
		Addresses:    esCfg.Addresses,
		Username:     esCfg.Username,
		Password:     esCfg.Password,
		APIKey:       esCfg.APIKey,
		IndexName:    esCfg.IndexName,
		ChunkSize:    esCfg.ChunkSize,
		ChunkOverlap: esCfg.ChunkOverlap,
		Logger:       d.Logger.WithComponent("sink"),
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch sink: %w", err)
	}
	return esSink, nil
}

// NewPipeline builds a pipeline over the given store, emitting progress lines
// to emit.
func (d *Deps) NewPipeline(st *store.Store, emit pipeline.LogSink) (*pipeline.Pipeline, error) {
	hCfg := d.Config.Harvester

	ingest, sinkErr := d.NewSink()
	if sinkErr != nil {
		return nil, sinkErr
	}

	classifier := extract.NewDefaultClassifier(
		hCfg.ArticleMarkers,
		hCfg.ShallowPathDomain,
		hCfg.ExcludedSegments,
	)

	return pipeline.New(pipeline.Params{
		Fetcher: fetch.New(hCfg.UserAgent, hCfg.RequestTimeout),
		Links:   extract.NewLinkExtractor(classifier, hCfg.AllowedDomains, hCfg.TopicKeywords),
		Content: extract.NewContentExtractor(),
		Store:   st,
		Sink:    ingest,
		Logger:  d.Logger.WithComponent("pipeline"),
		Emit:    emit,
	}), nil
}
