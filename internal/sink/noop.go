package sink

import (
	"context"

	"github.com/jonesrussell/newsharvest/internal/domain"
	"github.com/jonesrussell/newsharvest/internal/logger"
)

// Noop is an ingest sink that discards the batch. Used when ingestion is
// disabled; persistence is unaffected.
type Noop struct {
	log logger.Interface
}

// NewNoop creates a discarding sink.
func NewNoop(log logger.Interface) *Noop {
	if log == nil {
		log = logger.NewNoOp()
	}
	return &Noop{log: log}
}

// Ingest drops the batch.
func (s *Noop) Ingest(_ context.Context, docs []domain.Document) error {
	s.log.Debug("ingestion disabled, dropping batch", "count", len(docs))
	return nil
}
