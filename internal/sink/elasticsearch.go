package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"

	"github.com/jonesrussell/newsharvest/internal/domain"
	"github.com/jonesrussell/newsharvest/internal/logger"
)

// DefaultIndexName is the chunk index used when none is configured.
const DefaultIndexName = "newsharvest_chunks"

// Chunk is one indexed slice of a document's text.
type Chunk struct {
	ID          string    `json:"id"`
	SourceURL   string    `json:"source_url"`
	Title       string    `json:"title"`
	Text        string    `json:"text"`
	ChunkIndex  int       `json:"chunk_index"`
	ExtractedAt time.Time `json:"extracted_at"`
}

// ElasticsearchParams configures the Elasticsearch sink.
type ElasticsearchParams struct {
	Addresses    []string
	Username     string
	Password     string
	APIKey       string
	IndexName    string
	ChunkSize    int
	ChunkOverlap int
	Logger       logger.Interface
}

// Elasticsearch chunks documents and indexes the chunks for the downstream
// embedding pipeline.
type Elasticsearch struct {
	client       *es.Client
	index        string
	chunkSize    int
	chunkOverlap int
	log          logger.Interface
}

// NewElasticsearch creates the Elasticsearch sink and verifies connectivity.
func NewElasticsearch(p ElasticsearchParams) (*Elasticsearch, error) {
	if p.IndexName == "" {
		p.IndexName = DefaultIndexName
	}
	if p.ChunkSize <= 0 {
		p.ChunkSize = DefaultChunkSize
	}
	if p.ChunkOverlap <= 0 {
		p.ChunkOverlap = DefaultChunkOverlap
	}
	if p.Logger == nil {
		p.Logger = logger.NewNoOp()
	}

	client, err := es.NewClient(es.Config{
		Addresses: p.Addresses,
		Username:  p.Username,
		Password:  p.Password,
		APIKey:    p.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	res, pingErr := client.Ping()
	if pingErr != nil {
		return nil, fmt.Errorf("ping elasticsearch: %w", pingErr)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("ping elasticsearch: %s", res.String())
	}

	return &Elasticsearch{
		client:       client,
		index:        p.IndexName,
		chunkSize:    p.ChunkSize,
		chunkOverlap: p.ChunkOverlap,
		log:          p.Logger,
	}, nil
}

// Ingest chunks each document and indexes the chunks. Documents are indexed
// independently; the first indexing error aborts the batch and is reported to
// the caller, who logs it. Already persisted documents are never affected.
func (s *Elasticsearch) Ingest(ctx context.Context, docs []domain.Document) error {
	if len(docs) == 0 {
		return nil
	}

	s.log.Info("preparing documents for ingestion", "count", len(docs), "index", s.index)

	total := 0
	for _, doc := range docs {
		chunks := SplitText(doc.Text, s.chunkSize, s.chunkOverlap)
		for i, text := range chunks {
			record := Chunk{
				ID:          uuid.NewString(),
				SourceURL:   doc.URL,
				Title:       doc.Title,
				Text:        text,
				ChunkIndex:  i,
				ExtractedAt: doc.ExtractedAt,
			}
			if err := s.indexChunk(ctx, record); err != nil {
				return fmt.Errorf("index chunk %d of %s: %w", i, doc.URL, err)
			}
			total++
		}
	}

	s.log.Info("ingestion complete", "documents", len(docs), "chunks", total)
	return nil
}

// indexChunk indexes a single chunk record.
func (s *Elasticsearch) indexChunk(ctx context.Context, record Chunk) error {
	payload, marshalErr := json.Marshal(record)
	if marshalErr != nil {
		return fmt.Errorf("marshal chunk: %w", marshalErr)
	}

	res, err := s.client.Index(
		s.index,
		bytes.NewReader(payload),
		s.client.Index.WithContext(ctx),
		s.client.Index.WithDocumentID(record.ID),
	)
	if err != nil {
		return fmt.Errorf("index request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index response: %s", res.String())
	}
	return nil
}
