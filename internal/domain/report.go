package domain

// RunReport tallies the outcome of a single pipeline run. It carries counts
// only, never partial documents.
type RunReport struct {
	// Processed counts URLs that were fetched, extracted, and persisted.
	Processed int `json:"processed"`
	// Skipped counts URLs whose normalized form was already stored.
	Skipped int `json:"skipped"`
	// Failed counts URLs downgraded by a fetch error or empty extraction.
	Failed int `json:"failed"`
	// NextLink is the pagination continuation discovered by a paginated run,
	// empty for direct runs or when the listing had no next anchor.
	NextLink string `json:"next_link,omitempty"`
	// IngestFailed records that the sink rejected the batch. Persisted
	// documents are unaffected; ingestion is best-effort.
	IngestFailed bool `json:"ingest_failed,omitempty"`
}

// Total returns the number of URLs the run considered.
func (r RunReport) Total() int {
	return r.Processed + r.Skipped + r.Failed
}
