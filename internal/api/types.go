package api

import "github.com/jonesrussell/newsharvest/internal/domain"

// HarvestRequest starts a run: either an explicit article URL list (direct
// mode) or one listing page URL (paginated mode).
type HarvestRequest struct {
	URLs       []string `json:"urls"`
	ListingURL string   `json:"listing_url"`
}

// StatusResponse reports the current or most recent run.
type StatusResponse struct {
	Running bool              `json:"running"`
	RunID   string            `json:"run_id,omitempty"`
	Status  string            `json:"status,omitempty"`
	Report  *domain.RunReport `json:"report,omitempty"`
	Logs    []string          `json:"logs"`
}

// LinksResponse is the link-extraction helper payload.
type LinksResponse struct {
	Links    []string `json:"links"`
	NextLink string   `json:"next_link,omitempty"`
}

// pipelineReportZero is the report recorded when a run could not start.
var pipelineReportZero = domain.RunReport{}

// statusLogLimit caps the number of log lines returned by the status
// endpoint.
const statusLogLimit = 50
