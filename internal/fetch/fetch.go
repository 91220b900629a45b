// Package fetch performs single HTTP GET requests with typed failures.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultUserAgent identifies the harvester when no user agent is configured.
const DefaultUserAgent = "newsharvest/1.0 (+https://github.com/jonesrussell/newsharvest)"

// maxResponseBodyBytes limits the size of fetched page responses.
const maxResponseBodyBytes = 10 * 1024 * 1024 // 10 MB

// defaultTimeout bounds a single request when none is configured.
const defaultTimeout = 30 * time.Second

// Client fetches pages over HTTP. It performs exactly one GET per call; retry
// policy belongs to the caller.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// New creates a fetch client. Empty userAgent falls back to DefaultUserAgent;
// a non-positive timeout falls back to the default transport timeout.
func New(userAgent string, timeout time.Duration) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
	}
}

// UserAgent returns the identification header value sent with every request.
func (c *Client) UserAgent() string {
	return c.userAgent
}

// Get fetches rawURL and returns the response body. A transport failure
// yields a *NetworkError; any non-2xx response yields a *StatusError.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if reqErr != nil {
		return nil, &NetworkError{URL: rawURL, Err: fmt.Errorf("create request: %w", reqErr)}
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, doErr := c.httpClient.Do(req)
	if doErr != nil {
		return nil, &NetworkError{URL: rawURL, Err: doErr}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	limited := io.LimitReader(resp.Body, maxResponseBodyBytes)

	body, readErr := io.ReadAll(limited)
	if readErr != nil {
		return nil, &NetworkError{URL: rawURL, Err: fmt.Errorf("read response body: %w", readErr)}
	}

	return body, nil
}
