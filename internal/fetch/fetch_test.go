package fetch_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/newsharvest/internal/fetch"
)

func TestClient_Get(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer srv.Close()

	client := fetch.New("test-agent/1.0", 5*time.Second)

	body, err := client.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "<html><body>ok</body></html>", string(body))
}

func TestClient_SendsUserAgent(t *testing.T) {
	t.Parallel()

	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := fetch.New("test-agent/1.0", 5*time.Second)

	_, err := client.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "test-agent/1.0", gotAgent)
}

func TestClient_DefaultUserAgentFallback(t *testing.T) {
	t.Parallel()

	client := fetch.New("", 0)
	assert.Equal(t, fetch.DefaultUserAgent, client.UserAgent())
}

func TestClient_NonSuccessStatusIsStatusError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	client := fetch.New("test-agent/1.0", 5*time.Second)

	body, err := client.Get(context.Background(), srv.URL)
	assert.Nil(t, body)

	var statusErr *fetch.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, srv.URL, statusErr.URL)
}

func TestClient_UnreachableHostIsNetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	srv.Close()

	client := fetch.New("test-agent/1.0", time.Second)

	_, err := client.Get(context.Background(), srv.URL)

	var netErr *fetch.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, srv.URL, netErr.URL)
	assert.Error(t, errors.Unwrap(netErr))
}

func TestClient_ContextCancellation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	client := fetch.New("test-agent/1.0", 10*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Get(ctx, srv.URL)

	var netErr *fetch.NetworkError
	require.ErrorAs(t, err, &netErr)
}
