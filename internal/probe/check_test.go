package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitescout-engine/internal/domain"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/moved", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ok", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func verdictFor(t *testing.T, results []domain.CheckResult, url string) domain.CheckResult {
	t.Helper()
	for _, r := range results {
		if r.URL == url {
			return r
		}
	}
	t.Fatalf("no verdict for %s", url)
	return domain.CheckResult{}
}

func TestCheckAllVerdicts(t *testing.T) {
	srv := newTestServer(t)
	c := NewChecker(CheckerConfig{Concurrency: 2})

	urls := []string{srv.URL + "/ok", srv.URL + "/missing", srv.URL + "/moved"}
	results := c.CheckAll(context.Background(), urls, nil)
	require.Len(t, results, 3)

	ok := verdictFor(t, results, srv.URL+"/ok")
	assert.True(t, ok.Valid)
	assert.Equal(t, http.StatusOK, ok.StatusCode)
	assert.Empty(t, ok.ErrorMessage)

	missing := verdictFor(t, results, srv.URL+"/missing")
	assert.False(t, missing.Valid)
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
	assert.Equal(t, "HTTP 404", missing.ErrorMessage)

	// redirects are followed transparently
	moved := verdictFor(t, results, srv.URL+"/moved")
	assert.True(t, moved.Valid)
	assert.Equal(t, http.StatusOK, moved.StatusCode)
}

func TestCheckAllTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead := srv.URL
	srv.Close()

	c := NewChecker(CheckerConfig{})
	results := c.CheckAll(context.Background(), []string{dead + "/x"}, nil)
	require.Len(t, results, 1)
	assert.False(t, results[0].Valid)
	assert.Equal(t, 0, results[0].StatusCode)
	assert.NotEmpty(t, results[0].ErrorMessage)
}

func TestCheckAllTimeoutDoesNotAbortBatch(t *testing.T) {
	srv := newTestServer(t)
	c := NewChecker(CheckerConfig{Concurrency: 2, Timeout: 50 * time.Millisecond})

	urls := []string{srv.URL + "/slow", srv.URL + "/ok"}
	results := c.CheckAll(context.Background(), urls, nil)
	require.Len(t, results, 2)

	slow := verdictFor(t, results, srv.URL+"/slow")
	assert.False(t, slow.Valid)
	assert.Equal(t, 0, slow.StatusCode)
	assert.Equal(t, "request timeout", slow.ErrorMessage)

	ok := verdictFor(t, results, srv.URL+"/ok")
	assert.True(t, ok.Valid)
}

func TestFetchAll(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head>
			<title>Fetched Page</title>
			<meta name="description" content="A fetched description">
		</head></html>`))
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	f := NewFetcher(FetcherConfig{Concurrency: 2})
	got := f.FetchAll(context.Background(), []string{srv.URL + "/page", srv.URL + "/broken"}, nil)

	require.Len(t, got, 2)
	assert.Equal(t, "Fetched Page", got[srv.URL+"/page"].Title)
	assert.Equal(t, "A fetched description", got[srv.URL+"/page"].Description)

	// failures degrade to an empty record, never an error
	assert.Equal(t, domain.PageMeta{}, got[srv.URL+"/broken"])
}
