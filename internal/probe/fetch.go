package probe

import (
	"context"
	"io"
	"net/http"
	"time"

	"sitescout-engine/internal/domain"
	"sitescout-engine/internal/meta"
)

const (
	DefaultFetchConcurrency = 3

	// maxBodyBytes caps how much of a page the metadata fetch will read.
	maxBodyBytes = 2 << 20
)

// Fetcher downloads page content for URLs already known to be reachable and
// hands it to the metadata extractor. Any failure yields an empty record.
type Fetcher struct {
	hc          *http.Client
	limiter     *HostLimiter
	userAgent   string
	timeout     time.Duration
	concurrency int
}

type FetcherConfig struct {
	Concurrency int
	Timeout     time.Duration
	UserAgent   string
	Limiter     *HostLimiter
}

func NewFetcher(cfg FetcherConfig) *Fetcher {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultFetchConcurrency
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	return &Fetcher{
		hc:          &http.Client{},
		limiter:     cfg.Limiter,
		userAgent:   cfg.UserAgent,
		timeout:     cfg.Timeout,
		concurrency: cfg.Concurrency,
	}
}

type fetched struct {
	url  string
	meta domain.PageMeta
}

// FetchAll extracts metadata for every URL, keyed by URL. URLs that cannot
// be fetched still get an entry with empty fields.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string, onProgress ProgressFunc) map[string]domain.PageMeta {
	results := run(ctx, urls, f.concurrency, f.fetchOne, onProgress)

	out := make(map[string]domain.PageMeta, len(results))
	for _, r := range results {
		out[r.url] = r.meta
	}
	return out
}

func (f *Fetcher) fetchOne(ctx context.Context, rawURL string) fetched {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	if f.limiter != nil {
		if err := f.limiter.WaitURL(ctx, rawURL); err != nil {
			return fetched{url: rawURL}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fetched{url: rawURL}
	}
	req.Header.Set("User-Agent", f.userAgent)

	res, err := f.hc.Do(req)
	if err != nil {
		return fetched{url: rawURL}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, res.Body)
		return fetched{url: rawURL}
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return fetched{url: rawURL}
	}

	return fetched{url: rawURL, meta: meta.Extract(string(body))}
}
