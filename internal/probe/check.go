package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"sitescout-engine/internal/domain"
)

const (
	DefaultCheckConcurrency = 5
	DefaultTimeout          = 10 * time.Second
	defaultUserAgent        = "SiteScout/1.0 (+local)"
)

// Checker verifies URL reachability with one HEAD request per URL.
// Redirects are followed; a 2xx final response counts as valid.
type Checker struct {
	hc          *http.Client
	limiter     *HostLimiter
	userAgent   string
	timeout     time.Duration
	concurrency int
}

type CheckerConfig struct {
	Concurrency int
	Timeout     time.Duration
	UserAgent   string
	Limiter     *HostLimiter
}

func NewChecker(cfg CheckerConfig) *Checker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultCheckConcurrency
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	return &Checker{
		hc:          &http.Client{},
		limiter:     cfg.Limiter,
		userAgent:   cfg.UserAgent,
		timeout:     cfg.Timeout,
		concurrency: cfg.Concurrency,
	}
}

// CheckAll probes every URL and returns one verdict per distinct input,
// completion order not guaranteed.
func (c *Checker) CheckAll(ctx context.Context, urls []string, onProgress ProgressFunc) []domain.CheckResult {
	return run(ctx, urls, c.concurrency, c.checkOne, onProgress)
}

func (c *Checker) checkOne(ctx context.Context, rawURL string) domain.CheckResult {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.WaitURL(ctx, rawURL); err != nil {
			return failedCheck(rawURL, ctx, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return domain.CheckResult{URL: rawURL, ErrorMessage: "invalid url: " + err.Error()}
	}
	req.Header.Set("User-Agent", c.userAgent)

	res, err := c.hc.Do(req)
	if err != nil {
		return failedCheck(rawURL, ctx, err)
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)

	valid := res.StatusCode >= 200 && res.StatusCode < 300
	msg := ""
	if !valid {
		msg = fmt.Sprintf("HTTP %d", res.StatusCode)
	}
	return domain.CheckResult{
		URL:          rawURL,
		StatusCode:   res.StatusCode,
		Valid:        valid,
		ErrorMessage: msg,
	}
}

// failedCheck maps a transport-level failure to the 0-status verdict,
// folding timeouts into a stable message.
func failedCheck(rawURL string, ctx context.Context, err error) domain.CheckResult {
	msg := err.Error()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		msg = "request timeout"
	}
	return domain.CheckResult{URL: rawURL, StatusCode: 0, Valid: false, ErrorMessage: msg}
}
