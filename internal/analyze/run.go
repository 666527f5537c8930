// Package analyze drives one job through its stages: ask both guessers,
// merge their candidates, verify reachability, extract metadata, persist.
// Every run settles the job in a terminal status; only input errors
// (unknown job, duplicate start) surface to the caller.
package analyze

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"sitescout-engine/internal/domain"
	"sitescout-engine/internal/events"
	"sitescout-engine/internal/guess"
	"sitescout-engine/internal/merge"
	"sitescout-engine/internal/probe"
	"sitescout-engine/internal/urlutil"
)

// Stage-boundary progress checkpoints. Coarse on purpose: per-URL progress
// goes out over the event hub instead.
const (
	progressAnalyzing    = 20
	progressChecking     = 40
	progressFetchingMeta = 70
	progressCompleted    = 100
)

// ErrNotPending rejects a start for a job that already left pending.
var ErrNotPending = errors.New("job is not pending")

// Store is the slice of persistence a run needs.
type Store interface {
	GetJob(ctx context.Context, id string) (domain.Job, error)
	TransitionFromPending(ctx context.Context, id string, status domain.JobStatus, progress int, errMsg string) (bool, error)
	UpdateStatus(ctx context.Context, id string, status domain.JobStatus, progress int, errMsg string) error
	SetURLCounts(ctx context.Context, id string, total, checked int) error
	InsertURLResults(ctx context.Context, jobID string, results []domain.URLResult) error
}

type Checker interface {
	CheckAll(ctx context.Context, urls []string, onProgress probe.ProgressFunc) []domain.CheckResult
}

type Fetcher interface {
	FetchAll(ctx context.Context, urls []string, onProgress probe.ProgressFunc) map[string]domain.PageMeta
}

type Runner struct {
	Store   Store
	Gemini  guess.Guesser // nil when disabled
	GPT     guess.Guesser // nil when disabled
	Checker Checker
	Fetcher Fetcher
	Hub     *events.Hub // optional
}

// Run executes the whole pipeline for one pending job. The pending-only
// guard lives in the store's conditional update, so two concurrent starts
// cannot both get past it.
func (r *Runner) Run(ctx context.Context, jobID string) (err error) {
	job, err := r.Store.GetJob(ctx, jobID)
	if err != nil {
		return err
	}

	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[analyze] job=%s panic: %v", jobID, rec)
			r.fail(ctx, jobID, progressCompleted, "unexpected error during analysis")
			err = fmt.Errorf("analyze job %s: panic: %v", jobID, rec)
		}
	}()

	baseDomain := urlutil.ExtractDomain(job.TargetURL)
	if baseDomain == "" {
		ok, terr := r.Store.TransitionFromPending(ctx, jobID, domain.StatusFailed, 0, "target url has no extractable domain")
		if terr != nil {
			return terr
		}
		if !ok {
			return ErrNotPending
		}
		r.publishStatus(jobID, domain.StatusFailed, 0)
		log.Printf("[analyze] job=%s rejected: bad target url %q", jobID, job.TargetURL)
		return nil
	}

	ok, err := r.Store.TransitionFromPending(ctx, jobID, domain.StatusAnalyzing, progressAnalyzing, "")
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotPending
	}
	r.publishStatus(jobID, domain.StatusAnalyzing, progressAnalyzing)

	geminiRes, gptRes := r.runGuessers(ctx, job.TargetURL)

	// "nothing discoverable" is a valid outcome, not a failure
	if len(geminiRes.URLs) == 0 && len(gptRes.URLs) == 0 {
		if err := r.step(ctx, jobID, domain.StatusCompleted, progressCompleted); err != nil {
			return err
		}
		log.Printf("[analyze] job=%s completed with no candidates", jobID)
		return nil
	}

	merged := merge.URLs(geminiRes.URLs, gptRes.URLs, nil, baseDomain)
	_ = r.Store.SetURLCounts(ctx, jobID, len(merged), 0)

	if err := r.step(ctx, jobID, domain.StatusChecking, progressChecking); err != nil {
		return err
	}

	urls := make([]string, 0, len(merged))
	for _, m := range merged {
		urls = append(urls, m.URL)
	}
	checks := r.Checker.CheckAll(ctx, urls, r.progressFunc(jobID, "checking"))

	verdictByURL := make(map[string]domain.CheckResult, len(checks))
	validURLs := make([]string, 0, len(checks))
	for _, c := range checks {
		verdictByURL[c.URL] = c
		if c.Valid {
			validURLs = append(validURLs, c.URL)
		}
	}
	_ = r.Store.SetURLCounts(ctx, jobID, len(merged), len(checks))

	if err := r.step(ctx, jobID, domain.StatusFetchingMeta, progressFetchingMeta); err != nil {
		return err
	}
	metaByURL := r.Fetcher.FetchAll(ctx, validURLs, r.progressFunc(jobID, "fetching_meta"))

	results := make([]domain.URLResult, 0, len(merged))
	for _, m := range merged {
		verdict := verdictByURL[m.URL]
		pageMeta := metaByURL[m.URL]
		results = append(results, domain.URLResult{
			JobID:        jobID,
			URL:          m.URL,
			Title:        pageMeta.Title,
			Description:  pageMeta.Description,
			StatusCode:   verdict.StatusCode,
			Valid:        verdict.Valid,
			Source:       merge.PrimarySource(m.Sources),
			ErrorMessage: verdict.ErrorMessage,
		})
	}

	if err := r.Store.InsertURLResults(ctx, jobID, results); err != nil {
		log.Printf("[analyze] job=%s result write failed: %v", jobID, err)
		r.fail(ctx, jobID, progressFetchingMeta, "failed to save results")
		return fmt.Errorf("analyze job %s: %w", jobID, err)
	}

	if err := r.step(ctx, jobID, domain.StatusCompleted, progressCompleted); err != nil {
		return err
	}
	log.Printf("[analyze] job=%s completed urls=%d valid=%d", jobID, len(merged), len(validURLs))
	return nil
}

// runGuessers asks both providers concurrently. A failed guesser is an
// empty contribution, never a job failure.
func (r *Runner) runGuessers(ctx context.Context, targetURL string) (geminiRes, gptRes guess.Result) {
	var g errgroup.Group

	launch := func(gr guess.Guesser, out *guess.Result) {
		if gr == nil {
			return
		}
		g.Go(func() error {
			res, err := gr.Analyze(ctx, targetURL)
			if err != nil {
				log.Printf("[guess:%s] error: %v", gr.Name(), err)
				return nil // best-effort: don't cancel the sibling
			}
			log.Printf("[guess:%s] urls=%d confidence=%.2f", gr.Name(), len(res.URLs), res.Confidence)
			*out = res
			return nil
		})
	}

	launch(r.Gemini, &geminiRes)
	launch(r.GPT, &gptRes)
	_ = g.Wait()
	return geminiRes, gptRes
}

// step persists a stage transition; a write failure is fatal to the job.
func (r *Runner) step(ctx context.Context, jobID string, status domain.JobStatus, progress int) error {
	if err := r.Store.UpdateStatus(ctx, jobID, status, progress, ""); err != nil {
		log.Printf("[analyze] job=%s state write failed: %v", jobID, err)
		r.fail(ctx, jobID, progress, "failed to save job state")
		return fmt.Errorf("analyze job %s: %w", jobID, err)
	}
	r.publishStatus(jobID, status, progress)
	return nil
}

// fail is best-effort: the job may be unreachable if storage is down.
func (r *Runner) fail(ctx context.Context, jobID string, progress int, msg string) {
	if err := r.Store.UpdateStatus(ctx, jobID, domain.StatusFailed, progress, msg); err != nil {
		log.Printf("[analyze] job=%s could not mark failed: %v", jobID, err)
		return
	}
	r.publishStatus(jobID, domain.StatusFailed, progress)
}

func (r *Runner) publishStatus(jobID string, status domain.JobStatus, progress int) {
	if r.Hub != nil {
		r.Hub.Publish(events.JobStatus(jobID, status, progress))
	}
}

func (r *Runner) progressFunc(jobID, stage string) probe.ProgressFunc {
	if r.Hub == nil {
		return nil
	}
	return func(done, total int) {
		r.Hub.Publish(events.JobProgress(jobID, stage, done, total))
	}
}
