package domain

import "time"

// Source labels where a candidate URL came from. "merged" is synthetic:
// it never appears in MergedURL.Sources, only as a resolved primary source
// when both guessers proposed the same URL.
type Source string

const (
	SourceGemini  Source = "gemini"
	SourceGPT     Source = "gpt"
	SourceSitemap Source = "sitemap"
	SourceMerged  Source = "merged"
)

// MergedURL is one normalized candidate with every source that proposed it.
// Sources is never empty.
type MergedURL struct {
	URL     string
	Sources []Source
}

func (m MergedURL) HasSource(s Source) bool {
	for _, v := range m.Sources {
		if v == s {
			return true
		}
	}
	return false
}

// CheckResult is the verdict of one reachability probe. StatusCode 0 means
// the request never got a response (timeout, DNS, refused connection).
type CheckResult struct {
	URL          string
	StatusCode   int
	Valid        bool
	ErrorMessage string
}

// PageMeta holds extracted page metadata. Empty fields mean "not found".
type PageMeta struct {
	Title       string
	Description string
}

// URLResult is the persisted join of a merged URL, its probe verdict and
// any extracted metadata. Exactly one row per distinct URL per job.
type URLResult struct {
	ID           int64     `json:"id"`
	JobID        string    `json:"jobId"`
	URL          string    `json:"url"`
	Title        string    `json:"title,omitempty"`
	Description  string    `json:"description,omitempty"`
	StatusCode   int       `json:"statusCode"`
	Valid        bool      `json:"isValid"`
	Source       Source    `json:"source"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
