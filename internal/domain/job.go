package domain

import "time"

type JobStatus string

const (
	StatusPending      JobStatus = "pending"
	StatusAnalyzing    JobStatus = "analyzing"
	StatusChecking     JobStatus = "checking"
	StatusFetchingMeta JobStatus = "fetching_meta"
	StatusCompleted    JobStatus = "completed"
	StatusFailed       JobStatus = "failed"
)

// Terminal reports whether no further transitions happen from s.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

type Job struct {
	ID           string    `json:"id"`
	TargetURL    string    `json:"targetUrl"`
	Status       JobStatus `json:"status"`
	Progress     int       `json:"progress"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
	TotalURLs    int       `json:"totalUrls"`
	CheckedURLs  int       `json:"checkedUrls"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
