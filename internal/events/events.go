package events

import (
	"encoding/json"
	"time"

	"sitescout-engine/internal/domain"
)

type Event struct {
	Type  string          `json:"type"`
	At    time.Time       `json:"at"`
	JobID string          `json:"jobId,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func makeEvent(typ, jobID string, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	b, _ := json.Marshal(Event{
		Type:  typ,
		At:    time.Now().UTC(),
		JobID: jobID,
		Data:  raw,
	})
	return string(b)
}

// Ping is the greeting sent to a fresh SSE subscriber.
func Ping() string {
	return makeEvent("ping", "", nil)
}

// JobCreated announces a freshly submitted job.
func JobCreated(jobID, targetURL string) string {
	return makeEvent("job_created", jobID, map[string]any{"targetUrl": targetURL})
}

// JobStatus announces a stage transition.
func JobStatus(jobID string, status domain.JobStatus, progress int) string {
	return makeEvent("job_status", jobID, map[string]any{
		"status":   status,
		"progress": progress,
	})
}

// JobProgress announces per-URL progress inside the probe stages.
func JobProgress(jobID, stage string, done, total int) string {
	return makeEvent("job_progress", jobID, map[string]any{
		"stage": stage,
		"done":  done,
		"total": total,
	})
}
