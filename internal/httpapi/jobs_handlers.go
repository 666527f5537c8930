package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"sitescout-engine/internal/analyze"
	"sitescout-engine/internal/domain"
	"sitescout-engine/internal/events"
	"sitescout-engine/internal/store"
	"sitescout-engine/internal/urlutil"
)

type JobsHandler struct {
	DB          *store.DB
	Hub         *events.Hub
	RunAnalysis func(ctx context.Context, jobID string) error
}

type createJobReq struct {
	TargetURL string `json:"targetUrl"`
	URL       string `json:"url"` // accepted as an alias
}

func (h JobsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createJobReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	raw := req.TargetURL
	if strings.TrimSpace(raw) == "" {
		raw = req.URL
	}

	seed, err := urlutil.ValidateSeed(raw)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_url", err.Error())
		return
	}

	job, err := h.DB.CreateJob(r.Context(), seed)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "storage_error", err.Error())
		return
	}

	h.Hub.Publish(events.JobCreated(job.ID, job.TargetURL))
	WriteJSON(w, http.StatusCreated, job)
}

func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	jobs, err := h.DB.ListJobs(r.Context(), limit)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "storage_error", err.Error())
		return
	}
	if jobs == nil {
		jobs = []domain.Job{}
	}
	writeJSON(w, jobs)
}

func (h JobsHandler) get(id string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, err := h.DB.GetJob(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, r, http.StatusNotFound, "not_found", "job not found")
			return
		}
		if err != nil {
			WriteError(w, r, http.StatusInternalServerError, "storage_error", err.Error())
			return
		}
		writeJSON(w, job)
	}
}

// analyze kicks off the pipeline in the background. The synchronous check
// gives a friendly 409; the storage-level pending guard settles any race
// this check cannot see.
func (h JobsHandler) analyze(id string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, err := h.DB.GetJob(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, r, http.StatusNotFound, "not_found", "job not found")
			return
		}
		if err != nil {
			WriteError(w, r, http.StatusInternalServerError, "storage_error", err.Error())
			return
		}
		if job.Status != domain.StatusPending {
			WriteError(w, r, http.StatusConflict, "already_started", "job is not pending")
			return
		}

		go func() {
			if err := h.RunAnalysis(context.Background(), id); err != nil && !errors.Is(err, analyze.ErrNotPending) {
				log.Printf("[httpapi] analysis job=%s: %v", id, err)
			}
		}()

		WriteJSON(w, http.StatusAccepted, map[string]any{
			"jobId":  id,
			"status": "started",
		})
	}
}
