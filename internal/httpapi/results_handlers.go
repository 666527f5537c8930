package httpapi

import (
	"errors"
	"net/http"

	"sitescout-engine/internal/domain"
	"sitescout-engine/internal/store"
)

type ResultsHandler struct {
	DB *store.DB
}

type resultStats struct {
	Total   int `json:"total"`
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
}

type resultsResp struct {
	Job     domain.Job         `json:"job"`
	Results []domain.URLResult `json:"results"`
	Stats   resultStats        `json:"stats"`
}

func (h ResultsHandler) list(id string) http.HandlerFunc {
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

		q := r.URL.Query()
		opts := store.ListResultsOpts{
			Source: q.Get("source"),
			Sort:   q.Get("sort"),
			Order:  q.Get("order"),
		}
		switch q.Get("valid") {
		case "true":
			t := true
			opts.Valid = &t
		case "false":
			f := false
			opts.Valid = &f
		}

		results, err := h.DB.ListURLResults(r.Context(), id, opts)
		if err != nil {
			WriteError(w, r, http.StatusInternalServerError, "storage_error", err.Error())
			return
		}
		if results == nil {
			results = []domain.URLResult{}
		}

		// stats always cover the whole job, not just the filtered view
		all := results
		if opts.Valid != nil || opts.Source != "" {
			all, err = h.DB.ListURLResults(r.Context(), id, store.ListResultsOpts{})
			if err != nil {
				WriteError(w, r, http.StatusInternalServerError, "storage_error", err.Error())
				return
			}
		}
		stats := resultStats{Total: len(all)}
		for _, res := range all {
			if res.Valid {
				stats.Valid++
			}
		}
		stats.Invalid = stats.Total - stats.Valid

		writeJSON(w, resultsResp{Job: job, Results: results, Stats: stats})
	}
}
