package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"sitescout-engine/internal/domain"
	"sitescout-engine/internal/export"
	"sitescout-engine/internal/store"
	"sitescout-engine/internal/urlutil"
)

type ExportHandler struct {
	DB *store.DB
}

func (h ExportHandler) get(id string) http.HandlerFunc {
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
		if job.Status != domain.StatusCompleted {
			WriteError(w, r, http.StatusBadRequest, "not_completed", "job is not completed")
			return
		}

		format := r.URL.Query().Get("format")
		if format == "" {
			format = "csv"
		}

		results, err := h.DB.ListURLResults(r.Context(), id, store.ListResultsOpts{})
		if err != nil {
			WriteError(w, r, http.StatusInternalServerError, "storage_error", err.Error())
			return
		}

		var (
			body        []byte
			contentType string
		)
		switch format {
		case "csv":
			body = export.CSV(results)
			contentType = "text/csv; charset=utf-8"
		case "json":
			body, err = export.JSON(results)
			contentType = "application/json"
		case "xlsx":
			body, err = export.XLSX(results)
			contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		default:
			WriteError(w, r, http.StatusBadRequest, "bad_format", "format must be csv, json or xlsx")
			return
		}
		if err != nil {
			WriteError(w, r, http.StatusInternalServerError, "export_error", err.Error())
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", exportFilename(job.TargetURL, format, time.Now())))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}
}

func exportFilename(targetURL, format string, now time.Time) string {
	base := strings.ReplaceAll(urlutil.ExtractDomain(targetURL), ".", "_")
	if base == "" {
		base = "site"
	}
	return fmt.Sprintf("sitemap-results_%s_%s.%s", base, now.Format("2006-01-02"), format)
}
