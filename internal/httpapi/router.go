package httpapi

import (
	"net/http"
	"strings"
)

// NewMux returns the raw mux so main() can still wrap it in middleware.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	jh := JobsHandler{DB: d.DB, Hub: d.Hub, RunAnalysis: d.RunAnalysis}
	rh := ResultsHandler{DB: d.DB}
	xh := ExportHandler{DB: d.DB}

	mux.HandleFunc("/jobs", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:  jh.List,
		http.MethodPost: jh.Create,
	}))

	// /jobs/{id}, /jobs/{id}/analyze, /jobs/{id}/results, /jobs/{id}/export
	mux.HandleFunc("/jobs/", func(w http.ResponseWriter, r *http.Request) {
		id, action := splitJobPath(r.URL.Path)
		if id == "" {
			WriteError(w, r, http.StatusNotFound, "not_found", "job not found")
			return
		}
		switch action {
		case "":
			methodMux(map[string]http.HandlerFunc{
				http.MethodGet: jh.get(id),
			})(w, r)
		case "analyze":
			methodMux(map[string]http.HandlerFunc{
				http.MethodPost: jh.analyze(id),
			})(w, r)
		case "results":
			methodMux(map[string]http.HandlerFunc{
				http.MethodGet: rh.list(id),
			})(w, r)
		case "export":
			methodMux(map[string]http.HandlerFunc{
				http.MethodGet: xh.get(id),
			})(w, r)
		default:
			WriteError(w, r, http.StatusNotFound, "not_found", "unknown route")
		}
	})

	// Config (read-only view of the running snapshot)
	ch := ConfigHandler{CfgVal: d.CfgVal, UserCfgPath: d.UserCfgPath}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))

	// Secrets
	sh := SecretsHandler{}
	mux.HandleFunc("/api/secrets/guesser", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.SetGuesserKey,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	hh := HealthHandler{}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	return mux
}

// splitJobPath breaks "/jobs/{id}[/{action}]" into its parts.
func splitJobPath(path string) (id, action string) {
	rest := strings.TrimPrefix(path, "/jobs/")
	rest = strings.TrimSuffix(rest, "/")
	parts := strings.SplitN(rest, "/", 2)
	id = parts[0]
	if len(parts) == 2 {
		action = parts[1]
	}
	return id, action
}
