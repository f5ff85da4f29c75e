package proxy

import "net/http"

// ReadinessChecker reports whether the application can serve traffic.
type ReadinessChecker interface {
	IsReady() bool
}

type healthStatus struct {
	Status string `json:"status"`
}

// livenessHandler answers 200 for as long as the process can serve HTTP.
func livenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		writeJSON(r.Context(), w, healthStatus{Status: "ok"}, http.StatusOK)
	}
}

// readinessHandler answers 503 before startup completes and while shutting down.
func readinessHandler(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		if !checker.IsReady() {
			writeJSON(r.Context(), w, healthStatus{Status: "unavailable"}, http.StatusServiceUnavailable)
			return
		}
		writeJSON(r.Context(), w, healthStatus{Status: "ready"}, http.StatusOK)
	}
}
