package server

import (
	"encoding/json"
	"net/http"
)

// EffectPath is the single resource the relay serves.
const EffectPath = "/api/effect"

// NewHTTPHandler returns an http.Handler with all routes registered and the
// standard middleware applied.
func (s *RelayServer) NewHTTPHandler() http.Handler {
	mux := http.NewServeMux()
	// Method dispatch for the effect route happens in the handler so that
	// unsupported verbs get the plain-text 405.
	mux.HandleFunc(EffectPath, s.handleEffect)
	mux.HandleFunc("GET "+EffectPath+"/stream", s.handleEffectStream)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return RecoveryMiddleware(RequestIDMiddleware(LoggingMiddleware(mux)))
}

// handleHealth handles GET /healthz.
func (s *RelayServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"kv_binding": s.bindingName,
		"kv_bound":   s.Bound(),
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeRawJSON writes already-encoded JSON unchanged.
func writeRawJSON(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
