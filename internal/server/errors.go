package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/alfredjeanlab/wledrelay/internal/model"
)

// configError means the store binding is absent: the deployment is
// misconfigured, not the data.
type configError struct {
	binding string
}

func (e configError) Error() string { return "KV binding " + e.binding + " is missing" }

// storageError wraps a failed Get or Put. Its message is the underlying
// error string, which is returned to the caller for debugging.
type storageError struct {
	op  string
	err error
}

func (e *storageError) Error() string { return e.err.Error() }

func (e *storageError) Unwrap() error { return e.err }

// inputError indicates invalid user input outside of record validation.
// Transport layers map this to 400.
type inputError string

func (e inputError) Error() string { return string(e) }

// writeFailure maps a handler error onto its response. Validation problems
// are 400; configuration and storage problems are 500.
func writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve *model.ValidationError
		ie inputError
		ce configError
		se *storageError
	)
	reqID := RequestIDFrom(r.Context())
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Message)
	case errors.As(err, &ie):
		writeError(w, http.StatusBadRequest, ie.Error())
	case errors.As(err, &ce):
		slog.Error("kv binding missing", "binding", ce.binding, "request_id", reqID)
		writeError(w, http.StatusInternalServerError, ce.Error())
	case errors.As(err, &se):
		slog.Error("kv operation failed", "op", se.op, "request_id", reqID, "error", se.err)
		writeError(w, http.StatusInternalServerError, se.Error())
	default:
		slog.Error("request failed", "request_id", reqID, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
