package server

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/alfredjeanlab/wledrelay/internal/kv"
	"github.com/alfredjeanlab/wledrelay/internal/model"
)

// maxEffectBodyBytes bounds POST bodies; a record is a few dozen bytes.
const maxEffectBodyBytes = 64 << 10

// handleEffect handles /api/effect for every method.
func (s *RelayServer) handleEffect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET, POST")
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusMethodNotAllowed)
		_, _ = io.WriteString(w, "Method not allowed")
		return
	}

	st, err := s.store()
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	if r.Method == http.MethodPost {
		s.handleSetEffect(w, r, st)
	} else {
		s.handleGetEffect(w, r, st)
	}
}

// handleSetEffect handles POST /api/effect from the controller.
func (s *RelayServer) handleSetEffect(w http.ResponseWriter, r *http.Request, st kv.Store) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxEffectBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeFailure(w, r, inputError("request body too large"))
			return
		}
		writeFailure(w, r, inputError("Invalid JSON"))
		return
	}

	rec, err := model.ParseEffectInput(body, s.now())
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	payload, err := rec.Marshal()
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	ctx := r.Context()
	if err := st.Put(ctx, model.CurrentEffectKey, payload); err != nil {
		writeFailure(w, r, &storageError{op: "put", err: err})
		return
	}

	s.publishUpdate(ctx, rec, payload)

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleGetEffect handles GET /api/effect from the dashboard. The stored
// bytes are passed through unmodified.
func (s *RelayServer) handleGetEffect(w http.ResponseWriter, r *http.Request, st kv.Store) {
	value, err := currentValue(r.Context(), st)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeRawJSON(w, http.StatusOK, value)
}

// currentValue returns the stored record, or the empty record when nothing
// has been written yet.
func currentValue(ctx context.Context, st kv.Store) ([]byte, error) {
	value, err := st.Get(ctx, model.CurrentEffectKey)
	if errors.Is(err, kv.ErrNotFound) || (err == nil && len(value) == 0) {
		return model.EmptyRecordJSON, nil
	}
	if err != nil {
		return nil, &storageError{op: "get", err: err}
	}
	return value, nil
}
