package server

import (
	"bytes"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// sseKeepaliveInterval is how often keepalive comments are sent to
// prevent connection timeouts.
const sseKeepaliveInterval = 15 * time.Second

// sseEvent is a single record delivered to a dashboard stream.
type sseEvent struct {
	ID   uint64
	Data []byte // stored record JSON
}

// sseHub fans stored records out to connected dashboards. Only the latest
// record matters, so a slow client's pending event is replaced rather than
// queued behind.
type sseHub struct {
	mu      sync.RWMutex
	clients map[*sseClient]struct{}
	nextID  atomic.Uint64
}

type sseClient struct {
	ch chan *sseEvent
}

func newSSEHub() *sseHub {
	return &sseHub{clients: make(map[*sseClient]struct{})}
}

func (h *sseHub) broadcast(payload []byte) {
	evt := &sseEvent{ID: h.nextID.Add(1), Data: payload}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.offer(evt)
	}
}

// offer delivers evt, evicting an undelivered older event if the buffer is full.
func (c *sseClient) offer(evt *sseEvent) {
	for {
		select {
		case c.ch <- evt:
			return
		default:
		}
		select {
		case <-c.ch:
		default:
		}
	}
}

func (h *sseHub) subscribe() *sseClient {
	c := &sseClient{ch: make(chan *sseEvent, 1)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

func (h *sseHub) unsubscribe(c *sseClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

func (h *sseHub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// handleEffectStream handles GET /api/effect/stream. The current record is
// sent first, then every subsequent write.
func (s *RelayServer) handleEffectStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	st, err := s.store()
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	// Subscribe before reading so a write landing in between is not lost.
	client := s.sseHub.subscribe()
	defer s.sseHub.unsubscribe(client)

	ctx := r.Context()
	current, err := currentValue(ctx, st)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering.
	w.WriteHeader(http.StatusOK)

	writeSSEEvent(w, &sseEvent{Data: current})
	flusher.Flush()

	keepalive := time.NewTicker(sseKeepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-client.ch:
			writeSSEEvent(w, evt)
			flusher.Flush()
		case <-keepalive.C:
			fmt.Fprintf(w, ":keepalive\n\n")
			flusher.Flush()
		}
	}
}

// writeSSEEvent writes a single SSE event. The snapshot sent on connect has
// no ID.
func writeSSEEvent(w http.ResponseWriter, evt *sseEvent) {
	if evt.ID != 0 {
		fmt.Fprintf(w, "id:%d\n", evt.ID)
	}
	fmt.Fprintf(w, "event:effect\n")
	for _, line := range bytes.Split(evt.Data, []byte("\n")) {
		fmt.Fprintf(w, "data:%s\n", line)
	}
	fmt.Fprint(w, "\n")
}
