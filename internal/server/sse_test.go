package server

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alfredjeanlab/wledrelay/internal/kv"
	"github.com/alfredjeanlab/wledrelay/internal/model"
)

func TestSSEHub_BroadcastAndReceive(t *testing.T) {
	hub := newSSEHub()

	client := hub.subscribe()
	defer hub.unsubscribe(client)

	hub.broadcast([]byte(`{"effect":"fire","updated_at":"t"}`))

	select {
	case evt := <-client.ch:
		if string(evt.Data) != `{"effect":"fire","updated_at":"t"}` {
			t.Fatalf("unexpected data %q", evt.Data)
		}
		if evt.ID != 1 {
			t.Fatalf("expected id=1, got %d", evt.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestSSEHub_SlowClientKeepsLatest(t *testing.T) {
	hub := newSSEHub()

	client := hub.subscribe()
	defer hub.unsubscribe(client)

	hub.broadcast([]byte(`"one"`))
	hub.broadcast([]byte(`"two"`))
	hub.broadcast([]byte(`"three"`))

	select {
	case evt := <-client.ch:
		if string(evt.Data) != `"three"` || evt.ID != 3 {
			t.Fatalf("expected latest event (id 3), got id=%d data=%s", evt.ID, evt.Data)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}

	select {
	case evt := <-client.ch:
		t.Fatalf("expected no queued events, got %s", evt.Data)
	default:
	}
}

func TestSSEHub_Unsubscribe(t *testing.T) {
	hub := newSSEHub()

	a := hub.subscribe()
	b := hub.subscribe()
	if hub.clientCount() != 2 {
		t.Fatalf("expected 2 clients, got %d", hub.clientCount())
	}

	hub.unsubscribe(a)
	if hub.clientCount() != 1 {
		t.Fatalf("expected 1 client, got %d", hub.clientCount())
	}

	hub.broadcast([]byte(`"x"`))
	select {
	case <-a.ch:
		t.Fatal("unsubscribed client received an event")
	default:
	}
	select {
	case <-b.ch:
	case <-time.After(time.Second):
		t.Fatal("subscribed client missed the event")
	}
	hub.unsubscribe(b)
}

func TestSSEEventFormat(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSSEEvent(rec, &sseEvent{ID: 7, Data: []byte("{\n\"effect\":\"x\"}")})

	want := "id:7\nevent:effect\ndata:{\ndata:\"effect\":\"x\"}\n\n"
	if got := rec.Body.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	rec = httptest.NewRecorder()
	writeSSEEvent(rec, &sseEvent{Data: model.EmptyRecordJSON})
	if got := rec.Body.String(); strings.Contains(got, "id:") {
		t.Fatalf("snapshot event should carry no id, got %q", got)
	}
}

// sseFrame is one parsed event from a stream.
type sseFrame struct {
	id    string
	event string
	data  string
}

// readSSEFrame reads the next event from r, skipping comment lines.
func readSSEFrame(t *testing.T, r *bufio.Reader) sseFrame {
	t.Helper()
	var f sseFrame
	var data []string
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read stream: %v", err)
		}
		line = strings.TrimSuffix(line, "\n")
		switch {
		case line == "":
			if f.event == "" && len(data) == 0 {
				continue
			}
			f.data = strings.Join(data, "\n")
			return f
		case strings.HasPrefix(line, ":"):
		case strings.HasPrefix(line, "id:"):
			f.id = strings.TrimPrefix(line, "id:")
		case strings.HasPrefix(line, "event:"):
			f.event = strings.TrimPrefix(line, "event:")
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(line, "data:"))
		}
	}
}

// openStream connects to the effect stream and returns a reader over its body.
func openStream(t *testing.T, ctx context.Context, baseURL string) (*http.Response, *bufio.Reader) {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+EffectPath+"/stream", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp, bufio.NewReader(resp.Body)
}

func TestHandleEffectStream_SnapshotThenUpdates(t *testing.T) {
	s, _, _ := newTestServer(t)
	ts := httptest.NewServer(s.NewHTTPHandler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, r := openStream(t, ctx, ts.URL)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("expected Content-Type=text/event-stream, got %q", ct)
	}

	snap := readSSEFrame(t, r)
	if snap.event != "effect" || snap.data != string(model.EmptyRecordJSON) || snap.id != "" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	post, err := http.Post(ts.URL+EffectPath, "application/json",
		strings.NewReader(`{"effect":"rainbow","updated_at":"2024-01-01T00:00:00Z"}`))
	if err != nil {
		t.Fatal(err)
	}
	post.Body.Close()

	upd := readSSEFrame(t, r)
	if upd.event != "effect" || upd.id != "1" {
		t.Fatalf("unexpected update %+v", upd)
	}
	if upd.data != `{"effect":"rainbow","updated_at":"2024-01-01T00:00:00Z"}` {
		t.Fatalf("unexpected update data %s", upd.data)
	}
}

func TestHandleEffectStream_SnapshotReflectsStore(t *testing.T) {
	s, ms, _ := newTestServer(t)
	ms.values[model.CurrentEffectKey] = []byte(`{"effect":"candle","updated_at":"2024-05-05T05:05:05.000Z"}`)
	ts := httptest.NewServer(s.NewHTTPHandler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, r := openStream(t, ctx, ts.URL)
	snap := readSSEFrame(t, r)
	if snap.data != `{"effect":"candle","updated_at":"2024-05-05T05:05:05.000Z"}` {
		t.Fatalf("unexpected snapshot %s", snap.data)
	}
}

func TestHandleEffectStream_MissingBinding(t *testing.T) {
	s := NewRelayServer(kv.NewBindings(), testBinding, nil)
	ts := httptest.NewServer(s.NewHTTPHandler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + EffectPath + "/stream")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	if s.sseHub.clientCount() != 0 {
		t.Fatalf("expected no registered clients, got %d", s.sseHub.clientCount())
	}
}

func TestHandleEffectStream_ClientDisconnectUnsubscribes(t *testing.T) {
	s, _, _ := newTestServer(t)
	ts := httptest.NewServer(s.NewHTTPHandler())
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	_, r := openStream(t, ctx, ts.URL)
	readSSEFrame(t, r)
	if s.sseHub.clientCount() != 1 {
		t.Fatalf("expected 1 client, got %d", s.sseHub.clientCount())
	}
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for s.sseHub.clientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("client was not unsubscribed after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
