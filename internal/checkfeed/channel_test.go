package checkfeed

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// wsServer upgrades connections under /check/ and hands them to fn. It also
// counts every dial, accepted or refused.
func wsServer(t *testing.T, dials *int32, fn func(*websocket.Conn, *http.Request)) (*httptest.Server, string) {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(dials, 1)
		if fn == nil {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		fn(conn, r)
	}))
	t.Cleanup(srv.Close)
	return srv, "ws" + strings.TrimPrefix(srv.URL, "http")
}

// stateRecorder collects connection state transitions.
type stateRecorder struct {
	mu     sync.Mutex
	states []ConnState
	ch     chan ConnState
}

func newStateRecorder() *stateRecorder {
	return &stateRecorder{ch: make(chan ConnState, 32)}
}

func (r *stateRecorder) record(s ConnState) {
	r.mu.Lock()
	r.states = append(r.states, s)
	r.mu.Unlock()
	r.ch <- s
}

func (r *stateRecorder) snapshot() []ConnState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ConnState(nil), r.states...)
}

func (r *stateRecorder) waitFor(t *testing.T, want ConnState) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case s := <-r.ch:
			if s == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for state %s", want)
		}
	}
}

func TestChannelDeliversUpdatesAndDropsMalformed(t *testing.T) {
	var dials int32
	_, wsURL := wsServer(t, &dials, func(conn *websocket.Conn, r *http.Request) {
		defer conn.Close()
		conn.WriteMessage(websocket.TextMessage, []byte(`this is not json`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"progress":40,"current_stage":"比对中"}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"status":"completed","progress":100,"result_id":"r1"}`))
		// Hold the connection so the client, not a server close, ends it.
		time.Sleep(200 * time.Millisecond)
	})

	updates := make(chan StatusUpdate, 16)
	rec := newStateRecorder()
	ch := NewChannel(wsURL, "tk1", "tok", WithReconnectPolicy(1, 10*time.Millisecond))
	ch.Start(func(u StatusUpdate) { updates <- u }, rec.record)
	defer ch.Close()

	rec.waitFor(t, StateOpen)

	first := <-updates
	if first.Progress == nil || *first.Progress != 40 {
		t.Errorf("first update progress = %v, want 40 (malformed frame must be dropped, not forwarded)", first.Progress)
	}
	second := <-updates
	if second.ResultID == nil || *second.ResultID != "r1" {
		t.Errorf("second update result id = %v, want r1", second.ResultID)
	}
}

func TestChannelCarriesTokenAndTaskPath(t *testing.T) {
	var dials int32
	gotPath := make(chan string, 1)
	gotToken := make(chan string, 1)
	_, wsURL := wsServer(t, &dials, func(conn *websocket.Conn, r *http.Request) {
		gotPath <- r.URL.Path
		gotToken <- r.URL.Query().Get("token")
		conn.Close()
	})

	rec := newStateRecorder()
	ch := NewChannel(wsURL, "tk42", "s3cret token", WithReconnectPolicy(0, 10*time.Millisecond))
	ch.Start(nil, rec.record)
	defer ch.Close()

	rec.waitFor(t, StateOpen)
	if p := <-gotPath; p != "/check/tk42" {
		t.Errorf("path = %q, want /check/tk42", p)
	}
	if tok := <-gotToken; tok != "s3cret token" {
		t.Errorf("token = %q, want s3cret token", tok)
	}
}

func TestReconnectStopsExactlyAtBound(t *testing.T) {
	var dials int32
	// nil handler: every dial is refused, so every attempt fails.
	_, wsURL := wsServer(t, &dials, nil)

	rec := newStateRecorder()
	ch := NewChannel(wsURL, "tk1", "tok", WithReconnectPolicy(5, 5*time.Millisecond))
	ch.Start(nil, rec.record)
	defer ch.Close()

	rec.waitFor(t, StateExhausted)

	// Give any stray timer a chance to fire, then verify it didn't.
	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&dials); got != 6 {
		t.Errorf("dials = %d, want 6 (1 initial + 5 reconnect attempts)", got)
	}
	if ch.Attempts() != 5 {
		t.Errorf("attempt counter = %d, want 5", ch.Attempts())
	}
	if ch.State() != StateExhausted {
		t.Errorf("state = %s, want exhausted", ch.State())
	}
}

func TestAttemptCounterResetsOnSuccessfulReconnect(t *testing.T) {
	var dials int32
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&dials, 1)
		if n <= 2 {
			http.Error(w, "not yet", http.StatusServiceUnavailable)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		// Keep the third connection alive.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	rec := newStateRecorder()
	ch := NewChannel(wsURL, "tk1", "tok", WithReconnectPolicy(5, 5*time.Millisecond))
	ch.Start(nil, rec.record)
	defer ch.Close()

	rec.waitFor(t, StateOpen)
	if ch.Attempts() != 0 {
		t.Errorf("attempt counter = %d after successful connect, want 0", ch.Attempts())
	}
}

func TestReconnectingIsObservedBeforeRetryOpens(t *testing.T) {
	var dials int32
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&dials, 1)
		if n == 1 {
			http.Error(w, "not yet", http.StatusServiceUnavailable)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	rec := newStateRecorder()
	// A near-zero interval makes the retry race the state notification;
	// the listener must still see reconnecting first.
	ch := NewChannel(wsURL, "tk1", "tok", WithReconnectPolicy(5, time.Nanosecond))
	ch.Start(nil, rec.record)
	defer ch.Close()

	rec.waitFor(t, StateOpen)

	states := rec.snapshot()
	reconnectingAt, openAt := -1, -1
	for i, s := range states {
		if s == StateReconnecting && reconnectingAt == -1 {
			reconnectingAt = i
		}
		if s == StateOpen && openAt == -1 {
			openAt = i
		}
	}
	if reconnectingAt == -1 {
		t.Fatalf("reconnecting never observed: %v", states)
	}
	if openAt != -1 && reconnectingAt > openAt {
		t.Errorf("states = %v, reconnecting must precede open", states)
	}
}

func TestCloseIsIdempotentAndCancelsReconnect(t *testing.T) {
	var dials int32
	_, wsURL := wsServer(t, &dials, nil)

	rec := newStateRecorder()
	ch := NewChannel(wsURL, "tk1", "tok", WithReconnectPolicy(5, time.Hour))
	ch.Start(nil, rec.record)

	rec.waitFor(t, StateReconnecting)
	before := atomic.LoadInt32(&dials)

	ch.Close()
	ch.Close() // safe from any state, any number of times

	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&dials); got != before {
		t.Errorf("dials after Close = %d, want %d (pending reconnect must be cancelled)", got, before)
	}
	if ch.State() != StateClosed {
		t.Errorf("state = %s, want closed", ch.State())
	}
}
