package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestPingHitsHealthEndpoint(t *testing.T) {
	var hits atomic.Int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method %q", r.Method)
		}
		if cc := r.Header.Get("Cache-Control"); cc != "no-cache" {
			t.Errorf("expected no-cache header, got %q", cc)
		}
		hits.Add(1)
	}))
	t.Cleanup(backend.Close)

	p := NewPinger(backend.URL, 0)
	p.Ping(t.Context())

	if hits.Load() != 1 {
		t.Errorf("expected 1 ping, got %d", hits.Load())
	}
}

func TestPingEmptyBaseURLIsNoop(t *testing.T) {
	p := NewPinger("", 0)
	p.Ping(t.Context()) // must not panic or block
}

func TestPingSwallowsErrors(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(backend.Close)

	p := NewPinger(backend.URL, 0)
	p.Ping(t.Context()) // logs and returns

	// Same for a dead backend.
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()
	p = NewPinger(dead.URL, 0)
	p.Ping(t.Context())
}

func TestRunPingsImmediatelyAndStopsOnCancel(t *testing.T) {
	var hits atomic.Int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	t.Cleanup(backend.Close)

	ctx, cancel := context.WithCancel(t.Context())
	p := NewPinger(backend.URL, time.Hour)

	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	// The first ping fires before the first tick.
	deadline := time.After(5 * time.Second)
	for hits.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("no ping observed")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}

func TestRunEmptyBaseURLReturns(t *testing.T) {
	p := NewPinger("", time.Millisecond)

	done := make(chan struct{})
	go func() {
		p.Run(t.Context())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run should return immediately without a base URL")
	}
}
