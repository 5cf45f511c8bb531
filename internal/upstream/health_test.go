package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type tickClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTickClock() *tickClock {
	return &tickClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *tickClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *tickClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestHealthGate_ProbesOncePerWindow(t *testing.T) {
	var probes atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		probes.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	clk := newTickClock()
	gate := NewHealthGate(30*time.Second, clk.Now)
	gate.Register("risk-api", srv.URL+"/health")

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if !gate.IsHealthy(ctx, "risk-api") {
			t.Fatal("expected healthy")
		}
	}
	if probes.Load() != 1 {
		t.Errorf("expected 1 probe within grace window, got %d", probes.Load())
	}

	clk.Advance(31 * time.Second)
	gate.IsHealthy(ctx, "risk-api")
	if probes.Load() != 2 {
		t.Errorf("expected re-probe after grace window, got %d probes", probes.Load())
	}
}

func TestHealthGate_NonSuccessIsUnhealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	gate := NewHealthGate(time.Minute, nil)
	gate.Register("risk-api", srv.URL+"/health")

	if gate.IsHealthy(context.Background(), "risk-api") {
		t.Error("expected 503 to read as unhealthy")
	}
}

func TestHealthGate_DownServerIsUnhealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	gate := NewHealthGate(time.Minute, nil)
	gate.Register("risk-api", srv.URL+"/health")

	if gate.IsHealthy(context.Background(), "risk-api") {
		t.Error("expected unreachable server to read as unhealthy")
	}
}

func TestHealthGate_ResetForcesReprobe(t *testing.T) {
	var probes atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		probes.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	gate := NewHealthGate(time.Hour, nil)
	gate.Register("risk-api", srv.URL+"/health")

	ctx := context.Background()
	gate.IsHealthy(ctx, "risk-api")
	gate.IsHealthy(ctx, "risk-api")
	if probes.Load() != 1 {
		t.Fatalf("expected 1 probe, got %d", probes.Load())
	}

	gate.Reset("risk-api")
	gate.IsHealthy(ctx, "risk-api")
	if probes.Load() != 2 {
		t.Errorf("expected re-probe after Reset, got %d probes", probes.Load())
	}
}

func TestHealthGate_UnknownServiceIsHealthy(t *testing.T) {
	gate := NewHealthGate(time.Minute, nil)
	if !gate.IsHealthy(context.Background(), "never-registered") {
		t.Error("unregistered services must not be gated off")
	}
}
