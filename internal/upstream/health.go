package upstream

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Priyanshugoyal2301/janrakshak-evac/internal/cache"
)

// DefaultProbeTimeout bounds a liveness probe so a dead upstream
// cannot eat the request's full timeout budget.
const DefaultProbeTimeout = 3 * time.Second

type healthState struct {
	healthy   bool
	checkedAt time.Time
}

// HealthGate tracks liveness per external service. A probe result is
// reused without re-probing for the grace window; any probe failure
// (timeout, network error, non-2xx) counts as unhealthy.
type HealthGate struct {
	mu       sync.Mutex
	services map[string]string // service id -> health check URL
	state    map[string]healthState

	client       *http.Client
	probeTimeout time.Duration
	grace        time.Duration
	now          cache.Clock
}

func NewHealthGate(grace time.Duration, clock cache.Clock) *HealthGate {
	if clock == nil {
		clock = time.Now
	}
	return &HealthGate{
		services:     make(map[string]string),
		state:        make(map[string]healthState),
		client:       &http.Client{Timeout: DefaultProbeTimeout},
		probeTimeout: DefaultProbeTimeout,
		grace:        grace,
		now:          clock,
	}
}

// Register maps a service id to the URL probed for liveness.
func (g *HealthGate) Register(serviceID, healthURL string) {
	g.mu.Lock()
	g.services[serviceID] = healthURL
	g.mu.Unlock()
}

// IsHealthy returns the cached result if fresh, otherwise probes the
// service and caches the outcome. Unknown services are healthy so an
// unregistered upstream is never gated off.
func (g *HealthGate) IsHealthy(ctx context.Context, serviceID string) bool {
	g.mu.Lock()
	url, registered := g.services[serviceID]
	st, seen := g.state[serviceID]
	fresh := seen && g.now().Sub(st.checkedAt) < g.grace
	g.mu.Unlock()

	if !registered {
		return true
	}
	if fresh {
		return st.healthy
	}

	healthy := g.probe(ctx, url)

	g.mu.Lock()
	g.state[serviceID] = healthState{healthy: healthy, checkedAt: g.now()}
	g.mu.Unlock()

	if !healthy {
		slog.Warn("upstream marked unhealthy", "service", serviceID)
	}
	return healthy
}

func (g *HealthGate) probe(ctx context.Context, url string) bool {
	probeCtx, cancel := context.WithTimeout(ctx, g.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// Reset clears the cached result so the next IsHealthy re-probes.
func (g *HealthGate) Reset(serviceID string) {
	g.mu.Lock()
	delete(g.state, serviceID)
	g.mu.Unlock()
}

// ResetAll clears every cached result. Invoked by explicit cache-clear
// operations.
func (g *HealthGate) ResetAll() {
	g.mu.Lock()
	g.state = make(map[string]healthState)
	g.mu.Unlock()
}

// Status reports the last known state for diagnostics endpoints.
func (g *HealthGate) Status(serviceID string) (healthy bool, checkedAt time.Time, known bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	st, ok := g.state[serviceID]
	return st.healthy, st.checkedAt, ok
}

// GateError wraps ErrUnavailable with the gated service's id.
func GateError(serviceID string) error {
	return fmt.Errorf("%s: %w", serviceID, ErrUnavailable)
}
