// Package health keeps a cold-starting chat backend warm with best-effort
// liveness pings. Pings never surface errors to the rest of the service:
// this is a fire-and-forget category of network call, deliberately separate
// from the chat request path whose failures must reach the user.
package health

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"
)

// DefaultInterval is how often the keep-alive ping fires.
const DefaultInterval = 10 * time.Minute

// Pinger issues GET {base}/health requests on demand and on a schedule.
type Pinger struct {
	baseURL  string
	interval time.Duration
	http     *http.Client
}

// NewPinger creates a pinger for the backend at baseURL. An empty baseURL
// disables pinging entirely. A non-positive interval falls back to
// DefaultInterval.
func NewPinger(baseURL string, interval time.Duration) *Pinger {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Pinger{
		baseURL:  strings.TrimRight(baseURL, "/"),
		interval: interval,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Ping fires one liveness request. All failures are logged and swallowed;
// Ping never reports an error to the caller.
func (p *Pinger) Ping(ctx context.Context) {
	if p.baseURL == "" {
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/health", nil)
	if err != nil {
		log.Printf("health: building ping request: %v", err)
		return
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := p.http.Do(req)
	if err != nil {
		log.Printf("health: ping failed: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("health: backend returned status %d", resp.StatusCode)
		return
	}
}

// Run pings immediately, then on every interval tick until ctx is
// cancelled. The caller owns the context and releases the loop by
// cancelling it on teardown.
func (p *Pinger) Run(ctx context.Context) {
	if p.baseURL == "" {
		return
	}

	p.Ping(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Ping(ctx)
		}
	}
}
