// Package health implements Kubernetes-style liveness and readiness probes.
//
// Probes run on a single background loop at a fixed interval. Consecutive
// failure and success thresholds keep a flaky dependency from flapping the
// reported state on every tick.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// CheckFunc probes one dependency. A nil return means healthy.
type CheckFunc func(ctx context.Context) error

// Option adjusts probe thresholds.
type Option func(*probe)

// WithFailureThreshold sets how many consecutive failures flip a probe to
// unhealthy. Default 3.
func WithFailureThreshold(n int) Option {
	return func(p *probe) { p.failAfter = n }
}

// WithSuccessThreshold sets how many consecutive successes flip a probe back
// to healthy. Default 1.
func WithSuccessThreshold(n int) Option {
	return func(p *probe) { p.okAfter = n }
}

type probe struct {
	name    string
	timeout time.Duration
	fn      CheckFunc

	failAfter int
	okAfter   int

	mu      sync.Mutex
	fails   int
	oks     int
	healthy bool
	lastErr error
}

func newProbe(name string, timeout time.Duration, fn CheckFunc, opts ...Option) *probe {
	p := &probe{
		name:      name,
		timeout:   timeout,
		fn:        fn,
		failAfter: 3,
		okAfter:   1,
		// Optimistic start so a service is not reported dead before the
		// first tick completes.
		healthy: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *probe) execute(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	err := p.fn(ctx)
	cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastErr = err
	if err != nil {
		p.oks = 0
		if p.fails++; p.fails >= p.failAfter {
			p.healthy = false
		}
		return
	}
	p.fails = 0
	if p.oks++; p.oks >= p.okAfter {
		p.healthy = true
	}
}

func (p *probe) state() (healthy bool, lastErr error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.healthy, p.lastErr
}

// Service collects liveness and readiness probes and serves their combined
// state over HTTP.
type Service struct {
	ready atomic.Bool

	mu        sync.Mutex
	liveness  []*probe
	readiness []*probe
	stop      context.CancelFunc
	done      chan struct{}
}

// New creates an empty probe service. It reports not-ready until SetReady is
// called with true.
func New() *Service {
	return &Service{}
}

// Liveness registers a probe that gates the /livez endpoint. Liveness failure
// means the process itself is broken (goroutine leak, deadlock).
func (s *Service) Liveness(name string, timeout time.Duration, fn CheckFunc, opts ...Option) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.liveness = append(s.liveness, newProbe(name, timeout, fn, opts...))
}

// Readiness registers a probe that gates the /readyz endpoint. Readiness
// failure means the service should stop receiving traffic (datastore down).
func (s *Service) Readiness(name string, timeout time.Duration, fn CheckFunc, opts ...Option) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readiness = append(s.readiness, newProbe(name, timeout, fn, opts...))
}

// Start runs every registered probe once, then keeps re-running them on a
// single background loop every interval until ctx is cancelled or Stop is
// called.
func (s *Service) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.stop = cancel
	s.done = make(chan struct{})
	probes := make([]*probe, 0, len(s.liveness)+len(s.readiness))
	probes = append(probes, s.liveness...)
	probes = append(probes, s.readiness...)
	done := s.done
	s.mu.Unlock()

	go func() {
		defer close(done)

		runAll := func() {
			for _, p := range probes {
				p.execute(ctx)
			}
		}
		runAll()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runAll()
			}
		}
	}()
}

// Stop cancels the probe loop and waits for it to exit. Safe to call more
// than once.
func (s *Service) Stop() {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop = nil
	s.mu.Unlock()

	if stop != nil {
		stop()
		<-done
	}
}

// SetReady flips the manual readiness gate. Set it to true after startup
// finishes and to false at the start of graceful shutdown.
func (s *Service) SetReady(ready bool) {
	s.ready.Store(ready)
}

// Ready reports whether the manual gate is open and every readiness probe is
// currently healthy.
func (s *Service) Ready() bool {
	if !s.ready.Load() {
		return false
	}
	s.mu.Lock()
	probes := s.readiness
	s.mu.Unlock()

	for _, p := range probes {
		if ok, _ := p.state(); !ok {
			return false
		}
	}
	return true
}

type statusResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// LiveEndpoint serves /livez: 200 when every liveness probe is healthy, 503
// with per-probe failure messages otherwise.
func (s *Service) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	probes := append([]*probe(nil), s.liveness...)
	s.mu.Unlock()

	writeStatus(w, failures(probes))
}

// ReadyEndpoint serves /readyz: 200 when the manual gate is open and every
// readiness probe is healthy, 503 with details otherwise.
func (s *Service) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	probes := append([]*probe(nil), s.readiness...)
	s.mu.Unlock()

	fails := failures(probes)
	if !s.ready.Load() {
		fails["_gate"] = "service is not ready"
	}
	writeStatus(w, fails)
}

func failures(probes []*probe) map[string]string {
	fails := make(map[string]string)
	for _, p := range probes {
		ok, err := p.state()
		if ok {
			continue
		}
		if err != nil {
			fails[p.name] = err.Error()
		} else {
			fails[p.name] = "probe is unhealthy"
		}
	}
	return fails
}

func writeStatus(w http.ResponseWriter, fails map[string]string) {
	w.Header().Set("Content-Type", "application/json")

	resp := statusResponse{Status: "ok"}
	code := http.StatusOK
	if len(fails) > 0 {
		resp = statusResponse{Status: "unhealthy", Checks: fails}
		code = http.StatusServiceUnavailable
	}
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
