package health

import (
	"context"
	"runtime"

	"github.com/go-faster/errors"
)

// GoroutineCountCheck reports unhealthy once the process holds more than
// limit goroutines. Useful as a liveness probe to catch leaks.
func GoroutineCountCheck(limit int) CheckFunc {
	return func(_ context.Context) error {
		if n := runtime.NumGoroutine(); n > limit {
			return errors.Errorf("%d goroutines exceed limit %d", n, limit)
		}
		return nil
	}
}

// Pinger is satisfied by connection pools that expose a Ping method, such as
// pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingCheck adapts a connection pool's Ping into a readiness probe.
func PingCheck(p Pinger) CheckFunc {
	return func(ctx context.Context) error {
		return p.Ping(ctx)
	}
}
