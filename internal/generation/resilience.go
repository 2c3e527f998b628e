package generation

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/superleo/marketingops/backend/internal/logging"
	"github.com/superleo/marketingops/backend/internal/metrics"
)

// GuardConfig tunes client-side protection of the provider.
type GuardConfig struct {
	Name             string
	RequestsPerSec   float64
	Burst            int
	FailureThreshold uint32        // consecutive failures that open the breaker
	OpenTimeout      time.Duration // time before a half-open probe
}

// guard rate limits calls and stops calling a provider that keeps failing.
type guard struct {
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[any]
}

func newGuard(cfg GuardConfig) *guard {
	if cfg.Name == "" {
		cfg.Name = "gemini"
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	g := &guard{}
	if cfg.RequestsPerSec > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), burst)
	}
	metrics.GatewayBreakerState.WithLabelValues(cfg.Name).Set(0)
	threshold := cfg.FailureThreshold
	g.breaker = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("generation gateway breaker state changed")
			metrics.GatewayBreakerState.WithLabelValues(name).Set(float64(to))
		},
	})
	return g
}

// guarded runs fn under the limiter and breaker of g.
func guarded[T any](ctx context.Context, g *guard, fn func() (T, error)) (T, error) {
	var zero T
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return zero, err
		}
	}
	out, err := g.breaker.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		return zero, err
	}
	v, _ := out.(T)
	return v, nil
}
