// Package breaker wraps sony/gobreaker with the storefront's defaults, logging and state metrics.
package breaker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker/v2"
)

// Config holds the breaker's trip and recovery settings.
type Config struct {
	// Name labels logs and metrics.
	Name string

	// MaxRequests is how many trial calls are let through while half-open.
	MaxRequests uint32

	// Interval clears the closed-state counts. 0 never clears them.
	Interval time.Duration

	// Timeout is how long the breaker stays open before going half-open.
	Timeout time.Duration

	// FailureRatio trips the breaker once MinRequests calls have been counted.
	FailureRatio float64
	MinRequests  uint32

	// IsSuccessful marks errors that should not count as failures, such as a missing key.
	IsSuccessful func(err error) bool
}

// DefaultConfig returns defaults sized for a slot backend.
func DefaultConfig(name string) Config {
	return Config{
		Name:         name,
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      15 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  5,
	}
}

// ErrOpen is returned without calling through while the breaker is open.
var ErrOpen = gobreaker.ErrOpenState

var (
	stateGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current state of the circuit breaker (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	rejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_rejected_total",
			Help: "Total number of calls rejected by an open or saturated circuit breaker",
		},
		[]string{"name"},
	)
)

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// Breaker guards calls returning T.
type Breaker[T any] struct {
	cb   *gobreaker.CircuitBreaker[T]
	name string
}

func New[T any](cfg Config, logger *slog.Logger) *Breaker[T] {
	if logger == nil {
		logger = slog.Default()
	}
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			if c.Requests < cfg.MinRequests {
				return false
			}
			return float64(c.TotalFailures)/float64(c.Requests) >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			stateGauge.WithLabelValues(name).Set(stateValue(to))
		},
		IsSuccessful: cfg.IsSuccessful,
	}
	stateGauge.WithLabelValues(cfg.Name).Set(0)

	return &Breaker[T]{cb: gobreaker.NewCircuitBreaker[T](settings), name: cfg.Name}
}

// Execute runs fn unless the breaker is open. A canceled ctx fails fast without calling fn.
func (b *Breaker[T]) Execute(ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}
	v, err := b.cb.Execute(func() (T, error) { return fn(ctx) })
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		rejectedTotal.WithLabelValues(b.name).Inc()
	}
	return v, err
}

// State reports the current breaker state.
func (b *Breaker[T]) State() gobreaker.State {
	return b.cb.State()
}

func (b *Breaker[T]) Name() string {
	return b.name
}
