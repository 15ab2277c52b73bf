// Package metrics records Prometheus metrics for driver operations.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Norgate-AV/tyburn/internal/events"
	"github.com/Norgate-AV/tyburn/internal/finder"
	"github.com/Norgate-AV/tyburn/internal/headless"
	"github.com/Norgate-AV/tyburn/internal/threaded"
)

// Result labels.
const (
	ResultOK          = "ok"
	ResultNotFound    = "not_found"
	ResultTimeout     = "timeout"
	ResultUnsupported = "unsupported"
	ResultHeadless    = "headless"
	ResultError       = "error"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	Operations *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
	Timeouts   *prometheus.CounterVec
}

// New registers the operation metrics with reg. A nil reg uses the default
// registerer. Metrics already registered with reg by an earlier call are
// reused, so several controls can share one registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	return &Metrics{
		Operations: register(reg, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tyburn_operations_total",
				Help: "Total number of driver operations by result",
			},
			[]string{"op", "result"},
		)),
		Duration: register(reg, prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tyburn_operation_duration_seconds",
				Help:    "Driver operation duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"op"},
		)),
		Timeouts: register(reg, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tyburn_timeouts_total",
				Help: "Total number of driver operations that hit their deadline",
			},
			[]string{"op"},
		)),
	}
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}

		panic(err)
	}

	return c
}

// Observe records one finished operation. Safe on a nil receiver.
func (m *Metrics) Observe(op string, err error, d time.Duration) {
	if m == nil {
		return
	}

	result := Result(err)
	m.Operations.WithLabelValues(op, result).Inc()
	m.Duration.WithLabelValues(op).Observe(d.Seconds())

	if result == ResultTimeout {
		m.Timeouts.WithLabelValues(op).Inc()
	}
}

// Result maps an operation error to its label.
func Result(err error) string {
	var (
		nf *finder.ComponentNotFoundError
		te *threaded.TimeoutError
		ue *events.UnsupportedOperationError
	)

	switch {
	case err == nil:
		return ResultOK
	case errors.As(err, &nf):
		return ResultNotFound
	case errors.As(err, &te):
		return ResultTimeout
	case errors.As(err, &ue):
		return ResultUnsupported
	case errors.Is(err, headless.ErrHeadless):
		return ResultHeadless
	default:
		return ResultError
	}
}
