package metrics_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/Norgate-AV/tyburn/internal/events"
	"github.com/Norgate-AV/tyburn/internal/finder"
	"github.com/Norgate-AV/tyburn/internal/headless"
	"github.com/Norgate-AV/tyburn/internal/metrics"
	"github.com/Norgate-AV/tyburn/internal/threaded"
)

func TestResult(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: metrics.ResultOK},
		{name: "not found", err: &finder.ComponentNotFoundError{Name: "x"}, want: metrics.ResultNotFound},
		{name: "timeout", err: fmt.Errorf("click: %w", &threaded.TimeoutError{Op: "x", Err: context.DeadlineExceeded}), want: metrics.ResultTimeout},
		{name: "unsupported", err: &events.UnsupportedOperationError{Op: "activate"}, want: metrics.ResultUnsupported},
		{name: "headless", err: headless.ErrHeadless, want: metrics.ResultHeadless},
		{name: "other", err: errors.New("boom"), want: metrics.ResultError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, metrics.Result(tt.err))
		})
	}
}

func TestObserve(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.Observe("click_button", nil, 10*time.Millisecond)
	m.Observe("click_button", nil, 20*time.Millisecond)
	m.Observe("click_button", &threaded.TimeoutError{Op: "x"}, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Operations.WithLabelValues("click_button", metrics.ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("click_button", metrics.ResultTimeout)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Timeouts.WithLabelValues("click_button")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Duration))
}

func TestObserve_NilSafe(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() { m.Observe("op", nil, time.Millisecond) })
}

func TestNew_ReusesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()

	first := metrics.New(reg)
	second := metrics.New(reg)

	second.Observe("close_window", nil, time.Millisecond)

	assert.Same(t, first.Operations, second.Operations)
	assert.Equal(t, 1.0, testutil.ToFloat64(first.Operations.WithLabelValues("close_window", metrics.ResultOK)))
}
