package provider

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Metrics are the gateway-level collectors.
type Metrics struct {
	Requests *prometheus.CounterVec
	Latency  *prometheus.HistogramVec
}

// NewMetrics registers the gateway collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signal_bridge_generation_requests_total",
				Help: "Total number of generation requests by schema and outcome",
			},
			[]string{"schema", "outcome"},
		),
		Latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "signal_bridge_generation_duration_seconds",
				Help:    "Generation request latency in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"schema"},
		),
	}
}

// Instrumented records a counter, a latency observation and a debug log line per call.
type Instrumented struct {
	next    Gateway
	metrics *Metrics
	log     *zap.Logger
}

func NewInstrumented(next Gateway, m *Metrics, log *zap.Logger) *Instrumented {
	if log == nil {
		log = zap.NewNop()
	}
	return &Instrumented{next: next, metrics: m, log: log}
}

func (g *Instrumented) Generate(ctx context.Context, req Request) (string, error) {
	start := time.Now()
	out, err := g.next.Generate(ctx, req)
	elapsed := time.Since(start)

	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		outcome = "canceled"
	default:
		outcome = "error"
	}
	if g.metrics != nil {
		g.metrics.Requests.WithLabelValues(req.Name, outcome).Inc()
		g.metrics.Latency.WithLabelValues(req.Name).Observe(elapsed.Seconds())
	}

	fields := []zap.Field{
		zap.String("schema", req.Name),
		zap.String("outcome", outcome),
		zap.Duration("elapsed", elapsed),
		zap.Int("output_bytes", len(out)),
	}
	if err != nil {
		g.log.Warn("generation failed", append(fields, zap.Error(err))...)
	} else {
		g.log.Debug("generation done", fields...)
	}
	return out, err
}
