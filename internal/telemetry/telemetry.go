// Package telemetry exports turn and training statistics to Prometheus.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/danielpatrickdp/uqrc-engine/internal/orchestrator"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collectors is an orchestrator.Observer feeding Prometheus metrics.
type Collectors struct {
	registry *prometheus.Registry

	Turns          *prometheus.CounterVec
	CommitOutcomes *prometheus.CounterVec
	HoldRetries    prometheus.Counter
	TurnLatency    prometheus.Histogram
	AttractorDist  prometheus.Gauge
	EntropyGate    prometheus.Gauge
	TrainingSteps  prometheus.Counter
	TrainingLoss   prometheus.Gauge
}

// New registers the engine collectors on a fresh registry.
func New() *Collectors {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Collectors{
		registry: reg,
		Turns: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "uqrc_turns_total",
				Help: "Turns by closure status, forced flag and output trigger",
			},
			[]string{"status", "forced", "trigger"},
		),
		CommitOutcomes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "uqrc_commit_outcomes_total",
				Help: "Memory outcomes per turn",
			},
			[]string{"decision"},
		),
		HoldRetries: f.NewCounter(prometheus.CounterOpts{
			Name: "uqrc_hold_retries_total",
			Help: "Extra state steps taken because closure held the output",
		}),
		TurnLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "uqrc_turn_latency_seconds",
			Help:    "Wall time of one turn",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		AttractorDist: f.NewGauge(prometheus.GaugeOpts{
			Name: "uqrc_attractor_distance",
			Help: "Attractor distance of the latest final state",
		}),
		EntropyGate: f.NewGauge(prometheus.GaugeOpts{
			Name: "uqrc_entropy_gate",
			Help: "Entropy gate of the latest step",
		}),
		TrainingSteps: f.NewCounter(prometheus.CounterOpts{
			Name: "uqrc_training_steps_total",
			Help: "Training steps applied",
		}),
		TrainingLoss: f.NewGauge(prometheus.GaugeOpts{
			Name: "uqrc_training_loss",
			Help: "Total loss of the latest training step",
		}),
	}
}

// Registry exposes the registry for extra collectors and tests.
func (c *Collectors) Registry() *prometheus.Registry { return c.registry }

// ObserveTurn implements orchestrator.Observer.
func (c *Collectors) ObserveTurn(r orchestrator.TurnResult) {
	c.Turns.WithLabelValues(string(r.Closure.Status), strconv.FormatBool(r.Closure.Forced), string(r.Trigger)).Inc()
	c.CommitOutcomes.WithLabelValues(string(r.Decision)).Inc()
	c.HoldRetries.Add(float64(r.HoldSteps))
	c.TurnLatency.Observe(r.Latency.Seconds())
	c.AttractorDist.Set(r.AttractorDistance)
	c.EntropyGate.Set(r.Diagnostics.EntropyGate)
}

// ObserveTrain implements orchestrator.Observer.
func (c *Collectors) ObserveTrain(r orchestrator.TrainResult) {
	c.TrainingSteps.Inc()
	c.TrainingLoss.Set(r.Breakdown.Total)
}

// Handler serves the registry in the Prometheus text format.
func (c *Collectors) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// NewServer returns an HTTP server exposing /metrics.
func (c *Collectors) NewServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	return &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}
}
