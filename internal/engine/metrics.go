package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	laminatesEvaluated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plystack_optimizer_laminates_evaluated_total",
		Help: "Laminates whose combined reserve factor was computed.",
	}, []string{"strategy"})

	constraintEvaluations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plystack_optimizer_constraint_evaluations_total",
		Help: "Individual calculator evaluations.",
	}, []string{"strategy"})

	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plystack_optimizer_runs_total",
		Help: "Optimization runs by outcome.",
	}, []string{"strategy", "outcome"})

	runDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "plystack_optimizer_run_duration_seconds",
		Help:    "Wall time of optimization runs.",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	}, []string{"strategy"})
)

// Run outcomes.
const (
	outcomeFeasible   = "feasible"
	outcomeInfeasible = "infeasible"
	outcomeCancelled  = "cancelled"
	outcomeError      = "error"
)
