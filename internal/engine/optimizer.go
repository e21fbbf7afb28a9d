// Package engine searches for the lightest stacking sequence whose combined
// reserve factor reaches one.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/piwi3910/PlyStack/internal/model"
)

// Strategy is one stacking sequence search algorithm.
type Strategy interface {
	Name() model.Algorithm
	Optimize(ctx context.Context, in Input) (model.Laminate, error)
}

// New returns the strategy for the given algorithm.
func New(algorithm model.Algorithm) (Strategy, error) {
	switch algorithm {
	case model.AlgorithmSequential:
		return Sequential{}, nil
	case model.AlgorithmBranchAndBound:
		return BranchAndBound{}, nil
	case model.AlgorithmTodoroki:
		return &Todoroki{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
}

// searchFunc is the strategy specific part of a run.
type searchFunc func(ctx context.Context, r *run, ev *evaluator) (model.Laminate, error)

// execute validates the input, runs search and records the outcome in the
// result and the metrics.
func execute(ctx context.Context, strategy model.Algorithm, defaultInterval int64, in Input, search searchFunc) (model.Laminate, error) {
	r, err := in.prepare(strategy, defaultInterval)
	if err != nil {
		runsTotal.WithLabelValues(string(strategy), outcomeError).Inc()
		return model.Laminate{}, err
	}
	ev := newEvaluator(r)
	start := time.Now()
	r.logger.Debug("optimization started", "angles", r.angles, "symmetric", r.symmetric, "calculators", len(r.calcs))

	lam, err := search(ctx, r, ev)
	runDuration.WithLabelValues(string(strategy)).Observe(time.Since(start).Seconds())

	var infeasible *InfeasibleError
	switch {
	case err == nil:
		runsTotal.WithLabelValues(string(strategy), outcomeFeasible).Inc()
		r.logger.Info("optimization finished",
			"stacking", lam.StackingSequence(), "plies", lam.NumPhysicalLayers(),
			"reserve_factor", ev.bestRF, "laminates", ev.checked, "elapsed", time.Since(start))
		ev.finish(false)
		return lam, nil
	case errors.As(err, &infeasible):
		runsTotal.WithLabelValues(string(strategy), outcomeInfeasible).Inc()
		r.logger.Warn("no feasible laminate", "limit", infeasible.Limit, "value", infeasible.Value, "best_rf", infeasible.BestRF)
		ev.finish(true)
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		runsTotal.WithLabelValues(string(strategy), outcomeCancelled).Inc()
		ev.finish(false)
	default:
		runsTotal.WithLabelValues(string(strategy), outcomeError).Inc()
		ev.finish(false)
	}
	return model.Laminate{}, err
}

// checkContext returns the wrapped context error once ctx is done.
func checkContext(ctx context.Context, strategy model.Algorithm) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", strategy, err)
	}
	return nil
}
