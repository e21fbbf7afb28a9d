package engine

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/PlyStack/internal/model"
)

// ComparisonResult holds the outcome and statistics of one strategy run.
type ComparisonResult struct {
	Algorithm             model.Algorithm `json:"algorithm"`
	Laminate              *model.Laminate `json:"laminate,omitempty"`
	Plies                 int             `json:"plies"`
	MinReserveFactor      float64         `json:"min_reserve_factor"`
	LaminatesChecked      int64           `json:"laminates_checked"`
	ConstraintEvaluations int64           `json:"constraint_evaluations"`
	Duration              time.Duration   `json:"duration"`
	Bounds                *Bounds         `json:"bounds,omitempty"`
	Err                   error           `json:"-"`
}

// CompareStrategies runs every algorithm on its own copy of the input
// concurrently and returns the results in algorithm order. A failing strategy
// is reported in its result; only cancellation of ctx fails the comparison.
func CompareStrategies(ctx context.Context, algorithms []model.Algorithm, in Input) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, len(algorithms))
	g, gctx := errgroup.WithContext(ctx)

	for i, alg := range algorithms {
		g.Go(func() error {
			res := ComparisonResult{Algorithm: alg}
			strategy, err := New(alg)
			if err != nil {
				res.Err = err
				results[i] = res
				return nil
			}

			local := in
			local.Angles = append([]float64(nil), in.Angles...)
			local.Result = model.NewOptimizationResult(alg)

			start := time.Now()
			lam, err := strategy.Optimize(gctx, local)
			res.Duration = time.Since(start)
			res.Err = err

			snap := local.Result.Snapshot()
			res.MinReserveFactor = snap.MinReserveFactor
			res.LaminatesChecked = snap.LaminatesChecked
			res.ConstraintEvaluations = snap.ConstraintEvaluations
			if err == nil {
				res.Laminate = &lam
				res.Plies = lam.NumPhysicalLayers()
			}
			if t, ok := strategy.(*Todoroki); ok {
				b := t.Bounds()
				res.Bounds = &b
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}
