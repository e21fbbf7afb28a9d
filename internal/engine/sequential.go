package engine

import (
	"context"
	"math"

	"github.com/piwi3910/PlyStack/internal/model"
)

// Sequential is the greedy ply-by-ply decision approach. Each iteration adds
// one ply at the innermost position and keeps the angle with the largest
// combined reserve factor. On an exact tie the angle listed first wins.
type Sequential struct{}

func (Sequential) Name() model.Algorithm { return model.AlgorithmSequential }

func (s Sequential) Optimize(ctx context.Context, in Input) (model.Laminate, error) {
	return execute(ctx, s.Name(), 1, in, func(ctx context.Context, r *run, ev *evaluator) (model.Laminate, error) {
		lam, _, err := sequentialSearch(ctx, r, ev, true)
		return lam, err
	})
}

// sequentialSearch grows a laminate greedily until it is feasible. With
// publish set, the laminate reached is recorded as best after every
// iteration.
func sequentialSearch(ctx context.Context, r *run, ev *evaluator, publish bool) (model.Laminate, float64, error) {
	lam := model.NewLaminate(r.symmetric)
	reached := math.Inf(-1)
	for {
		if err := checkContext(ctx, r.strategy); err != nil {
			return model.Laminate{}, 0, err
		}
		if len(lam.Layers) >= r.maxLayers {
			return model.Laminate{}, 0, r.infeasible("max layers", r.maxLayers, reached)
		}

		var chosen model.Laminate
		chosenRF := math.Inf(-1)
		found := false
		for _, angle := range r.angles {
			candidate := lam.WithLayer(r.layer(angle))
			rf, err := ev.evaluate(candidate)
			if err != nil {
				return model.Laminate{}, 0, err
			}
			if !found || rf > chosenRF {
				chosen, chosenRF, found = candidate, rf, true
			}
		}
		if math.IsNaN(chosenRF) {
			return model.Laminate{}, 0, errNoCandidateChosen
		}

		lam, reached = chosen, chosenRF
		if publish {
			ev.setBest(lam, chosenRF)
		}
		r.logger.Debug("ply added", "stacking", lam.StackingSequence(), "reserve_factor", chosenRF)
		if chosenRF >= 1 {
			return lam, chosenRF, nil
		}
	}
}
