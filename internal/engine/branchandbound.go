package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/piwi3910/PlyStack/internal/model"
)

// BranchAndBound enumerates every stacking sequence level by level. All
// children of every laminate are kept; nothing is pruned. The search stops
// after the first generation that contains a feasible laminate and returns
// the best laminate of that generation.
//
// Generations are held as angle index sequences and a parent generation is
// released as soon as its children exist. MaxGenerationWidth caps the number
// of sequences held at once.
type BranchAndBound struct{}

func (BranchAndBound) Name() model.Algorithm { return model.AlgorithmBranchAndBound }

func (b BranchAndBound) Optimize(ctx context.Context, in Input) (model.Laminate, error) {
	return execute(ctx, b.Name(), 100, in, branchAndBound)
}

func branchAndBound(ctx context.Context, r *run, ev *evaluator) (model.Laminate, error) {
	generation := [][]uint16{{}}
	limit := min(r.maxGenerations, r.maxLayers)

	for depth := 1; ; depth++ {
		if err := checkContext(ctx, r.strategy); err != nil {
			return model.Laminate{}, err
		}
		if depth > limit {
			name, value := "max generations", r.maxGenerations
			if r.maxLayers < r.maxGenerations {
				name, value = "max layers", r.maxLayers
			}
			return model.Laminate{}, r.infeasible(name, value, ev.bestRF)
		}
		width := len(generation) * len(r.angles)
		if width > r.maxWidth {
			return model.Laminate{}, fmt.Errorf("%w: generation %d would hold %d laminates, limit %d",
				ErrGenerationTooWide, depth, width, r.maxWidth)
		}

		keep := depth < limit
		var next [][]uint16
		if keep {
			next = make([][]uint16, 0, width)
		}
		var best model.Laminate
		bestRF := math.Inf(-1)
		found := false

		for _, parent := range generation {
			for ai := range r.angles {
				child := make([]uint16, len(parent)+1)
				copy(child, parent)
				child[len(parent)] = uint16(ai)

				lam := r.build(child)
				rf, err := ev.evaluate(lam)
				if err != nil {
					return model.Laminate{}, err
				}
				if !found || rf > bestRF {
					best, bestRF, found = lam, rf, true
				}
				if keep {
					next = append(next, child)
				}
			}
		}
		generation = next

		ev.setBest(best, bestRF)
		r.logger.Debug("generation evaluated", "depth", depth, "width", width,
			"best", best.StackingSequence(), "reserve_factor", bestRF)
		if bestRF >= 1 {
			return best, nil
		}
	}
}
