package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/piwi3910/PlyStack/internal/model"
)

// Bounds is the ply count bracket of a Todoroki run, in layers of the
// (half) stack. Inverted is set when the superlayer laminate needed more
// layers than the greedy one; the greedy laminate is then returned.
type Bounds struct {
	Lower    int  `json:"lower"` // Superlayer laminate
	Upper    int  `json:"upper"` // Sequential result
	Inverted bool `json:"inverted,omitempty"`
}

// Todoroki brackets the ply count with a greedy upper bound and a superlayer
// lower bound, then replaces superlayers by real plies from the outside in,
// discarding every partial laminate that is no longer feasible.
//
// Superlayers are strength conservative, not stiffness conservative. For
// stiffness driven requirements (buckling, deflection) the superlayer stack
// can need more layers than the greedy one. Phase 2 stops as soon as it
// passes the greedy count, and phase 3 never grows past it; in both cases
// the greedy laminate is the result.
type Todoroki struct {
	mu     sync.Mutex
	bounds Bounds
}

func (*Todoroki) Name() model.Algorithm { return model.AlgorithmTodoroki }

// Bounds returns the bracket found by the last run.
func (t *Todoroki) Bounds() Bounds {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bounds
}

func (t *Todoroki) setBounds(b Bounds) {
	t.mu.Lock()
	t.bounds = b
	t.mu.Unlock()
}

// individual is a partial laminate: real plies as angle indices, outermost
// first, followed by supers superlayers.
type individual struct {
	plies  []uint16
	supers int
	rf     float64
}

func (ind individual) layers() int { return len(ind.plies) + ind.supers }

// laminate builds the partial laminate of ind.
func (ind individual) laminate(r *run, super model.Layer) model.Laminate {
	lam := r.build(ind.plies)
	for range ind.supers {
		lam.Layers = append(lam.Layers, super.WithAngle(0))
	}
	return lam
}

// child replaces the outermost superlayer by the ply with angle index ai.
func (ind individual) child(ai uint16) individual {
	plies := make([]uint16, len(ind.plies)+1)
	copy(plies, ind.plies)
	plies[len(ind.plies)] = ai
	return individual{plies: plies, supers: ind.supers - 1}
}

func (t *Todoroki) Optimize(ctx context.Context, in Input) (model.Laminate, error) {
	t.setBounds(Bounds{})
	return execute(ctx, t.Name(), 100, in, t.search)
}

func (t *Todoroki) search(ctx context.Context, r *run, ev *evaluator) (model.Laminate, error) {
	// the greedy laminate only provides the bound and is not published
	upperLam, upperRF, err := sequentialSearch(ctx, r, ev, false)
	if err != nil {
		return model.Laminate{}, err
	}
	upper := len(upperLam.Layers)
	r.logger.Debug("upper bound", "layers", upper, "stacking", upperLam.StackingSequence())

	greedy := func(reason string) (model.Laminate, error) {
		r.logger.Warn("keeping the greedy laminate", "reason", reason,
			"layers", upper, "stacking", upperLam.StackingSequence())
		ev.setBest(upperLam, upperRF)
		return upperLam, nil
	}

	super := r.template.Clone()
	super.Material = r.template.Material.Superlayer()

	seed := individual{}
	for {
		if err := checkContext(ctx, r.strategy); err != nil {
			return model.Laminate{}, err
		}
		seed.supers++
		if seed.supers > upper {
			t.setBounds(Bounds{Lower: seed.supers, Upper: upper, Inverted: true})
			return greedy("superlayer bracket inverted")
		}
		if seed.rf, err = ev.evaluate(seed.laminate(r, super)); err != nil {
			return model.Laminate{}, err
		}
		if seed.rf >= 1 {
			break
		}
	}
	t.setBounds(Bounds{Lower: seed.supers, Upper: upper})
	r.logger.Debug("lower bound", "layers", seed.supers)

	population := []individual{seed}
	for round := 1; population[0].supers > 0; round++ {
		if err := checkContext(ctx, r.strategy); err != nil {
			return model.Laminate{}, err
		}

		var next []individual
		for _, ind := range population {
			for ai := range r.angles {
				c := ind.child(uint16(ai))
				rf, err := ev.evaluate(c.laminate(r, super))
				if err != nil {
					return model.Laminate{}, err
				}
				if rf >= 1 {
					c.rf = rf
					next = append(next, c)
				}
			}
			if len(next) > r.maxWidth {
				return model.Laminate{}, fmt.Errorf("%w: round %d holds %d laminates, limit %d",
					ErrGenerationTooWide, round, len(next), r.maxWidth)
			}
		}

		if len(next) == 0 {
			layers := population[0].layers()
			if layers >= upper {
				return greedy("no survivors at the greedy ply count")
			}
			r.logger.Debug("no survivors, adding a superlayer", "round", round, "layers", layers+1)
			for i := range population {
				population[i].supers++
			}
			continue
		}
		population = next
		r.logger.Debug("round evaluated", "round", round, "survivors", len(population),
			"position", len(population[0].plies))
	}

	best := population[0]
	for _, ind := range population[1:] {
		if ind.rf > best.rf {
			best = ind
		}
	}
	lam := best.laminate(r, super)
	ev.setBest(lam, best.rf)
	return lam, nil
}
