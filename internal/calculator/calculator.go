// Package calculator turns a laminate into a minimal reserve factor for one
// structural requirement.
package calculator

import (
	"errors"
	"fmt"
	"math"

	"github.com/piwi3910/PlyStack/internal/clt"
	"github.com/piwi3910/PlyStack/internal/criteria"
	"github.com/piwi3910/PlyStack/internal/model"
)

// ErrInvalidGeometry is returned for non-positive dimensions or loads that
// cannot define a requirement.
var ErrInvalidGeometry = errors.New("invalid requirement geometry")

// Calculator evaluates one requirement. Implementations are immutable after
// construction and safe for concurrent use.
type Calculator interface {
	Name() string
	MinimalReserveFactor(lam model.Laminate) (float64, error)
	// SymmetricLaminateNeeded reports whether the underlying mechanics assume
	// a symmetric stack without bending-extension coupling.
	SymmetricLaminateNeeded() bool
}

// Governing describes where the minimal reserve factor occurs.
type Governing struct {
	Calculator    string              `json:"calculator"`
	ReserveFactor model.ReserveFactor `json:"reserve_factor"`
	Ply           int                 `json:"ply"`     // Physical ply index, -1 if not ply related
	Surface       string              `json:"surface"` // "top", "bottom" or empty
}

// Explainer is implemented by calculators that can report the governing
// location in addition to the margin.
type Explainer interface {
	Calculator
	Evaluate(lam model.Laminate) (Governing, error)
}

// Combined returns the minimum reserve factor over all calculators.
func Combined(calcs []Calculator, lam model.Laminate) (float64, error) {
	minRF := math.Inf(1)
	for _, c := range calcs {
		rf, err := c.MinimalReserveFactor(lam)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", c.Name(), err)
		}
		minRF = math.Min(minRF, rf)
	}
	return minRF, nil
}

// SymmetryRequired reports whether any calculator needs a symmetric laminate.
func SymmetryRequired(calcs []Calculator) bool {
	for _, c := range calcs {
		if c.SymmetricLaminateNeeded() {
			return true
		}
	}
	return false
}

// strength evaluates every ply surface of a recovered response.
func strength(reg *criteria.Registry, resp clt.Response) (Governing, error) {
	gov := Governing{ReserveFactor: model.NoFailure(), Ply: -1}
	for _, p := range resp.Plies {
		crit := reg.Resolve(p.Layer.Criterion)
		for _, surf := range []struct {
			name  string
			state clt.SurfaceState
		}{{"top", p.Top}, {"bottom", p.Bottom}} {
			rf, err := crit.Evaluate(p.Layer.Material, surf.state.Stress)
			if err != nil {
				return Governing{}, fmt.Errorf("ply %d (%s) %s surface: %w", p.Index, p.Layer.Name, surf.name, err)
			}
			if rf.Value < gov.ReserveFactor.Value {
				gov.ReserveFactor = rf
				gov.Ply = p.Index
				gov.Surface = surf.name
			}
		}
	}
	return gov, nil
}

// evaluateState runs the generic kernel for one load state.
func evaluateState(reg *criteria.Registry, lam model.Laminate, state model.LoadState) (Governing, error) {
	st, err := clt.Compute(lam)
	if err != nil {
		return Governing{}, err
	}
	resp, err := clt.Recover(st, state)
	if err != nil {
		return Governing{}, err
	}
	return strength(reg, resp)
}
