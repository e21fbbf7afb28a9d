package calculator

import (
	"github.com/piwi3910/PlyStack/internal/criteria"
	"github.com/piwi3910/PlyStack/internal/model"
)

// LoadCase checks ply strength under a generic load state.
type LoadCase struct {
	name  string
	state model.LoadState
	reg   *criteria.Registry
}

// NewLoadCase creates a load case calculator. A nil registry uses the
// built-in criteria.
func NewLoadCase(name string, state model.LoadState, reg *criteria.Registry) *LoadCase {
	if reg == nil {
		reg = criteria.NewRegistry(nil)
	}
	if name == "" {
		name = "load case"
	}
	return &LoadCase{name: name, state: state, reg: reg}
}

func (c *LoadCase) Name() string { return c.name }

// State returns the prescribed load state.
func (c *LoadCase) State() model.LoadState { return c.state }

func (c *LoadCase) SymmetricLaminateNeeded() bool { return false }

func (c *LoadCase) Evaluate(lam model.Laminate) (Governing, error) {
	gov, err := evaluateState(c.reg, lam, c.state)
	gov.Calculator = c.name
	return gov, err
}

func (c *LoadCase) MinimalReserveFactor(lam model.Laminate) (float64, error) {
	gov, err := c.Evaluate(lam)
	if err != nil {
		return 0, err
	}
	return gov.ReserveFactor.Value, nil
}
