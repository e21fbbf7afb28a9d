package calculator

import (
	"fmt"

	"github.com/piwi3910/PlyStack/internal/criteria"
	"github.com/piwi3910/PlyStack/internal/model"
)

// PressureVessel checks the wall of a thin cylinder under internal pressure.
// The laminate x axis runs along the cylinder axis.
type PressureVessel struct {
	def  model.PressureVesselDef
	load *LoadCase
}

// NewPressureVessel creates a pressure vessel calculator.
func NewPressureVessel(def model.PressureVesselDef, reg *criteria.Registry) (*PressureVessel, error) {
	if !(def.Radius > 0) {
		return nil, fmt.Errorf("%w: vessel radius %g", ErrInvalidGeometry, def.Radius)
	}
	if def.Name == "" {
		def.Name = "pressure vessel"
	}
	return &PressureVessel{def: def, load: NewLoadCase(def.Name, VesselLoads(def), reg)}, nil
}

// VesselLoads returns the membrane resultants of the cylinder wall.
func VesselLoads(def model.PressureVesselDef) model.LoadState {
	hoop := def.Pressure * def.Radius
	var axial float64
	if def.ClosedEnds {
		axial = hoop / 2
	}
	return model.LoadsOnly(model.Loads{Nx: axial, Ny: hoop})
}

func (c *PressureVessel) Name() string { return c.def.Name }

func (c *PressureVessel) SymmetricLaminateNeeded() bool { return false }

func (c *PressureVessel) Evaluate(lam model.Laminate) (Governing, error) {
	return c.load.Evaluate(lam)
}

func (c *PressureVessel) MinimalReserveFactor(lam model.Laminate) (float64, error) {
	return c.load.MinimalReserveFactor(lam)
}
