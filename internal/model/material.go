package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// SuperlayerShearRatio is the shear strength of a superlayer relative to its
// axial strength. The value is an empirical placeholder, not derived from
// micromechanics, and may be tuned.
var SuperlayerShearRatio = 2.0 / 3.0

// ErrInvalidMaterial is returned by Material.Validate.
var ErrInvalidMaterial = errors.New("invalid material")

// Material holds the elastic and strength constants of a unidirectional ply.
// Stresses and moduli share one unit system (typically MPa), thicknesses mm.
type Material struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`

	E1   float64 `json:"e1" yaml:"e1"`     // Modulus parallel to the fibers
	E2   float64 `json:"e2" yaml:"e2"`     // Modulus transverse to the fibers
	G12  float64 `json:"g12" yaml:"g12"`   // In-plane shear modulus
	Nu12 float64 `json:"nu12" yaml:"nu12"` // Major Poisson ratio
	Rho  float64 `json:"rho" yaml:"rho"`   // Density (g/cm³)

	Xt float64 `json:"xt" yaml:"xt"` // Tensile strength parallel to the fibers
	Xc float64 `json:"xc" yaml:"xc"` // Compressive strength parallel to the fibers (positive)
	Yt float64 `json:"yt" yaml:"yt"` // Tensile strength transverse to the fibers
	Yc float64 `json:"yc" yaml:"yc"` // Compressive strength transverse to the fibers (positive)
	S  float64 `json:"s" yaml:"s"`   // In-plane shear strength

	Alpha1 float64 `json:"alpha1,omitempty" yaml:"alpha1,omitempty"` // Thermal expansion, fiber direction
	Alpha2 float64 `json:"alpha2,omitempty" yaml:"alpha2,omitempty"` // Thermal expansion, transverse
	Beta1  float64 `json:"beta1,omitempty" yaml:"beta1,omitempty"`   // Moisture expansion, fiber direction
	Beta2  float64 `json:"beta2,omitempty" yaml:"beta2,omitempty"`   // Moisture expansion, transverse

	// Criterion specific constants such as interaction coefficients.
	Aux map[string]float64 `json:"aux,omitempty" yaml:"aux,omitempty"`
}

// NewMaterial creates a material with a generated ID.
func NewMaterial(name string, e1, e2, g12, nu12, rho, xt, xc, yt, yc, s float64) Material {
	return Material{
		ID:   uuid.New().String()[:8],
		Name: name,
		E1:   e1,
		E2:   e2,
		G12:  g12,
		Nu12: nu12,
		Rho:  rho,
		Xt:   xt,
		Xc:   xc,
		Yt:   yt,
		Yc:   yc,
		S:    s,
	}
}

// Nu21 returns the minor Poisson ratio.
func (m Material) Nu21() float64 {
	return m.Nu12 * m.E2 / m.E1
}

// AuxOr returns the auxiliary constant stored under key, or def when absent.
func (m Material) AuxOr(key string, def float64) float64 {
	if v, ok := m.Aux[key]; ok {
		return v
	}
	return def
}

// WithAux returns a copy of the material with the auxiliary constant set.
func (m Material) WithAux(key string, value float64) Material {
	c := m.Clone()
	if c.Aux == nil {
		c.Aux = make(map[string]float64, 1)
	}
	c.Aux[key] = value
	return c
}

// Clone returns a deep copy of the material.
func (m Material) Clone() Material {
	c := m
	if m.Aux != nil {
		c.Aux = make(map[string]float64, len(m.Aux))
		for k, v := range m.Aux {
			c.Aux[k] = v
		}
	}
	return c
}

// Validate checks that the elastic and strength constants describe a
// physically admissible orthotropic ply.
func (m Material) Validate() error {
	pos := []struct {
		name string
		v    float64
	}{
		{"E1", m.E1}, {"E2", m.E2}, {"G12", m.G12},
		{"Xt", m.Xt}, {"Xc", m.Xc}, {"Yt", m.Yt}, {"Yc", m.Yc}, {"S", m.S},
	}
	for _, p := range pos {
		if !(p.v > 0) || math.IsInf(p.v, 0) {
			return fmt.Errorf("%w %q: %s must be positive and finite, got %g", ErrInvalidMaterial, m.Name, p.name, p.v)
		}
	}
	if m.Rho < 0 {
		return fmt.Errorf("%w %q: density must not be negative", ErrInvalidMaterial, m.Name)
	}
	// 1 - nu12*nu21 > 0 keeps the reduced stiffness positive definite
	if m.Nu12*m.Nu21() >= 1 || math.IsNaN(m.Nu12) {
		return fmt.Errorf("%w %q: Poisson ratio %g is not admissible", ErrInvalidMaterial, m.Name, m.Nu12)
	}
	return nil
}

// Superlayer derives the synthetic strength-conservative placeholder material
// used to bracket the achievable ply count. Elastic constants are kept; every
// directional strength becomes max(Xt, Xc) and the shear strength
// SuperlayerShearRatio times that value. Auxiliary constants are dropped so
// criteria derive them from the raised strengths.
func (m Material) Superlayer() Material {
	s := m
	s.Aux = nil
	strength := math.Max(m.Xt, m.Xc)
	s.ID = m.ID + "-super"
	s.Name = m.Name + " (superlayer)"
	s.Xt = strength
	s.Xc = strength
	s.Yt = strength
	s.Yc = strength
	s.S = SuperlayerShearRatio * strength
	return s
}
