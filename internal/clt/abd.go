package clt

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/piwi3910/PlyStack/internal/model"
)

var (
	// ErrEmptyLaminate is returned for a laminate without layers.
	ErrEmptyLaminate = errors.New("laminate has no layers")
	// ErrInvalidThickness is returned when a layer thickness is not positive.
	ErrInvalidThickness = errors.New("invalid layer thickness")
	// ErrSingular is returned when the laminate relation cannot be inverted.
	ErrSingular = errors.New("laminate stiffness is singular")
)

// Ply is one physical ply placed through the thickness. ZTop is the surface
// closer to the first layer of the stack (z = -h/2), ZBottom the other one.
type Ply struct {
	Layer   model.Layer
	Index   int // Position in Laminate.PhysicalLayers
	ZTop    float64
	ZBottom float64
	Qbar    Matrix3
	Alpha   Vector3
	Beta    Vector3
}

// Stiffness is the result of integrating a laminate through its thickness.
type Stiffness struct {
	ABD        *mat.Dense // 6x6, [A B; B D]
	Compliance *mat.Dense // Inverse of ABD
	Thickness  float64
	Plies      []Ply

	// Hygrothermal resultants per unit temperature and moisture change,
	// in degree of freedom order (N, M).
	ThermalUnit  [6]float64
	MoistureUnit [6]float64

	coupled bool
}

// Coupled reports whether the laminate has a structurally non-zero B block.
// Symmetric laminates never do.
func (s *Stiffness) Coupled() bool {
	return s.coupled
}

func (s *Stiffness) block(r, c int) Matrix3 {
	var m Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = s.ABD.At(r+i, c+j)
		}
	}
	return m
}

// A returns the extensional stiffness block.
func (s *Stiffness) A() Matrix3 { return s.block(0, 0) }

// B returns the extension-bending coupling block.
func (s *Stiffness) B() Matrix3 { return s.block(0, 3) }

// D returns the bending stiffness block.
func (s *Stiffness) D() Matrix3 { return s.block(3, 3) }

// integrator accumulates the through-thickness integrals.
type integrator struct {
	a, b, d        Matrix3
	nT, mT, nM, mM Vector3
}

func (in *integrator) add(q Matrix3, alpha, beta Vector3, z0, z1 float64) {
	t := z1 - z0
	z2 := (z1*z1 - z0*z0) / 2
	z3 := (z1*z1*z1 - z0*z0*z0) / 3
	in.a = in.a.Add(q.Scale(t))
	in.b = in.b.Add(q.Scale(z2))
	in.d = in.d.Add(q.Scale(z3))
	qa, qb := q.MulVec(alpha), q.MulVec(beta)
	for i := 0; i < 3; i++ {
		in.nT[i] += qa[i] * t
		in.mT[i] += qa[i] * z2
		in.nM[i] += qb[i] * t
		in.mM[i] += qb[i] * z2
	}
}

// addMirrored adds a ply at [-z1, -z0] and its mirror image at [z0, z1].
// Odd moments cancel exactly and are not accumulated.
func (in *integrator) addMirrored(q Matrix3, alpha, beta Vector3, z0, z1 float64) {
	t := z1 - z0
	z3 := (z1*z1*z1 - z0*z0*z0) / 3
	in.a = in.a.Add(q.Scale(2 * t))
	in.d = in.d.Add(q.Scale(2 * z3))
	qa, qb := q.MulVec(alpha), q.MulVec(beta)
	for i := 0; i < 3; i++ {
		in.nT[i] += 2 * qa[i] * t
		in.nM[i] += 2 * qb[i] * t
	}
}

// Compute integrates the laminate into its ABD relation and inverts it.
func Compute(lam model.Laminate) (*Stiffness, error) {
	physical := lam.PhysicalLayers()
	if len(physical) == 0 {
		return nil, ErrEmptyLaminate
	}
	for i, layer := range physical {
		if !(layer.Thickness > 0) || math.IsInf(layer.Thickness, 0) {
			return nil, fmt.Errorf("%w: layer %d (%s) has thickness %g", ErrInvalidThickness, i, layer.Name, layer.Thickness)
		}
	}

	st := &Stiffness{Plies: make([]Ply, len(physical))}
	var in integrator
	if lam.Symmetric {
		integrateSymmetric(lam, physical, st, &in)
	} else {
		integrateStack(physical, st, &in)
	}

	st.ABD = mat.NewDense(6, 6, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			st.ABD.Set(i, j, in.a[i][j])
			st.ABD.Set(i, j+3, in.b[i][j])
			st.ABD.Set(i+3, j, in.b[i][j])
			st.ABD.Set(i+3, j+3, in.d[i][j])
		}
		st.ThermalUnit[i] = in.nT[i]
		st.ThermalUnit[i+3] = in.mT[i]
		st.MoistureUnit[i] = in.nM[i]
		st.MoistureUnit[i+3] = in.mM[i]
	}
	st.coupled = in.b != Matrix3{}

	compliance, err := invert(st.ABD, st.coupled)
	if err != nil {
		return nil, err
	}
	st.Compliance = compliance
	return st, nil
}

// integrateStack places the plies from z = -h/2 downwards.
func integrateStack(physical []model.Layer, st *Stiffness, in *integrator) {
	var h float64
	for _, layer := range physical {
		h += layer.Thickness
	}
	z0 := -h / 2
	for i, layer := range physical {
		z1 := z0 + layer.Thickness
		if i == len(physical)-1 {
			z1 = h / 2
		}
		p := newPly(layer, i, z0, z1)
		in.add(p.Qbar, p.Alpha, p.Beta, z0, z1)
		st.Plies[i] = p
		z0 = z1
	}
	st.Thickness = h
}

// integrateSymmetric builds the stack outward from the mid-plane so both
// halves use identical coordinates up to sign and B vanishes exactly.
func integrateSymmetric(lam model.Laminate, physical []model.Layer, st *Stiffness, in *integrator) {
	n := len(lam.Layers)
	total := len(physical)
	half := n
	var cum float64
	if lam.MiddleLayer {
		half = n - 1
		mid := lam.Layers[n-1]
		cum = mid.Thickness / 2
		p := newPly(mid, half, -cum, cum)
		// B and M terms of a ply centred on the mid-plane are zero
		in.a = in.a.Add(p.Qbar.Scale(mid.Thickness))
		in.d = in.d.Add(p.Qbar.Scale(mid.Thickness * mid.Thickness * mid.Thickness / 12))
		qa, qb := p.Qbar.MulVec(p.Alpha), p.Qbar.MulVec(p.Beta)
		for i := 0; i < 3; i++ {
			in.nT[i] += qa[i] * mid.Thickness
			in.nM[i] += qb[i] * mid.Thickness
		}
		st.Plies[half] = p
	}
	for i := half - 1; i >= 0; i-- {
		layer := lam.Layers[i]
		inner, outer := cum, cum+layer.Thickness
		upper := newPly(layer, i, -outer, -inner)
		in.addMirrored(upper.Qbar, upper.Alpha, upper.Beta, inner, outer)
		st.Plies[i] = upper

		mirror := upper
		mirror.Index = total - 1 - i
		mirror.ZTop, mirror.ZBottom = inner, outer
		st.Plies[mirror.Index] = mirror
		cum = outer
	}
	st.Thickness = 2 * cum
}

func newPly(layer model.Layer, index int, z0, z1 float64) Ply {
	return Ply{
		Layer:   layer,
		Index:   index,
		ZTop:    z0,
		ZBottom: z1,
		Qbar:    TransformedStiffness(layer.Material, layer.Angle),
		Alpha:   ThermalExpansion(layer.Material, layer.Angle),
		Beta:    MoistureExpansion(layer.Material, layer.Angle),
	}
}

// invert returns the inverse of abd. Without coupling the A and D blocks are
// inverted separately and the off-diagonal blocks stay exactly zero.
func invert(abd *mat.Dense, coupled bool) (*mat.Dense, error) {
	if coupled {
		var inv mat.Dense
		if err := inv.Inverse(abd); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSingular, err)
		}
		return &inv, nil
	}
	out := mat.NewDense(6, 6, nil)
	for _, off := range []int{0, 3} {
		block := mat.DenseCopyOf(abd.Slice(off, off+3, off, off+3))
		var inv mat.Dense
		if err := inv.Inverse(block); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSingular, err)
		}
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				out.Set(off+i, off+j, inv.At(i, j))
			}
		}
	}
	return out, nil
}
