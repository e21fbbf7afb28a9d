package clt

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/piwi3910/PlyStack/internal/model"
)

// SurfaceState is the stress and strain at one surface of a ply.
type SurfaceState struct {
	Z float64

	// Laminate axes (x, y, xy), engineering shear strain.
	GlobalStrain Vector3
	GlobalStress Vector3

	// Material axes (1, 2, 12).
	Strain Vector3
	Stress model.StressState
}

// PlyState holds the recovered state at both surfaces of a physical ply.
type PlyState struct {
	Layer  model.Layer
	Index  int
	Top    SurfaceState
	Bottom SurfaceState
}

// Response is the laminate answer to one load state. Loads and Strains hold
// both the prescribed and the derived components.
type Response struct {
	Loads   model.Loads
	Strains model.Strains
	Plies   []PlyState
}

// Recover resolves the load state against the laminate and evaluates every
// ply surface. For each degree of freedom either the strain or the load is
// prescribed; the hygrothermal resultants of DeltaT and DeltaM act as
// additional loads.
func Recover(st *Stiffness, load model.LoadState) (Response, error) {
	f := load.Loads.Vector()
	e := load.Strains.Vector()
	var fht [6]float64
	for i := range fht {
		fht[i] = load.DeltaT*st.ThermalUnit[i] + load.DeltaM*st.MoistureUnit[i]
	}

	var unknown, known []int
	for i, prescribed := range load.StrainPrescribed {
		if prescribed {
			known = append(known, i)
		} else {
			unknown = append(unknown, i)
		}
	}

	switch {
	case len(known) == 0:
		for i := 0; i < 6; i++ {
			var sum float64
			for j := 0; j < 6; j++ {
				sum += st.Compliance.At(i, j) * (f[j] + fht[j])
			}
			e[i] = sum
		}
	case len(unknown) > 0:
		auu := mat.NewDense(len(unknown), len(unknown), nil)
		rhs := mat.NewVecDense(len(unknown), nil)
		for r, i := range unknown {
			v := f[i] + fht[i]
			for _, k := range known {
				v -= st.ABD.At(i, k) * e[k]
			}
			rhs.SetVec(r, v)
			for c, j := range unknown {
				auu.Set(r, c, st.ABD.At(i, j))
			}
		}
		var x mat.VecDense
		if err := x.SolveVec(auu, rhs); err != nil {
			return Response{}, fmt.Errorf("%w: mixed boundary condition: %v", ErrSingular, err)
		}
		for r, i := range unknown {
			e[i] = x.AtVec(r)
		}
	}

	for _, k := range known {
		var sum float64
		for j := 0; j < 6; j++ {
			sum += st.ABD.At(k, j) * e[j]
		}
		f[k] = sum - fht[k]
	}

	resp := Response{
		Loads:   model.LoadsFromVector(f),
		Strains: model.StrainsFromVector(e),
		Plies:   make([]PlyState, len(st.Plies)),
	}
	eps0 := Vector3{e[0], e[1], e[2]}
	kappa := Vector3{e[3], e[4], e[5]}
	for i, p := range st.Plies {
		resp.Plies[i] = PlyState{
			Layer:  p.Layer,
			Index:  p.Index,
			Top:    surface(p, p.ZTop, eps0, kappa, load.DeltaT, load.DeltaM),
			Bottom: surface(p, p.ZBottom, eps0, kappa, load.DeltaT, load.DeltaM),
		}
	}
	return resp, nil
}

func surface(p Ply, z float64, eps0, kappa Vector3, dT, dM float64) SurfaceState {
	var total, mech Vector3
	for i := 0; i < 3; i++ {
		total[i] = eps0[i] + z*kappa[i]
		mech[i] = total[i] - p.Alpha[i]*dT - p.Beta[i]*dM
	}
	sigma := p.Qbar.MulVec(mech)
	return SurfaceState{
		Z:            z,
		GlobalStrain: total,
		GlobalStress: sigma,
		Strain:       StrainToMaterial(total, p.Layer.Angle),
		Stress:       StressToMaterial(sigma, p.Layer.Angle),
	}
}
