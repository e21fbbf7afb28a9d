package criteria

import (
	"fmt"
	"math"

	"github.com/piwi3910/PlyStack/internal/model"
)

// AuxTsaiWuF12Star is the normalized interaction coefficient, default -0.5.
const AuxTsaiWuF12Star = "tsaiwu_f12star"

// TsaiWu is the fully interactive quadratic criterion.
type TsaiWu struct{}

func (TsaiWu) Name() string { return "TsaiWu" }

func (TsaiWu) Evaluate(mat model.Material, s model.StressState) (model.ReserveFactor, error) {
	if s.IsZero() {
		return model.NoFailure(), nil
	}
	if err := checkStrengths(mat); err != nil {
		return model.ReserveFactor{}, err
	}

	f1 := 1/mat.Xt - 1/mat.Xc
	f2 := 1/mat.Yt - 1/mat.Yc
	f11 := 1 / (mat.Xt * mat.Xc)
	f22 := 1 / (mat.Yt * mat.Yc)
	f66 := 1 / (mat.S * mat.S)
	f12 := mat.AuxOr(AuxTsaiWuF12Star, -0.5) * math.Sqrt(f11*f22)

	fiberQ := f11 * s.S11 * s.S11
	fiberL := f1 * s.S11
	matrixQ := f22*s.S22*s.S22 + f66*s.S12*s.S12
	matrixL := f2 * s.S22
	a := fiberQ + matrixQ + 2*f12*s.S11*s.S22
	b := fiberL + matrixL

	// a·R² + b·R - 1 = 0
	var r float64
	switch disc := b*b + 4*a; {
	case disc < 0 || math.IsNaN(disc):
		return model.ReserveFactor{}, fmt.Errorf("%w: Tsai-Wu discriminant %g is negative for material %q",
			ErrInvalidStrength, disc, mat.Name)
	case a == 0 && b <= 0:
		r = math.Inf(1)
	case a == 0:
		r = 1 / b
	case b > 0:
		r = 2 / (math.Sqrt(disc) + b)
	default:
		r = (math.Sqrt(disc) - b) / (2 * a)
	}
	if !(r > 0) {
		r = math.Inf(1)
	}

	rf := model.ReserveFactor{Value: r}
	if math.Abs(fiberQ)+math.Abs(fiberL) >= math.Abs(matrixQ)+math.Abs(matrixL) {
		rf.Mode, rf.Type = fiberMode(s.S11), model.FailureFiber
	} else {
		rf.Mode, rf.Type = matrixMode(s.S22), model.FailureMatrix
	}
	return finish(rf), nil
}
