package criteria

import "github.com/piwi3910/PlyStack/internal/model"

// TsaiHill is the Hill yield criterion with sign dependent strengths.
type TsaiHill struct{}

func (TsaiHill) Name() string { return "TsaiHill" }

func (TsaiHill) Evaluate(mat model.Material, s model.StressState) (model.ReserveFactor, error) {
	if s.IsZero() {
		return model.NoFailure(), nil
	}
	if err := checkStrengths(mat); err != nil {
		return model.ReserveFactor{}, err
	}

	x, y := mat.Xt, mat.Yt
	if s.S11 < 0 {
		x = mat.Xc
	}
	if s.S22 < 0 {
		y = mat.Yc
	}
	fiber := (s.S11*s.S11 - s.S11*s.S22) / (x * x)
	matrix := (s.S22*s.S22)/(y*y) + (s.S12*s.S12)/(mat.S*mat.S)

	rf := model.ReserveFactor{Value: inverseNorm(fiber + matrix)}
	if fiber >= matrix {
		rf.Mode, rf.Type = fiberMode(s.S11), model.FailureFiber
	} else {
		rf.Mode, rf.Type = matrixMode(s.S22), model.FailureMatrix
	}
	return finish(rf), nil
}
