package criteria

import "github.com/piwi3910/PlyStack/internal/model"

// MaxStress compares every stress component with its strength independently.
type MaxStress struct{}

func (MaxStress) Name() string { return "MaxStress" }

func (MaxStress) Evaluate(mat model.Material, s model.StressState) (model.ReserveFactor, error) {
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
	rf := model.ReserveFactor{Value: ratio(x, s.S11), Mode: fiberMode(s.S11), Type: model.FailureFiber}
	rf = model.MinReserveFactor(rf, model.ReserveFactor{Value: ratio(y, s.S22), Mode: matrixMode(s.S22), Type: model.FailureMatrix})
	rf = model.MinReserveFactor(rf, model.ReserveFactor{Value: ratio(mat.S, s.S12), Mode: model.ModeShear, Type: model.FailureMatrix})
	return finish(rf), nil
}
