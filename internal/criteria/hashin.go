package criteria

import (
	"fmt"
	"math"

	"github.com/piwi3910/PlyStack/internal/model"
)

// Aux keys read by Hashin.
const (
	AuxHashinAlpha = "hashin_alpha" // Shear knockdown in fiber tension, default 1
	AuxHashinS23   = "hashin_s23"   // Transverse shear strength, default Yc/2.4
)

// Hashin separates fiber and matrix failure and reports the governing mode.
type Hashin struct{}

func (Hashin) Name() string { return "Hashin" }

func (Hashin) Evaluate(mat model.Material, s model.StressState) (model.ReserveFactor, error) {
	if s.IsZero() {
		return model.NoFailure(), nil
	}
	if err := checkStrengths(mat); err != nil {
		return model.ReserveFactor{}, err
	}
	alpha := mat.AuxOr(AuxHashinAlpha, 1.0)
	s23 := mat.AuxOr(AuxHashinS23, mat.Yc/2.4)
	if alpha < 0 || !(s23 > 0) {
		return model.ReserveFactor{}, fmt.Errorf("%w: material %q has %s = %g, %s = %g",
			ErrInvalidStrength, mat.Name, AuxHashinAlpha, alpha, AuxHashinS23, s23)
	}

	tau := s.S12 / mat.S
	fiber := model.ReserveFactor{Type: model.FailureFiber, Mode: fiberMode(s.S11)}
	if s.S11 >= 0 {
		x := s.S11 / mat.Xt
		fiber.Value = inverseNorm(x*x + alpha*tau*tau)
	} else {
		fiber.Value = mat.Xc / -s.S11
	}

	matrix := model.ReserveFactor{Type: model.FailureMatrix}
	if s.S22 >= 0 {
		y := s.S22 / mat.Yt
		matrix.Value = inverseNorm(y*y + tau*tau)
		matrix.Mode = model.ModeMatrixTension
	} else {
		r := s.S22 / (2 * s23)
		q := r*r + tau*tau
		c := mat.Yc / (2 * s23)
		l := (c*c - 1) * s.S22 / mat.Yc
		m, err := solveMatrixCompression(q, l)
		if err != nil {
			return model.ReserveFactor{}, fmt.Errorf("material %q, s22 = %g, s12 = %g: %w", mat.Name, s.S22, s.S12, err)
		}
		matrix.Value = m
		matrix.Mode = model.ModeMatrixCompression
	}

	return finish(model.MinReserveFactor(fiber, matrix)), nil
}

// solveMatrixCompression returns the positive root of q·m² + l·m - 1 = 0.
func solveMatrixCompression(q, l float64) (float64, error) {
	disc := l*l + 4*q
	if disc < 0 || math.IsNaN(disc) {
		return 0, fmt.Errorf("%w: matrix compression discriminant %g is negative (q = %g, l = %g)",
			ErrInvalidStrength, disc, q, l)
	}
	if q == 0 {
		if l > 0 {
			return 1 / l, nil
		}
		return math.Inf(1), nil
	}
	root := math.Sqrt(disc)
	if l > 0 {
		// same root without cancellation between root and l
		return 2 / (root + l), nil
	}
	return (root - l) / (2 * q), nil
}
