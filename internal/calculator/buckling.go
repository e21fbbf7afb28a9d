package calculator

import (
	"fmt"
	"math"

	"github.com/piwi3910/PlyStack/internal/clt"
	"github.com/piwi3910/PlyStack/internal/model"
)

const defaultHalfWaves = 10

// Buckling checks a simply supported rectangular plate under biaxial
// compression. The closed form ignores D16 and D26, so it needs a symmetric
// laminate.
type Buckling struct {
	def model.BucklingDef
}

// NewBuckling creates a buckling calculator.
func NewBuckling(def model.BucklingDef) (*Buckling, error) {
	if !(def.A > 0) || !(def.B > 0) {
		return nil, fmt.Errorf("%w: plate %g x %g", ErrInvalidGeometry, def.A, def.B)
	}
	if def.MaxM <= 0 {
		def.MaxM = defaultHalfWaves
	}
	if def.MaxN <= 0 {
		def.MaxN = defaultHalfWaves
	}
	if def.Name == "" {
		def.Name = "buckling"
	}
	return &Buckling{def: def}, nil
}

func (c *Buckling) Name() string { return c.def.Name }

func (c *Buckling) SymmetricLaminateNeeded() bool { return true }

// Factor returns the buckling load factor for the given bending stiffness.
// Only half-wave pairs with a compressive denominator are considered; +Inf
// means the load does not compress the plate.
func (c *Buckling) Factor(d clt.Matrix3) (factor float64, m, n int) {
	factor = math.Inf(1)
	for i := 1; i <= c.def.MaxM; i++ {
		am := float64(i) / c.def.A
		am2 := am * am
		for j := 1; j <= c.def.MaxN; j++ {
			bn := float64(j) / c.def.B
			bn2 := bn * bn
			den := c.def.Nx*am2 + c.def.Ny*bn2
			if den <= 0 {
				continue
			}
			num := math.Pi * math.Pi * (d[0][0]*am2*am2 + 2*(d[0][1]+2*d[2][2])*am2*bn2 + d[1][1]*bn2*bn2)
			if f := num / den; f < factor {
				factor, m, n = f, i, j
			}
		}
	}
	return factor, m, n
}

func (c *Buckling) Evaluate(lam model.Laminate) (Governing, error) {
	st, err := clt.Compute(lam)
	if err != nil {
		return Governing{}, err
	}
	gov := Governing{Calculator: c.def.Name, ReserveFactor: model.NoFailure(), Ply: -1}
	if f, _, _ := c.Factor(st.D()); !math.IsInf(f, 1) {
		gov.ReserveFactor = model.ReserveFactor{Value: f, Mode: model.ModeBuckling, Type: model.FailureNone}
	}
	return gov, nil
}

func (c *Buckling) MinimalReserveFactor(lam model.Laminate) (float64, error) {
	gov, err := c.Evaluate(lam)
	if err != nil {
		return 0, err
	}
	return gov.ReserveFactor.Value, nil
}
