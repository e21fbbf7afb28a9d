package calculator

import (
	"fmt"
	"math"

	"github.com/piwi3910/PlyStack/internal/clt"
	"github.com/piwi3910/PlyStack/internal/criteria"
	"github.com/piwi3910/PlyStack/internal/model"
)

const (
	defaultSeriesTerms = 19
	defaultGrid        = 10
)

// Deflection checks a simply supported rectangular plate under uniform
// lateral pressure using the Navier series for a specially orthotropic
// plate. Ply strength is sampled on a grid; when MaxDeflection is set the
// centre deflection adds a stiffness margin.
type Deflection struct {
	def model.DeflectionDef
	reg *criteria.Registry
}

// NewDeflection creates a plate deflection calculator.
func NewDeflection(def model.DeflectionDef, reg *criteria.Registry) (*Deflection, error) {
	if !(def.A > 0) || !(def.B > 0) {
		return nil, fmt.Errorf("%w: plate %g x %g", ErrInvalidGeometry, def.A, def.B)
	}
	if def.MaxDeflection < 0 {
		return nil, fmt.Errorf("%w: deflection limit %g", ErrInvalidGeometry, def.MaxDeflection)
	}
	if def.Terms <= 0 {
		def.Terms = defaultSeriesTerms
	}
	if def.Grid <= 0 {
		def.Grid = defaultGrid
	}
	if def.Name == "" {
		def.Name = "deflection"
	}
	if reg == nil {
		reg = criteria.NewRegistry(nil)
	}
	return &Deflection{def: def, reg: reg}, nil
}

func (c *Deflection) Name() string { return c.def.Name }

func (c *Deflection) SymmetricLaminateNeeded() bool { return true }

// term is one coefficient of the double series.
type term struct {
	am, bn float64 // mπ/a, nπ/b
	w      float64 // Deflection amplitude
}

func (c *Deflection) series(d clt.Matrix3) []term {
	var terms []term
	for m := 1; m <= c.def.Terms; m += 2 {
		am := float64(m) * math.Pi / c.def.A
		for n := 1; n <= c.def.Terms; n += 2 {
			bn := float64(n) * math.Pi / c.def.B
			stiff := d[0][0]*math.Pow(am, 4) + 2*(d[0][1]+2*d[2][2])*am*am*bn*bn + d[1][1]*math.Pow(bn, 4)
			load := 16 * c.def.Pressure / (math.Pi * math.Pi * float64(m*n))
			terms = append(terms, term{am: am, bn: bn, w: load / stiff})
		}
	}
	return terms
}

// CenterDeflection returns the deflection at the plate centre.
func (c *Deflection) CenterDeflection(d clt.Matrix3) float64 {
	var w float64
	for _, t := range c.series(d) {
		w += t.w * math.Sin(t.am*c.def.A/2) * math.Sin(t.bn*c.def.B/2)
	}
	return w
}

// moments returns the bending resultants at (x, y).
func moments(d clt.Matrix3, terms []term, x, y float64) model.Loads {
	var l model.Loads
	for _, t := range terms {
		ss := math.Sin(t.am*x) * math.Sin(t.bn*y)
		cc := math.Cos(t.am*x) * math.Cos(t.bn*y)
		kx, ky := t.w*t.am*t.am*ss, t.w*t.bn*t.bn*ss
		kxy := -2 * t.w * t.am * t.bn * cc
		l.Mx += d[0][0]*kx + d[0][1]*ky
		l.My += d[0][1]*kx + d[1][1]*ky
		l.Mxy += d[2][2] * kxy
	}
	return l
}

func (c *Deflection) Evaluate(lam model.Laminate) (Governing, error) {
	st, err := clt.Compute(lam)
	if err != nil {
		return Governing{}, err
	}
	d := st.D()
	terms := c.series(d)

	gov := Governing{Calculator: c.def.Name, ReserveFactor: model.NoFailure(), Ply: -1}
	for i := 0; i <= c.def.Grid; i++ {
		x := c.def.A * float64(i) / float64(c.def.Grid)
		for j := 0; j <= c.def.Grid; j++ {
			y := c.def.B * float64(j) / float64(c.def.Grid)
			resp, err := clt.Recover(st, model.LoadsOnly(moments(d, terms, x, y)))
			if err != nil {
				return Governing{}, err
			}
			g, err := strength(c.reg, resp)
			if err != nil {
				return Governing{}, fmt.Errorf("at (%g, %g): %w", x, y, err)
			}
			if g.ReserveFactor.Value < gov.ReserveFactor.Value {
				g.Calculator = c.def.Name
				gov = g
			}
		}
	}

	if c.def.MaxDeflection > 0 {
		if w := math.Abs(c.CenterDeflection(d)); w > 0 {
			rf := model.ReserveFactor{Value: c.def.MaxDeflection / w, Mode: model.ModeDeflection, Type: model.FailureNone}
			if rf.Value < gov.ReserveFactor.Value {
				gov = Governing{Calculator: c.def.Name, ReserveFactor: rf, Ply: -1}
			}
		}
	}
	return gov, nil
}

func (c *Deflection) MinimalReserveFactor(lam model.Laminate) (float64, error) {
	gov, err := c.Evaluate(lam)
	if err != nil {
		return 0, err
	}
	return gov.ReserveFactor.Value, nil
}
