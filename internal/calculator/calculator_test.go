package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PlyStack/internal/clt"
	"github.com/piwi3910/PlyStack/internal/criteria"
	"github.com/piwi3910/PlyStack/internal/model"
)

func carbon() model.Material {
	return model.NewMaterial("CFRP", 135000, 10000, 5000, 0.27, 1.6, 1500, 1200, 50, 250, 70)
}

func laminate(mat model.Material, angles ...float64) model.Laminate {
	lam := model.NewLaminate(true)
	for _, a := range angles {
		lam = lam.WithLayer(model.NewLayer(mat, a, 0.125, "Hashin"))
	}
	return lam
}

func TestLoadCaseUniaxialTension(t *testing.T) {
	lam := laminate(model.IsotropicTestMaterial(), 0, 0, 0)
	c := NewLoadCase("tension", model.LoadsOnly(model.Loads{Nx: 1000}), nil)

	rf, err := c.MinimalReserveFactor(lam)
	require.NoError(t, err)
	// σ1 = 1000 / 0.75
	assert.InDelta(t, 1.125, rf, 1e-9)

	gov, err := c.Evaluate(lam)
	require.NoError(t, err)
	assert.Equal(t, model.ModeFiberTension, gov.ReserveFactor.Mode)
	assert.Equal(t, "tension", gov.Calculator)
	assert.GreaterOrEqual(t, gov.Ply, 0)
}

func TestLoadCaseMonotonic(t *testing.T) {
	lam := laminate(carbon(), 0, 45, -45, 90)
	base := model.Loads{Nx: 100, Ny: -40, Nxy: 25, Mx: 3}

	prev := math.Inf(1)
	for _, f := range []float64{0.5, 1, 2, 4, 8} {
		l := model.Loads{Nx: base.Nx * f, Ny: base.Ny * f, Nxy: base.Nxy * f, Mx: base.Mx * f}
		rf, err := NewLoadCase("", model.LoadsOnly(l), nil).MinimalReserveFactor(lam)
		require.NoError(t, err)
		assert.LessOrEqual(t, rf, prev, "scale %g", f)
		prev = rf
	}
}

func TestLoadCaseUnloaded(t *testing.T) {
	rf, err := NewLoadCase("", model.LoadState{}, nil).MinimalReserveFactor(laminate(carbon(), 0))
	require.NoError(t, err)
	assert.True(t, math.IsInf(rf, 1))
}

func TestLoadCaseEmptyLaminate(t *testing.T) {
	_, err := NewLoadCase("", model.LoadsOnly(model.Loads{Nx: 1}), nil).MinimalReserveFactor(model.NewLaminate(true))
	assert.ErrorIs(t, err, clt.ErrEmptyLaminate)
}

func TestPressureVesselLoads(t *testing.T) {
	closed := VesselLoads(model.PressureVesselDef{Pressure: 2, Radius: 100, ClosedEnds: true})
	assert.Equal(t, 100.0, closed.Loads.Nx)
	assert.Equal(t, 200.0, closed.Loads.Ny)

	open := VesselLoads(model.PressureVesselDef{Pressure: 2, Radius: 100})
	assert.Equal(t, 0.0, open.Loads.Nx)

	_, err := NewPressureVessel(model.PressureVesselDef{Pressure: 1}, nil)
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}

func TestPressureVesselPrefersHoopPlies(t *testing.T) {
	c, err := NewPressureVessel(model.PressureVesselDef{Pressure: 1, Radius: 100, ClosedEnds: true}, nil)
	require.NoError(t, err)
	assert.False(t, c.SymmetricLaminateNeeded())

	hoop, err := c.MinimalReserveFactor(laminate(carbon(), 90, 90))
	require.NoError(t, err)
	axial, err := c.MinimalReserveFactor(laminate(carbon(), 0, 0))
	require.NoError(t, err)
	assert.Greater(t, hoop, axial)
}

func TestBucklingFactorFormula(t *testing.T) {
	lam := laminate(carbon(), 0, 45, -45, 90)
	st, err := clt.Compute(lam)
	require.NoError(t, err)
	d := st.D()

	c, err := NewBuckling(model.BucklingDef{A: 300, B: 300, Nx: 10, MaxM: 1, MaxN: 1})
	require.NoError(t, err)
	assert.True(t, c.SymmetricLaminateNeeded())

	f, m, n := c.Factor(d)
	a := 1.0 / 300
	want := math.Pi * math.Pi * (d[0][0]*a*a*a*a + 2*(d[0][1]+2*d[2][2])*a*a*a*a + d[1][1]*a*a*a*a) / (10 * a * a)
	assert.InDelta(t, want, f, 1e-9*want)
	assert.Equal(t, 1, m)
	assert.Equal(t, 1, n)

	rf, err := c.MinimalReserveFactor(lam)
	require.NoError(t, err)
	assert.InDelta(t, want, rf, 1e-9*want)
}

func TestBucklingWithoutCompression(t *testing.T) {
	c, err := NewBuckling(model.BucklingDef{A: 300, B: 200, Nx: -50, Ny: 0})
	require.NoError(t, err)
	rf, err := c.MinimalReserveFactor(laminate(carbon(), 0, 90))
	require.NoError(t, err)
	assert.True(t, math.IsInf(rf, 1))

	_, err = NewBuckling(model.BucklingDef{A: 0, B: 200})
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}

func TestBucklingMonotonic(t *testing.T) {
	lam := laminate(carbon(), 45, -45, 0, 90)
	prev := math.Inf(1)
	for _, nx := range []float64{1, 5, 25, 125} {
		c, err := NewBuckling(model.BucklingDef{A: 500, B: 250, Nx: nx, Ny: nx / 4})
		require.NoError(t, err)
		rf, err := c.MinimalReserveFactor(lam)
		require.NoError(t, err)
		assert.Less(t, rf, prev)
		prev = rf
	}
}

func TestDeflectionCenter(t *testing.T) {
	lam := laminate(model.IsotropicTestMaterial(), 0, 0, 0, 0)
	st, err := clt.Compute(lam)
	require.NoError(t, err)

	c, err := NewDeflection(model.DeflectionDef{A: 200, B: 200, Pressure: 0.01}, nil)
	require.NoError(t, err)
	assert.True(t, c.SymmetricLaminateNeeded())

	// isotropic square plate: w = 0.00406 q a^4 / D
	w := c.CenterDeflection(st.D())
	want := 0.00406 * 0.01 * math.Pow(200, 4) / st.D()[0][0]
	assert.InDelta(t, want, w, 0.01*want)
}

func TestDeflectionMargins(t *testing.T) {
	lam := laminate(carbon(), 0, 90, 0, 90)
	strengthOnly, err := NewDeflection(model.DeflectionDef{A: 300, B: 200, Pressure: 0.05, Terms: 9, Grid: 6}, nil)
	require.NoError(t, err)
	rfStrength, err := strengthOnly.MinimalReserveFactor(lam)
	require.NoError(t, err)
	assert.Greater(t, rfStrength, 0.0)
	assert.False(t, math.IsInf(rfStrength, 1))

	stiff, err := NewDeflection(model.DeflectionDef{A: 300, B: 200, Pressure: 0.05, Terms: 9, Grid: 6, MaxDeflection: 1e-6}, nil)
	require.NoError(t, err)
	gov, err := stiff.Evaluate(lam)
	require.NoError(t, err)
	assert.Equal(t, model.ModeDeflection, gov.ReserveFactor.Mode)
	assert.Less(t, gov.ReserveFactor.Value, rfStrength)
}

func TestCombinedAndSymmetry(t *testing.T) {
	reg := criteria.NewRegistry(nil)
	lam := laminate(carbon(), 0, 45, -45, 90)
	light := NewLoadCase("light", model.LoadsOnly(model.Loads{Nx: 10}), reg)
	heavy := NewLoadCase("heavy", model.LoadsOnly(model.Loads{Nx: 100}), reg)

	rfHeavy, err := heavy.MinimalReserveFactor(lam)
	require.NoError(t, err)
	combined, err := Combined([]Calculator{light, heavy}, lam)
	require.NoError(t, err)
	assert.Equal(t, rfHeavy, combined)

	assert.False(t, SymmetryRequired([]Calculator{light, heavy}))
	b, err := NewBuckling(model.BucklingDef{A: 100, B: 100, Nx: 1})
	require.NoError(t, err)
	assert.True(t, SymmetryRequired([]Calculator{light, b}))

	empty, err := Combined(nil, lam)
	require.NoError(t, err)
	assert.True(t, math.IsInf(empty, 1))
}

func TestFromStudy(t *testing.T) {
	s := model.NewStudy("panel", "", model.DefaultSettings())
	s.LoadCases = []model.LoadCaseDef{{Name: "cruise", State: model.LoadsOnly(model.Loads{Nx: 100})}}
	s.Vessels = []model.PressureVesselDef{{Name: "burst", Pressure: 1, Radius: 50}}
	s.Buckling = []model.BucklingDef{{Name: "panel", A: 300, B: 200, Nx: 10}}
	s.Deflection = []model.DeflectionDef{{Name: "floor", A: 300, B: 200, Pressure: 0.01}}

	calcs, err := FromStudy(s, nil)
	require.NoError(t, err)
	require.Len(t, calcs, 4)
	assert.Equal(t, "cruise", calcs[0].Name())
	assert.Equal(t, "floor", calcs[3].Name())
	for _, c := range calcs {
		_, ok := c.(Explainer)
		assert.True(t, ok, c.Name())
	}

	s.Buckling[0].B = 0
	_, err = FromStudy(s, nil)
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}
