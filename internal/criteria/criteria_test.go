package criteria

import (
	"bytes"
	"log/slog"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PlyStack/internal/model"
)

func carbon() model.Material {
	return model.NewMaterial("CFRP", 135000, 10000, 5000, 0.27, 1.6, 1500, 1200, 50, 250, 70)
}

func TestZeroStressNeverFails(t *testing.T) {
	for _, c := range builtins {
		rf, err := c.Evaluate(carbon(), model.StressState{})
		require.NoError(t, err, c.Name())
		assert.True(t, math.IsInf(rf.Value, 1), c.Name())
		assert.Equal(t, model.ModeNone, rf.Mode, c.Name())
		assert.Equal(t, model.FailureNone, rf.Type, c.Name())
	}
}

func TestHashinModes(t *testing.T) {
	mat := carbon()
	tests := []struct {
		name  string
		s     model.StressState
		value float64
		mode  string
		typ   model.FailureType
	}{
		{"fiber tension", model.StressState{S11: 750}, 2, model.ModeFiberTension, model.FailureFiber},
		{"fiber compression", model.StressState{S11: -600}, 2, model.ModeFiberCompression, model.FailureFiber},
		{"matrix tension", model.StressState{S22: 25}, 2, model.ModeMatrixTension, model.FailureMatrix},
		{"matrix compression at strength", model.StressState{S22: -250}, 1, model.ModeMatrixCompression, model.FailureMatrix},
		{"pure shear", model.StressState{S12: 35}, 2, model.ModeFiberTension, model.FailureFiber},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rf, err := Hashin{}.Evaluate(mat, tt.s)
			require.NoError(t, err)
			assert.InDelta(t, tt.value, rf.Value, 1e-12)
			assert.Equal(t, tt.mode, rf.Mode)
			assert.Equal(t, tt.typ, rf.Type)
		})
	}
}

func TestHashinShearKnockdown(t *testing.T) {
	mat := carbon().WithAux(AuxHashinAlpha, 0)
	rf, err := Hashin{}.Evaluate(mat, model.StressState{S12: 35})
	require.NoError(t, err)
	// without the shear term in the fiber check only the matrix check remains
	assert.Equal(t, model.ModeMatrixTension, rf.Mode)
	assert.InDelta(t, 2, rf.Value, 1e-12)
}

func TestHashinRejectsInvalidStrength(t *testing.T) {
	mat := carbon()
	mat.Yc = 0
	_, err := Hashin{}.Evaluate(mat, model.StressState{S22: -10})
	assert.ErrorIs(t, err, ErrInvalidStrength)

	_, err = Hashin{}.Evaluate(carbon().WithAux(AuxHashinS23, -1), model.StressState{S22: -10})
	assert.ErrorIs(t, err, ErrInvalidStrength)
}

func TestSolveMatrixCompression(t *testing.T) {
	_, err := solveMatrixCompression(-1, 0.5)
	assert.ErrorIs(t, err, ErrInvalidStrength)

	_, err = solveMatrixCompression(math.NaN(), 0)
	assert.ErrorIs(t, err, ErrInvalidStrength)

	m, err := solveMatrixCompression(0, -1)
	require.NoError(t, err)
	assert.True(t, math.IsInf(m, 1))

	m, err = solveMatrixCompression(0, 2)
	require.NoError(t, err)
	assert.Equal(t, 0.5, m)

	for _, c := range []struct{ q, l float64 }{{1, 0.5}, {1, -0.5}, {1e-8, 3}, {2, 0}} {
		m, err := solveMatrixCompression(c.q, c.l)
		require.NoError(t, err)
		assert.InDelta(t, 0, c.q*m*m+c.l*m-1, 1e-9, "q=%g l=%g", c.q, c.l)
		assert.Greater(t, m, 0.0)
	}
}

func TestMaxStress(t *testing.T) {
	mat := carbon()
	rf, err := MaxStress{}.Evaluate(mat, model.StressState{S11: 300, S22: 10, S12: 35})
	require.NoError(t, err)
	assert.InDelta(t, 2, rf.Value, 1e-12)
	assert.Equal(t, model.ModeShear, rf.Mode)

	rf, err = MaxStress{}.Evaluate(mat, model.StressState{S22: -500})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, rf.Value, 1e-12)
	assert.Equal(t, model.ModeMatrixCompression, rf.Mode)
}

func TestTsaiWuUniaxial(t *testing.T) {
	mat := carbon()
	for _, s := range []model.StressState{{S11: mat.Xt}, {S11: -mat.Xc}, {S22: mat.Yt}, {S22: -mat.Yc}, {S12: mat.S}} {
		rf, err := TsaiWu{}.Evaluate(mat, s)
		require.NoError(t, err)
		assert.InDelta(t, 1, rf.Value, 1e-9, "%+v", s)
	}

	rf, err := TsaiWu{}.Evaluate(mat, model.StressState{S11: mat.Xt / 2})
	require.NoError(t, err)
	assert.Greater(t, rf.Value, 1.0)
	assert.Equal(t, model.FailureFiber, rf.Type)
}

func TestTsaiHillUniaxial(t *testing.T) {
	mat := carbon()
	for _, s := range []model.StressState{{S11: mat.Xt}, {S11: -mat.Xc}, {S22: mat.Yt}, {S22: -mat.Yc}, {S12: mat.S}} {
		rf, err := TsaiHill{}.Evaluate(mat, s)
		require.NoError(t, err)
		assert.InDelta(t, 1, rf.Value, 1e-12, "%+v", s)
	}
}

func TestCriterionTotality(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	component := func() float64 {
		switch rng.Intn(4) {
		case 0:
			return 0
		default:
			return (rng.Float64()*2 - 1) * 2000
		}
	}
	mats := []model.Material{carbon(), model.IsotropicTestMaterial(), carbon().Superlayer()}

	for _, c := range builtins {
		for i := 0; i < 2000; i++ {
			mat := mats[i%len(mats)]
			s := model.StressState{S11: component(), S22: component(), S12: component()}
			rf, err := c.Evaluate(mat, s)
			require.NoError(t, err, "%s %+v", c.Name(), s)
			assert.False(t, math.IsNaN(rf.Value), "%s %+v", c.Name(), s)
			assert.Greater(t, rf.Value, 0.0, "%s %+v", c.Name(), s)
			if s.IsZero() {
				assert.Equal(t, model.FailureNone, rf.Type)
			} else if !math.IsInf(rf.Value, 1) {
				assert.Contains(t, []model.FailureType{model.FailureFiber, model.FailureMatrix}, rf.Type)
			}
		}
	}
}

func TestRegistryResolveFallback(t *testing.T) {
	var buf bytes.Buffer
	r := NewRegistry(slog.New(slog.NewTextHandler(&buf, nil)))

	assert.Equal(t, []string{"Hashin", "MaxStress", "TsaiWu", "TsaiHill"}, r.Names())
	assert.Equal(t, "TsaiWu", r.Resolve("TsaiWu").Name())
	assert.Equal(t, int64(0), r.Fallbacks())

	assert.Equal(t, DefaultName, r.Resolve("Puck").Name())
	assert.Equal(t, int64(1), r.Fallbacks())
	assert.Contains(t, buf.String(), "Puck")

	assert.Equal(t, DefaultName, r.Resolve("").Name())
	assert.Equal(t, int64(1), r.Fallbacks())
}

func TestRegistryLookupAndRegister(t *testing.T) {
	r := NewRegistry(nil)
	_, err := r.Lookup("Puck")
	assert.ErrorIs(t, err, ErrUnknownCriterion)

	assert.Error(t, r.Register(Hashin{}))
}
