package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PlyStack/internal/model"
)

func sampleStudy() model.Study {
	s := model.NewStudy("Wing skin", "upper panel", model.DefaultSettings())
	s.LoadCases = []model.LoadCaseDef{{
		Name:  "cruise",
		State: model.LoadState{Loads: model.Loads{Nx: 250, Nxy: 80}},
	}}
	s.Vessels = []model.PressureVesselDef{{Name: "tank", Pressure: 2, Radius: 150, ClosedEnds: true}}
	s.Buckling = []model.BucklingDef{{Name: "bay", A: 400, B: 200, Nx: 50}}
	s.Deflection = []model.DeflectionDef{{Name: "floor", A: 300, B: 300, Pressure: 0.01, MaxDeflection: 2}}
	return s
}

func TestSaveAndLoadStudies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "studies.json")

	store := model.NewStudyStore()
	store.Add(sampleStudy())
	store.Add(model.NewStudy("Bracket", "", model.DefaultSettings()))

	require.NoError(t, SaveStudies(path, store))

	loaded, err := LoadStudies(path)
	require.NoError(t, err)
	require.Len(t, loaded.Studies, 2)
	assert.Equal(t, []string{"Wing skin", "Bracket"}, loaded.Names())

	wing := loaded.FindByName("Wing skin")
	require.NotNil(t, wing)
	assert.Equal(t, 4, wing.RequirementCount())
	assert.Equal(t, 250.0, wing.LoadCases[0].State.Loads.Nx)
	assert.True(t, wing.Vessels[0].ClosedEnds)
}

func TestLoadStudiesMissingFile(t *testing.T) {
	store, err := LoadStudies(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.NotNil(t, store.Studies)
	assert.Empty(t, store.Studies)
}

func TestLoadStudiesNullList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "studies.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"studies":null}`), 0644))

	store, err := LoadStudies(path)
	require.NoError(t, err)
	assert.NotNil(t, store.Studies)
}

func TestSaveAndLoadStudyYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wing.yaml")
	want := sampleStudy()

	require.NoError(t, SaveStudy(path, want))

	got, err := LoadStudy(path)
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Settings.Angles, got.Settings.Angles)
	assert.Equal(t, want.Buckling, got.Buckling)
	assert.Equal(t, want.Deflection, got.Deflection)
}

func TestLoadStudyJSONKeepsDefaultSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panel.json")
	body := `{"settings":{"algorithm":"todoroki"},"load_cases":[{"name":"shear","state":{"loads":{"nxy":100}}}]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	got, err := LoadStudy(path)
	require.NoError(t, err)
	assert.Equal(t, "panel", got.Name, "name falls back to the file name")
	assert.Equal(t, model.AlgorithmTodoroki, got.Settings.Algorithm)
	assert.Equal(t, model.DefaultSettings().PlyThickness, got.Settings.PlyThickness)
	assert.Equal(t, model.DefaultSettings().Angles, got.Settings.Angles)
	require.Len(t, got.LoadCases, 1)
	assert.Equal(t, 100.0, got.LoadCases[0].State.Loads.Nxy)
}

func TestLoadStudyErrors(t *testing.T) {
	_, err := LoadStudy(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("settings: [unterminated"), 0644))
	_, err = LoadStudy(path)
	assert.Error(t, err)
}
