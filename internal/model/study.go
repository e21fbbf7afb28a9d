package model

import (
	"time"

	"github.com/google/uuid"
)

// LoadCaseDef is a named generic load state.
type LoadCaseDef struct {
	Name  string    `json:"name" yaml:"name"`
	State LoadState `json:"state" yaml:"state"`
}

// PressureVesselDef describes a thin-walled cylinder under internal pressure.
type PressureVesselDef struct {
	Name       string  `json:"name" yaml:"name"`
	Pressure   float64 `json:"pressure" yaml:"pressure"` // MPa
	Radius     float64 `json:"radius" yaml:"radius"`     // mm
	ClosedEnds bool    `json:"closed_ends" yaml:"closed_ends"`
}

// BucklingDef describes a simply supported plate under in-plane compression.
// Positive Nx and Ny are compressive.
type BucklingDef struct {
	Name string  `json:"name" yaml:"name"`
	A    float64 `json:"a" yaml:"a"` // Plate length in x (mm)
	B    float64 `json:"b" yaml:"b"` // Plate width in y (mm)
	Nx   float64 `json:"nx" yaml:"nx"`
	Ny   float64 `json:"ny" yaml:"ny"`
	MaxM int     `json:"max_m,omitempty" yaml:"max_m,omitempty"` // Half-waves in x, 0 = default
	MaxN int     `json:"max_n,omitempty" yaml:"max_n,omitempty"` // Half-waves in y, 0 = default
}

// DeflectionDef describes a simply supported plate under uniform lateral pressure.
type DeflectionDef struct {
	Name          string  `json:"name" yaml:"name"`
	A             float64 `json:"a" yaml:"a"`
	B             float64 `json:"b" yaml:"b"`
	Pressure      float64 `json:"pressure" yaml:"pressure"`                                 // MPa
	MaxDeflection float64 `json:"max_deflection,omitempty" yaml:"max_deflection,omitempty"` // mm, 0 = strength only
	Terms         int     `json:"terms,omitempty" yaml:"terms,omitempty"`                   // Odd series terms, 0 = default
	Grid          int     `json:"grid,omitempty" yaml:"grid,omitempty"`                     // Sample points per edge, 0 = default
}

// Study is a reusable design problem: search settings plus every requirement
// the laminate has to satisfy. It carries no results.
type Study struct {
	ID          string              `json:"id" yaml:"id"`
	Name        string              `json:"name" yaml:"name"`
	Description string              `json:"description,omitempty" yaml:"description,omitempty"`
	CreatedAt   string              `json:"created_at" yaml:"created_at"`
	UpdatedAt   string              `json:"updated_at" yaml:"updated_at"`
	Settings    OptimizerSettings   `json:"settings" yaml:"settings"`
	LoadCases   []LoadCaseDef       `json:"load_cases,omitempty" yaml:"load_cases,omitempty"`
	Vessels     []PressureVesselDef `json:"vessels,omitempty" yaml:"vessels,omitempty"`
	Buckling    []BucklingDef       `json:"buckling,omitempty" yaml:"buckling,omitempty"`
	Deflection  []DeflectionDef     `json:"deflection,omitempty" yaml:"deflection,omitempty"`
}

// NewStudy creates a study with the given settings and no requirements.
func NewStudy(name, description string, settings OptimizerSettings) Study {
	now := time.Now().UTC().Format(time.RFC3339)
	angles := make([]float64, len(settings.Angles))
	copy(angles, settings.Angles)
	settings.Angles = angles
	return Study{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Settings:    settings,
	}
}

// RequirementCount returns the number of requirements defined in the study.
func (s Study) RequirementCount() int {
	return len(s.LoadCases) + len(s.Vessels) + len(s.Buckling) + len(s.Deflection)
}

// Touch updates the modification timestamp.
func (s *Study) Touch() {
	s.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
}

// StudyStore holds a collection of saved studies.
type StudyStore struct {
	Studies []Study `json:"studies" yaml:"studies"`
}

// NewStudyStore creates an empty store.
func NewStudyStore() StudyStore {
	return StudyStore{Studies: []Study{}}
}

// Add adds a study to the store, replacing one with the same ID.
func (ss *StudyStore) Add(s Study) {
	for i := range ss.Studies {
		if ss.Studies[i].ID == s.ID {
			ss.Studies[i] = s
			return
		}
	}
	ss.Studies = append(ss.Studies, s)
}

// Remove removes a study by ID. Returns true if found and removed.
func (ss *StudyStore) Remove(id string) bool {
	for i, s := range ss.Studies {
		if s.ID == id {
			ss.Studies = append(ss.Studies[:i], ss.Studies[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the study with the given ID, or nil.
func (ss *StudyStore) FindByID(id string) *Study {
	for i := range ss.Studies {
		if ss.Studies[i].ID == id {
			return &ss.Studies[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first study with the given name, or nil.
func (ss *StudyStore) FindByName(name string) *Study {
	for i := range ss.Studies {
		if ss.Studies[i].Name == name {
			return &ss.Studies[i]
		}
	}
	return nil
}

// Names returns the study names in store order.
func (ss *StudyStore) Names() []string {
	names := make([]string, len(ss.Studies))
	for i, s := range ss.Studies {
		names[i] = s.Name
	}
	return names
}
