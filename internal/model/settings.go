package model

// Algorithm represents the stacking sequence search strategy.
type Algorithm string

const (
	AlgorithmSequential     Algorithm = "sequential"       // Greedy ply-by-ply decision (fast)
	AlgorithmBranchAndBound Algorithm = "branch-and-bound" // Level-order exhaustive enumeration (slow, exact)
	AlgorithmTodoroki       Algorithm = "todoroki"         // Bracketed combinatorial search with superlayers
)

// Algorithms lists every available strategy.
var Algorithms = []Algorithm{AlgorithmSequential, AlgorithmBranchAndBound, AlgorithmTodoroki}

// OptimizerSettings holds the search configuration.
type OptimizerSettings struct {
	Algorithm    Algorithm `json:"algorithm" yaml:"algorithm"`
	Angles       []float64 `json:"angles" yaml:"angles"`               // Candidate ply angles in degrees
	PlyThickness float64   `json:"ply_thickness" yaml:"ply_thickness"` // mm
	Material     string    `json:"material" yaml:"material"`           // Material library name
	Criterion    string    `json:"criterion" yaml:"criterion"`         // Failure criterion name
	Symmetric    bool      `json:"symmetric" yaml:"symmetric"`         // Force symmetric laminates

	// Hard limits that turn a physically insufficient setup into an
	// infeasible result instead of an endless search.
	MaxLayers          int `json:"max_layers" yaml:"max_layers"`                     // Layers in the (half) stack
	MaxGenerations     int `json:"max_generations" yaml:"max_generations"`           // Branch-and-bound depth
	MaxGenerationWidth int `json:"max_generation_width" yaml:"max_generation_width"` // Laminates held per generation

	// Number of evaluated laminates between progress publications. Zero uses
	// the strategy default.
	ProgressInterval int `json:"progress_interval" yaml:"progress_interval"`
}

// DefaultSettings returns the usual quasi-isotropic angle set on a carbon ply.
func DefaultSettings() OptimizerSettings {
	return OptimizerSettings{
		Algorithm:          AlgorithmSequential,
		Angles:             []float64{0, 45, -45, 90},
		PlyThickness:       0.125,
		Material:           "CFRP T300/Epoxy",
		Criterion:          "Hashin",
		Symmetric:          true,
		MaxLayers:          64,
		MaxGenerations:     12,
		MaxGenerationWidth: 1 << 18,
		ProgressInterval:   0,
	}
}
