package engine

import (
	"fmt"
	"log/slog"

	"github.com/piwi3910/PlyStack/internal/calculator"
	"github.com/piwi3910/PlyStack/internal/criteria"
	"github.com/piwi3910/PlyStack/internal/model"
)

// Input is everything a strategy needs for one run.
type Input struct {
	Angles      []float64   // Candidate fiber angles, degrees
	Template    model.Layer // Material, thickness and criterion of every new ply
	Symmetric   bool        // Build symmetric laminates even if no calculator needs them
	Calculators []calculator.Calculator
	Criteria    *criteria.Registry        // Nil uses the built-in criteria
	Result      *model.OptimizationResult // Nil allocates a private result
	Settings    model.OptimizerSettings   // Limits and progress cadence
	Logger      *slog.Logger              // Nil uses slog.Default()
}

// NewInput assembles an input from settings, the resolved material and the
// requirement calculators.
func NewInput(settings model.OptimizerSettings, mat model.Material, calcs []calculator.Calculator, reg *criteria.Registry, logger *slog.Logger) Input {
	angles := make([]float64, len(settings.Angles))
	copy(angles, settings.Angles)
	return Input{
		Angles:      angles,
		Template:    model.NewLayer(mat, 0, settings.PlyThickness, settings.Criterion),
		Symmetric:   settings.Symmetric,
		Calculators: calcs,
		Criteria:    reg,
		Result:      model.NewOptimizationResult(settings.Algorithm),
		Settings:    settings,
		Logger:      logger,
	}
}

// run is a validated input with defaults applied.
type run struct {
	strategy  model.Algorithm
	angles    []float64
	template  model.Layer
	symmetric bool
	calcs     []calculator.Calculator
	result    *model.OptimizationResult
	logger    *slog.Logger

	maxLayers      int
	maxGenerations int
	maxWidth       int
	interval       int64
}

// prepare validates the input for the named strategy. The template criterion
// is resolved through the registry, so an unavailable criterion is replaced
// by the default once, with a logged warning.
func (in Input) prepare(strategy model.Algorithm, defaultInterval int64) (*run, error) {
	if len(in.Angles) == 0 {
		return nil, ErrNoAngles
	}
	if len(in.Angles) > 1<<16 {
		return nil, fmt.Errorf("%w: %d candidate angles", ErrNoAngles, len(in.Angles))
	}
	if len(in.Calculators) == 0 {
		return nil, ErrNoCalculators
	}
	if !(in.Template.Thickness > 0) {
		return nil, fmt.Errorf("%w: ply thickness %g", ErrInvalidTemplate, in.Template.Thickness)
	}
	if err := in.Template.Material.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTemplate, err)
	}

	logger := in.Logger
	if logger == nil {
		logger = slog.Default()
	}
	reg := in.Criteria
	if reg == nil {
		reg = criteria.NewRegistry(logger)
	}
	template := in.Template.Clone()
	template.Criterion = reg.Resolve(template.Criterion).Name()

	result := in.Result
	if result == nil {
		result = model.NewOptimizationResult(strategy)
	} else {
		result.Reset(strategy)
	}

	defaults := model.DefaultSettings()
	r := &run{
		strategy:       strategy,
		angles:         append([]float64(nil), in.Angles...),
		template:       template,
		symmetric:      in.Symmetric || calculator.SymmetryRequired(in.Calculators),
		calcs:          in.Calculators,
		result:         result,
		logger:         logger.With("strategy", string(strategy)),
		maxLayers:      pick(in.Settings.MaxLayers, defaults.MaxLayers),
		maxGenerations: pick(in.Settings.MaxGenerations, defaults.MaxGenerations),
		maxWidth:       pick(in.Settings.MaxGenerationWidth, defaults.MaxGenerationWidth),
		interval:       int64(pick(in.Settings.ProgressInterval, int(defaultInterval))),
	}
	return r, nil
}

func pick(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

// layer returns a fresh ply of the template at the given angle.
func (r *run) layer(angle float64) model.Layer {
	return r.template.WithAngle(angle)
}

// build creates a laminate from angle indices, outermost first.
func (r *run) build(indices []uint16) model.Laminate {
	lam := model.NewLaminate(r.symmetric)
	lam.Layers = make([]model.Layer, len(indices))
	for i, idx := range indices {
		lam.Layers[i] = r.layer(r.angles[idx])
	}
	return lam
}

func (r *run) infeasible(limit string, value int, bestRF float64) error {
	return &InfeasibleError{Strategy: r.strategy, Limit: limit, Value: value, BestRF: bestRF}
}
