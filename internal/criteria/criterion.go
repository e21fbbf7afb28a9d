// Package criteria holds the ply failure criteria and the registry that
// resolves them by name.
package criteria

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"

	"github.com/piwi3910/PlyStack/internal/model"
)

var (
	// ErrInvalidStrength marks strength constants that cannot be evaluated,
	// including combinations without a real solution.
	ErrInvalidStrength = errors.New("invalid strength input")
	// ErrUnknownCriterion is returned by Lookup for unregistered names.
	ErrUnknownCriterion = errors.New("unknown failure criterion")
)

// DefaultName is the criterion used when a requested one is unavailable.
const DefaultName = "Hashin"

// Criterion turns a ply stress in material axes into a reserve factor.
type Criterion interface {
	Name() string
	Evaluate(mat model.Material, s model.StressState) (model.ReserveFactor, error)
}

// builtins is the static registration table.
var builtins = []Criterion{Hashin{}, MaxStress{}, TsaiWu{}, TsaiHill{}}

// Registry maps criterion names to implementations.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Criterion
	order  []string

	logger    *slog.Logger
	fallbacks atomic.Int64
}

// NewRegistry returns a registry holding the built-in criteria. A nil logger
// uses slog.Default().
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		byName: make(map[string]Criterion, len(builtins)),
		logger: logger,
	}
	for _, c := range builtins {
		// built-in names are unique
		_ = r.Register(c)
	}
	return r
}

// Register adds a criterion. Names must be unique.
func (r *Registry) Register(c Criterion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[c.Name()]; ok {
		return fmt.Errorf("criterion %q already registered", c.Name())
	}
	r.byName[c.Name()] = c
	r.order = append(r.order, c.Name())
	return nil
}

// Lookup returns the criterion registered under name.
func (r *Registry) Lookup(name string) (Criterion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCriterion, name)
	}
	return c, nil
}

// Default returns the default criterion.
func (r *Registry) Default() Criterion {
	c, err := r.Lookup(DefaultName)
	if err != nil {
		return Hashin{}
	}
	return c
}

// Resolve returns the criterion registered under name. Unknown names fall
// back to the default criterion; the substitution is logged and counted. An
// empty name selects the default without counting.
func (r *Registry) Resolve(name string) Criterion {
	if name == "" {
		return r.Default()
	}
	c, err := r.Lookup(name)
	if err == nil {
		return c
	}
	r.fallbacks.Add(1)
	r.logger.Warn("failure criterion unavailable, falling back to default",
		"requested", name, "default", DefaultName)
	return r.Default()
}

// Fallbacks returns how many times Resolve substituted the default.
func (r *Registry) Fallbacks() int64 {
	return r.fallbacks.Load()
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// checkStrengths validates the strength constants used by every criterion.
func checkStrengths(mat model.Material) error {
	for _, s := range []struct {
		name string
		v    float64
	}{{"Xt", mat.Xt}, {"Xc", mat.Xc}, {"Yt", mat.Yt}, {"Yc", mat.Yc}, {"S", mat.S}} {
		if !(s.v > 0) || math.IsInf(s.v, 0) {
			return fmt.Errorf("%w: material %q has %s = %g", ErrInvalidStrength, mat.Name, s.name, s.v)
		}
	}
	return nil
}

// inverseNorm returns 1/sqrt(sum) with +Inf for a zero sum.
func inverseNorm(sum float64) float64 {
	if sum <= 0 {
		return math.Inf(1)
	}
	return 1 / math.Sqrt(sum)
}

// ratio returns strength/|stress| with +Inf for a zero stress.
func ratio(strength, stress float64) float64 {
	if stress == 0 {
		return math.Inf(1)
	}
	return strength / math.Abs(stress)
}

func fiberMode(s11 float64) string {
	if s11 < 0 {
		return model.ModeFiberCompression
	}
	return model.ModeFiberTension
}

func matrixMode(s22 float64) string {
	switch {
	case s22 < 0:
		return model.ModeMatrixCompression
	case s22 > 0:
		return model.ModeMatrixTension
	default:
		return model.ModeShear
	}
}

// finish normalizes an infinite margin to the no-failure result.
func finish(rf model.ReserveFactor) model.ReserveFactor {
	if math.IsInf(rf.Value, 1) {
		return model.NoFailure()
	}
	return rf
}
