package engine

import (
	"errors"
	"fmt"

	"github.com/piwi3910/PlyStack/internal/model"
)

var (
	ErrNoAngles          = errors.New("no candidate angles")
	ErrNoCalculators     = errors.New("no reserve factor calculators")
	ErrInvalidTemplate   = errors.New("invalid layer template")
	ErrUnknownAlgorithm  = errors.New("unknown optimization algorithm")
	ErrInfeasible        = errors.New("no feasible laminate within limits")
	ErrGenerationTooWide = errors.New("generation exceeds the configured width")
	errNoCandidateChosen = errors.New("no candidate produced a comparable reserve factor")
)

// InfeasibleError reports a search that hit a hard limit before reaching a
// reserve factor of one.
type InfeasibleError struct {
	Strategy model.Algorithm
	Limit    string  // Name of the exhausted limit
	Value    int     // Its configured value
	BestRF   float64 // Best combined reserve factor reached
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("%s: %s of %d reached with best reserve factor %.4g", e.Strategy, e.Limit, e.Value, e.BestRF)
}

func (e *InfeasibleError) Unwrap() error { return ErrInfeasible }
