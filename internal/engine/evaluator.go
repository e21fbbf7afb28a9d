package engine

import (
	"math"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/piwi3910/PlyStack/internal/calculator"
	"github.com/piwi3910/PlyStack/internal/model"
)

// evaluator computes combined reserve factors for one run and publishes
// progress to the shared result.
type evaluator struct {
	calcs    []calculator.Calculator
	result   *model.OptimizationResult
	interval int64

	checked     int64
	constraints int64

	best    model.Laminate
	bestRF  float64
	hasBest bool

	laminates   prometheus.Counter
	constraintC prometheus.Counter
}

func newEvaluator(r *run) *evaluator {
	name := string(r.strategy)
	return &evaluator{
		calcs:       r.calcs,
		result:      r.result,
		interval:    r.interval,
		bestRF:      math.Inf(-1),
		laminates:   laminatesEvaluated.WithLabelValues(name),
		constraintC: constraintEvaluations.WithLabelValues(name),
	}
}

// evaluate returns the combined minimal reserve factor of lam and publishes
// progress at the configured cadence.
func (e *evaluator) evaluate(lam model.Laminate) (float64, error) {
	rf, err := calculator.Combined(e.calcs, lam)
	e.checked++
	e.constraints += int64(len(e.calcs))
	e.laminates.Inc()
	e.constraintC.Add(float64(len(e.calcs)))
	if err != nil {
		return 0, err
	}
	if e.interval > 0 && e.checked%e.interval == 0 {
		e.publish()
	}
	return rf, nil
}

// setBest records the laminate reported as best so far.
func (e *evaluator) setBest(lam model.Laminate, rf float64) {
	e.best = lam
	e.bestRF = rf
	e.hasBest = true
}

func (e *evaluator) publish() {
	if e.hasBest {
		e.result.Update(e.best, e.bestRF, e.checked, e.constraints)
		return
	}
	e.result.UpdateCounts(e.checked, e.constraints)
}

// finish publishes the final state and then marks the result finished.
func (e *evaluator) finish(infeasible bool) {
	e.publish()
	e.result.Finish(infeasible)
}
