package model

import (
	"math"
	"sync"
)

// Progress is one consistent view of a running or finished optimization.
type Progress struct {
	Strategy              Algorithm `json:"strategy"`
	Best                  *Laminate `json:"best,omitempty"`
	MinReserveFactor      float64   `json:"min_reserve_factor"`
	LaminatesChecked      int64     `json:"laminates_checked"`
	ConstraintEvaluations int64     `json:"constraint_evaluations"`
	Finished              bool      `json:"finished"`
	Infeasible            bool      `json:"infeasible"`
}

// OptimizationResult is written by a running search and may be polled from
// another goroutine. Every write replaces the best laminate, its margin and the
// counters together so a reader never sees a mixed state.
type OptimizationResult struct {
	mu sync.RWMutex
	p  Progress
}

// NewOptimizationResult returns an empty result for the given strategy.
func NewOptimizationResult(strategy Algorithm) *OptimizationResult {
	return &OptimizationResult{p: Progress{Strategy: strategy, MinReserveFactor: math.Inf(-1)}}
}

// Update publishes a new best laminate together with the counters. The
// laminate is copied, so later changes by the caller are not observed.
func (r *OptimizationResult) Update(best Laminate, minRF float64, checked, constraints int64) {
	snapshot := best.Clone()
	r.mu.Lock()
	r.p.Best = &snapshot
	r.p.MinReserveFactor = minRF
	r.p.LaminatesChecked = checked
	r.p.ConstraintEvaluations = constraints
	r.mu.Unlock()
}

// UpdateCounts publishes the counters without touching the best laminate.
func (r *OptimizationResult) UpdateCounts(checked, constraints int64) {
	r.mu.Lock()
	r.p.LaminatesChecked = checked
	r.p.ConstraintEvaluations = constraints
	r.mu.Unlock()
}

// Finish marks the search as completed. Callers publish their final update
// before calling Finish.
func (r *OptimizationResult) Finish(infeasible bool) {
	r.mu.Lock()
	r.p.Finished = true
	r.p.Infeasible = infeasible
	r.mu.Unlock()
}

// Reset clears the result so it can be reused for another run.
func (r *OptimizationResult) Reset(strategy Algorithm) {
	r.mu.Lock()
	r.p = Progress{Strategy: strategy, MinReserveFactor: math.Inf(-1)}
	r.mu.Unlock()
}

// Snapshot returns a deep copy of the current progress.
func (r *OptimizationResult) Snapshot() Progress {
	r.mu.RLock()
	p := r.p
	r.mu.RUnlock()
	if p.Best != nil {
		best := p.Best.Clone()
		p.Best = &best
	}
	return p
}
