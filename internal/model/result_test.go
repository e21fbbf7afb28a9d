package model

import (
	"math"
	"sync"
	"testing"
)

func TestOptimizationResultSnapshotIsolation(t *testing.T) {
	r := NewOptimizationResult(AlgorithmSequential)
	lam := buildLaminate(true, 0, 90)

	r.Update(lam, 0.8, 10, 20)
	lam.Layers[0].Angle = 45

	snap := r.Snapshot()
	if snap.Best == nil {
		t.Fatal("expected a best laminate")
	}
	if snap.Best.Layers[0].Angle != 0 {
		t.Errorf("result observed a caller mutation: angle %v", snap.Best.Layers[0].Angle)
	}

	snap.Best.Layers[1].Angle = 45
	again := r.Snapshot()
	if again.Best.Layers[1].Angle != 90 {
		t.Error("snapshot aliases the stored laminate")
	}
	if again.MinReserveFactor != 0.8 || again.LaminatesChecked != 10 || again.ConstraintEvaluations != 20 {
		t.Errorf("unexpected progress %+v", again)
	}
}

func TestOptimizationResultLifecycle(t *testing.T) {
	r := NewOptimizationResult(AlgorithmTodoroki)
	p := r.Snapshot()
	if p.Finished || p.Best != nil || !math.IsInf(p.MinReserveFactor, -1) {
		t.Errorf("unexpected initial progress %+v", p)
	}
	if p.Strategy != AlgorithmTodoroki {
		t.Errorf("expected strategy todoroki, got %s", p.Strategy)
	}

	r.UpdateCounts(5, 15)
	r.Finish(true)
	p = r.Snapshot()
	if !p.Finished || !p.Infeasible {
		t.Errorf("expected finished and infeasible, got %+v", p)
	}
	if p.LaminatesChecked != 5 || p.ConstraintEvaluations != 15 {
		t.Errorf("unexpected counters %+v", p)
	}

	r.Reset(AlgorithmSequential)
	if r.Snapshot().Finished {
		t.Error("reset should clear the finished flag")
	}
}

func TestOptimizationResultConcurrentReaders(t *testing.T) {
	r := NewOptimizationResult(AlgorithmBranchAndBound)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= 200; i++ {
			lam := buildLaminate(true, 0)
			r.Update(lam, float64(i), int64(i), int64(2*i))
		}
	}()
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				p := r.Snapshot()
				if p.Best == nil {
					continue
				}
				// counters and margin are published together
				if p.ConstraintEvaluations != 2*p.LaminatesChecked || p.MinReserveFactor != float64(p.LaminatesChecked) {
					t.Errorf("inconsistent snapshot %+v", p)
					return
				}
			}
		}()
	}
	wg.Wait()
}
