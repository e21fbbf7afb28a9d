package model

import (
	"math"
	"testing"
)

func TestSummarizeQuasiIsotropic(t *testing.T) {
	lam := buildLaminate(true, 0, 45, -45, 90)
	s := Summarize(lam)

	if s.Plies != 8 {
		t.Errorf("expected 8 plies, got %d", s.Plies)
	}
	if math.Abs(s.Thickness-1.0) > 1e-12 {
		t.Errorf("expected thickness 1.0, got %v", s.Thickness)
	}
	// 1.6 g/cm³ · 1.0 mm
	if math.Abs(s.ArealMass-1.6) > 1e-12 {
		t.Errorf("expected areal mass 1.6, got %v", s.ArealMass)
	}
	if len(s.Shares) != 4 {
		t.Fatalf("expected 4 angle groups, got %d", len(s.Shares))
	}
	if s.Shares[0].Angle != -45 || s.Shares[3].Angle != 90 {
		t.Errorf("shares not sorted by angle: %+v", s.Shares)
	}
	for _, share := range s.Shares {
		if share.Plies != 2 || share.Percent != 25 {
			t.Errorf("expected 2 plies / 25%% for %v, got %+v", share.Angle, share)
		}
	}
	if s.StackingSequence != "[0/45/-45/90]s" {
		t.Errorf("unexpected stacking sequence %q", s.StackingSequence)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(NewLaminate(true))
	if s.Plies != 0 || s.Thickness != 0 || len(s.Shares) != 0 {
		t.Errorf("expected empty summary, got %+v", s)
	}
}
