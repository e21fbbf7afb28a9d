package model

import (
	"strings"
	"testing"
)

func testLayer(angle float64) Layer {
	return NewLayer(IsotropicTestMaterial(), angle, 0.125, "Hashin")
}

func buildLaminate(symmetric bool, angles ...float64) Laminate {
	lam := NewLaminate(symmetric)
	for _, a := range angles {
		lam = lam.WithLayer(testLayer(a))
	}
	return lam
}

func TestPhysicalLayersSymmetricMirror(t *testing.T) {
	lam := buildLaminate(true, 0, 45, -45, 90)

	physical := lam.PhysicalLayers()
	if len(physical) != 8 {
		t.Fatalf("expected 8 physical layers, got %d", len(physical))
	}
	n := len(physical)
	for i := 0; i < n; i++ {
		a, b := physical[i], physical[n-1-i]
		if a.Angle != b.Angle || a.Thickness != b.Thickness || a.Material.Name != b.Material.Name {
			t.Errorf("layer %d (%v) and %d (%v) are not mirror images", i, a.Angle, n-1-i, b.Angle)
		}
	}
	if lam.NumPhysicalLayers() != 8 {
		t.Errorf("expected NumPhysicalLayers 8, got %d", lam.NumPhysicalLayers())
	}
}

func TestPhysicalLayersMiddleLayerCountedOnce(t *testing.T) {
	lam := buildLaminate(true, 0, 90)
	lam.MiddleLayer = true

	physical := lam.PhysicalLayers()
	if len(physical) != 3 {
		t.Fatalf("expected 3 physical layers, got %d", len(physical))
	}
	want := []float64{0, 90, 0}
	for i, w := range want {
		if physical[i].Angle != w {
			t.Errorf("layer %d: expected angle %v, got %v", i, w, physical[i].Angle)
		}
	}
	if lam.NumPhysicalLayers() != 3 {
		t.Errorf("expected NumPhysicalLayers 3, got %d", lam.NumPhysicalLayers())
	}
}

func TestPhysicalLayersNonSymmetric(t *testing.T) {
	lam := buildLaminate(false, 0, 45)
	if got := len(lam.PhysicalLayers()); got != 2 {
		t.Errorf("expected 2 physical layers, got %d", got)
	}
	if lam.Thickness() != 0.25 {
		t.Errorf("expected thickness 0.25, got %v", lam.Thickness())
	}
}

func TestWithLayerDoesNotMutateReceiver(t *testing.T) {
	base := buildLaminate(true, 0)
	child := base.WithLayer(testLayer(90))

	if len(base.Layers) != 1 {
		t.Errorf("parent changed: expected 1 layer, got %d", len(base.Layers))
	}
	if len(child.Layers) != 2 {
		t.Errorf("expected child with 2 layers, got %d", len(child.Layers))
	}
	if child.ID == base.ID {
		t.Error("child should get a fresh ID")
	}

	replaced := child.WithLayerAt(0, testLayer(45))
	if child.Layers[0].Angle != 0 {
		t.Errorf("WithLayerAt modified the receiver: angle %v", child.Layers[0].Angle)
	}
	if replaced.Layers[0].Angle != 45 {
		t.Errorf("expected replaced angle 45, got %v", replaced.Layers[0].Angle)
	}
}

func TestCloneIsDeep(t *testing.T) {
	mat := IsotropicTestMaterial().WithAux("hashin_alpha", 0.5)
	lam := NewLaminate(true).WithLayer(NewLayer(mat, 0, 0.125, "Hashin"))

	c := lam.Clone()
	c.Layers[0].Angle = 90
	c.Layers[0].Material.Aux["hashin_alpha"] = 2

	if lam.Layers[0].Angle != 0 {
		t.Error("clone shares layer storage with original")
	}
	if lam.Layers[0].Material.Aux["hashin_alpha"] != 0.5 {
		t.Error("clone shares the material aux map with original")
	}
}

func TestStackingSequence(t *testing.T) {
	tests := []struct {
		name string
		lam  Laminate
		want string
	}{
		{"symmetric", buildLaminate(true, 0, 45, -45, 90), "[0/45/-45/90]s"},
		{"non-symmetric", buildLaminate(false, 0, 90), "[0/90]"},
		{"fractional", buildLaminate(false, 22.5), "[22.5]"},
		{"empty", NewLaminate(false), "[]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.lam.StackingSequence(); got != tt.want {
				t.Errorf("StackingSequence() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNextNameIsUnique(t *testing.T) {
	a := NextName("Laminate")
	b := NextName("Laminate")
	if a == b {
		t.Errorf("expected unique names, got %q twice", a)
	}
	if !strings.HasPrefix(a, "Laminate-") {
		t.Errorf("unexpected name format %q", a)
	}
}

func TestWithAngleGivesNewIdentity(t *testing.T) {
	l := testLayer(0)
	c := l.WithAngle(45)
	if c.ID == l.ID || c.Name == l.Name {
		t.Error("expected a new identity for the re-angled layer")
	}
	if c.Angle != 45 || l.Angle != 0 {
		t.Errorf("unexpected angles: original %v, copy %v", l.Angle, c.Angle)
	}
}
