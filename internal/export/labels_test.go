package export

import (
	"encoding/json"
	"path/filepath"
	"testing"
)

func TestCollectPlyLabels(t *testing.T) {
	r := buildTestReport(t)
	labels := CollectPlyLabels(r)

	if len(labels) != 8 {
		t.Fatalf("expected 8 labels, got %d", len(labels))
	}
	for i, l := range labels {
		if l.Ply != i+1 {
			t.Errorf("label %d numbered %d", i, l.Ply)
		}
		if l.Total != 8 {
			t.Errorf("expected total 8, got %d", l.Total)
		}
		if l.Stacking != "[0/45/-45/90]s" {
			t.Errorf("unexpected stacking %q", l.Stacking)
		}
	}
	// mirrored half
	if labels[0].Angle != labels[7].Angle || labels[1].Angle != labels[6].Angle {
		t.Errorf("expected mirrored angles, got %v ... %v", labels[0].Angle, labels[7].Angle)
	}
}

func TestPlyLabelJSON(t *testing.T) {
	info := PlyLabel{Laminate: "L", Stacking: "[0/90]s", Ply: 3, Total: 4, Angle: 90, Thickness: 0.125, Material: "CFRP"}
	data, err := json.Marshal(info)
	if err != nil {
		t.Fatal(err)
	}
	var back PlyLabel
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back != info {
		t.Errorf("round trip mismatch: %+v != %+v", back, info)
	}
}

func TestExportLabels_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")
	if err := ExportLabels(path, buildTestReport(t)); err != nil {
		t.Fatalf("ExportLabels failed: %v", err)
	}
	assertPDF(t, path)
}

func TestExportLabels_ManyPlies(t *testing.T) {
	angles := make([]float64, 40)
	for i := range angles {
		angles[i] = float64((i % 4) * 30)
	}
	r, err := BuildReport("many", buildLaminate(true, angles...), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	// 80 plies spill onto three label pages
	path := filepath.Join(t.TempDir(), "labels.pdf")
	if err := ExportLabels(path, r); err != nil {
		t.Fatalf("ExportLabels failed: %v", err)
	}
	assertPDF(t, path)
}

func TestExportLabels_EmptyReport(t *testing.T) {
	if err := ExportLabels(filepath.Join(t.TempDir(), "x.pdf"), Report{}); err == nil {
		t.Fatal("expected error for empty report")
	}
}
