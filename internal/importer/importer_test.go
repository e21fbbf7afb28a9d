package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

const catalogHeader = "Name,E1,E2,G12,Nu12,Rho,Xt,Xc,Yt,Yc,S\n"

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "Name,E1,E2\nT300,135000,10000\n", ','},
		{"semicolon", "Name;E1;E2\nT300;135000;10000\n", ';'},
		{"tab", "Name\tE1\tE2\nT300\t135000\t10000\n", '\t'},
		{"pipe", "Name|E1|E2\nT300|135000|10000\n", '|'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectCSVDelimiter([]byte(tt.data)); got != tt.want {
				t.Errorf("expected %q delimiter, got %q", tt.want, got)
			}
		})
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	row := strings.Split(strings.TrimSpace(catalogHeader), ",")
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	for i, role := range positional {
		if mapping.Index(role) != i {
			t.Errorf("expected %s at %d, got %d", role, i, mapping.Index(role))
		}
	}
	if mapping.Index(ColAlpha1) != -1 {
		t.Errorf("expected alpha1 unmapped, got %d", mapping.Index(ColAlpha1))
	}
}

func TestDetectColumns_AliasesAndAux(t *testing.T) {
	row := []string{"  MATERIAL ", "Density", "F1t", "Shear Strength", "aux:TsaiWu_F12Star", "CTE1"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	checks := map[string]int{ColName: 0, ColRho: 1, ColXt: 2, ColS: 3, "aux:tsaiwu_f12star": 4, ColAlpha1: 5}
	for role, want := range checks {
		if got := mapping.Index(role); got != want {
			t.Errorf("expected %s at %d, got %d", role, want, got)
		}
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"T300", "135000", "10000"})
	if isHeader {
		t.Error("expected no header")
	}
	if mapping.Index(ColE1) != 1 || mapping.Index(ColS) != 10 {
		t.Errorf("expected positional mapping, got %v", mapping)
	}
}

// ─── ImportCSVFromReader Tests ─────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	data := catalogHeader +
		"T300/Epoxy,135000,10000,5000,0.27,1.6,1500,1200,50,250,70\n" +
		"E-Glass/Epoxy,39000,8600,3800,0.28,2.1,1080,620,39,128,89\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Materials) != 2 {
		t.Fatalf("expected 2 materials, got %d", len(result.Materials))
	}
	m := result.Materials[0]
	if m.Name != "T300/Epoxy" || m.E1 != 135000 || m.Nu12 != 0.27 || m.S != 70 {
		t.Errorf("unexpected material %+v", m)
	}
	if m.ID == "" || m.ID == result.Materials[1].ID {
		t.Error("expected distinct generated IDs")
	}
	if !result.OK() {
		t.Error("expected OK result")
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	data := "T300,135000,10000,5000,0.27,1.6,1500,1200,50,250,70\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Materials) != 1 {
		t.Fatalf("expected 1 material, got %d (errors: %v)", len(result.Materials), result.Errors)
	}
	if result.Materials[0].Yc != 250 {
		t.Errorf("expected Yc 250, got %f", result.Materials[0].Yc)
	}
}

func TestImportCSVFromReader_ExpansionAndAux(t *testing.T) {
	data := "Name;E1;E2;G12;Nu12;Xt;Xc;Yt;Yc;S;Alpha1;Alpha2;aux:hashin_s23\n" +
		"IM7;161000;11380;5170;0,32;2326;1200;62;200;92;-0.0000001;0.000031;85\n"
	result := ImportCSVFromReader(strings.NewReader(data), ';')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	m := result.Materials[0]
	if m.Nu12 != 0.32 {
		t.Errorf("expected decimal comma to parse as 0.32, got %v", m.Nu12)
	}
	if m.Alpha1 != -1e-7 || m.Alpha2 != 3.1e-5 {
		t.Errorf("unexpected expansion coefficients %v %v", m.Alpha1, m.Alpha2)
	}
	if m.Aux["hashin_s23"] != 85 {
		t.Errorf("expected aux hashin_s23=85, got %v", m.Aux)
	}
	if m.Rho != 0 {
		t.Errorf("missing density should default to 0, got %v", m.Rho)
	}
}

func TestImportCSVFromReader_NegativeCompressiveStrength(t *testing.T) {
	data := catalogHeader + "T300,135000,10000,5000,0.27,1.6,1500,-1200,50,-250,70\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Materials) != 1 {
		t.Fatalf("expected 1 material, got errors %v", result.Errors)
	}
	if result.Materials[0].Xc != 1200 || result.Materials[0].Yc != 250 {
		t.Errorf("expected magnitudes, got Xc=%v Yc=%v", result.Materials[0].Xc, result.Materials[0].Yc)
	}
	found := 0
	for _, w := range result.Warnings {
		if strings.Contains(w, "Negative") {
			found++
		}
	}
	if found != 2 {
		t.Errorf("expected 2 sign warnings, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_RowErrors(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"invalid number", "Bad,abc,10000,5000,0.27,1.6,1500,1200,50,250,70"},
		{"missing strength", "Bad,135000,10000,5000,0.27,1.6,1500,1200,50,250,"},
		{"zero modulus", "Bad,0,10000,5000,0.27,1.6,1500,1200,50,250,70"},
		{"inadmissible poisson", "Bad,10000,10000,5000,1.2,1.6,1500,1200,50,250,70"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ImportCSVFromReader(strings.NewReader(catalogHeader+tt.row+"\n"), ',')
			if len(result.Errors) != 1 {
				t.Errorf("expected 1 error, got %v", result.Errors)
			}
			if len(result.Materials) != 0 {
				t.Errorf("expected no materials, got %d", len(result.Materials))
			}
			if result.OK() {
				t.Error("result should not be OK")
			}
		})
	}
}

func TestImportCSVFromReader_MixedValidAndInvalid(t *testing.T) {
	data := catalogHeader +
		"Good,135000,10000,5000,0.27,1.6,1500,1200,50,250,70\n" +
		"Bad,x,10000,5000,0.27,1.6,1500,1200,50,250,70\n" +
		",39000,8600,3800,0.28,2.1,1080,620,39,128,89\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Materials) != 2 {
		t.Fatalf("expected 2 materials, got %d", len(result.Materials))
	}
	if len(result.Errors) != 1 || !strings.HasPrefix(result.Errors[0], "Line 3") {
		t.Errorf("expected one error on line 3, got %v", result.Errors)
	}
	if result.Materials[1].Name != "Material 2" {
		t.Errorf("expected generated name 'Material 2', got %q", result.Materials[1].Name)
	}
}

func TestImportCSVFromReader_DuplicateNames(t *testing.T) {
	row := "Same,135000,10000,5000,0.27,1.6,1500,1200,50,250,70\n"
	result := ImportCSVFromReader(strings.NewReader(catalogHeader+row+row), ',')

	if len(result.Materials) != 2 {
		t.Fatalf("duplicates are imported, got %d", len(result.Materials))
	}
	last := result.Warnings[len(result.Warnings)-1]
	if !strings.Contains(last, "Duplicate") {
		t.Errorf("expected duplicate warning, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_MissingRequiredColumnInHeader(t *testing.T) {
	data := "Name,E1,E2,G12\nT300,135000,10000,5000\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", result.Errors)
	}
	if !strings.Contains(result.Errors[0], "nu12") || !strings.Contains(result.Errors[0], "xt") {
		t.Errorf("error should list missing columns, got %q", result.Errors[0])
	}
}

func TestImportCSVFromReader_EmptyFile(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(""), ',')
	if len(result.Errors) == 0 {
		t.Error("expected error for empty input")
	}
}

// ─── File Import Tests ─────────────────────────────────────

func TestImportCSV_SemicolonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.csv")
	data := strings.ReplaceAll(catalogHeader+"T300,135000,10000,5000,0.27,1.6,1500,1200,50,250,70\n", ",", ";")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	result := Import(path)

	if len(result.Materials) != 1 {
		t.Fatalf("expected 1 material, got %d (errors: %v)", len(result.Materials), result.Errors)
	}
	if result.Warnings[0] != "Detected semicolon delimiter" {
		t.Errorf("expected delimiter warning first, got %v", result.Warnings)
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	result := ImportCSV("/nonexistent/catalog.csv")
	if len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte("  \n"), 0644); err != nil {
		t.Fatal(err)
	}
	result := ImportCSV(path)
	if len(result.Errors) != 1 || result.Errors[0] != "File is empty" {
		t.Errorf("expected 'File is empty', got %v", result.Errors)
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Material", "E1", "E2", "G12", "Nu12", "Density", "Xt", "Xc", "Yt", "Yc", "S"},
		{"Kevlar 49/Epoxy", 76000, 5500, 2300, 0.34, 1.38, 1400, 235, 12, 53, 34},
	})

	result := Import(path)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Materials) != 1 {
		t.Fatalf("expected 1 material, got %d", len(result.Materials))
	}
	m := result.Materials[0]
	if m.Name != "Kevlar 49/Epoxy" || m.E1 != 76000 || m.Rho != 1.38 || m.Nu12 != 0.34 {
		t.Errorf("unexpected material %+v", m)
	}
}

func TestImportExcel_ReorderedColumns(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"S", "Yc", "Yt", "Xc", "Xt", "Nu12", "G12", "E2", "E1", "Name"},
		{70, 250, 50, 1200, 1500, 0.27, 5000, 10000, 135000, "T300"},
	})

	result := ImportExcel(path)

	if len(result.Materials) != 1 {
		t.Fatalf("expected 1 material, got %d (errors: %v)", len(result.Materials), result.Errors)
	}
	if result.Materials[0].E1 != 135000 || result.Materials[0].S != 70 {
		t.Errorf("columns mapped incorrectly: %+v", result.Materials[0])
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	result := ImportExcel("/nonexistent/catalog.xlsx")
	if len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

func TestImportExcel_InvalidData(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Name", "E1", "E2", "G12", "Nu12", "Xt", "Xc", "Yt", "Yc", "S"},
		{"Bad", "stiff", 10000, 5000, 0.27, 1500, 1200, 50, 250, 70},
	})

	result := ImportExcel(path)
	if len(result.Errors) == 0 {
		t.Error("expected error for invalid modulus")
	}
}
