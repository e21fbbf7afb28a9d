// Package importer reads ply material catalogs from CSV and Excel files.
// It supports automatic delimiter detection, flexible column mapping, and
// case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/PlyStack/internal/model"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Materials []model.Material
	Errors    []string
	Warnings  []string
}

// OK reports whether the import produced materials without errors.
func (r ImportResult) OK() bool {
	return len(r.Errors) == 0 && len(r.Materials) > 0
}

// Column roles.
const (
	ColName   = "name"
	ColE1     = "e1"
	ColE2     = "e2"
	ColG12    = "g12"
	ColNu12   = "nu12"
	ColRho    = "rho"
	ColXt     = "xt"
	ColXc     = "xc"
	ColYt     = "yt"
	ColYc     = "yc"
	ColS      = "s"
	ColAlpha1 = "alpha1"
	ColAlpha2 = "alpha2"
	ColBeta1  = "beta1"
	ColBeta2  = "beta2"
)

// auxPrefix marks a column holding a criterion specific constant,
// e.g. "aux:tsaiwu_f12star".
const auxPrefix = "aux:"

// positional is the column order assumed when the file has no header row.
var positional = []string{ColName, ColE1, ColE2, ColG12, ColNu12, ColRho, ColXt, ColXc, ColYt, ColYc, ColS}

var required = []string{ColE1, ColE2, ColG12, ColNu12, ColXt, ColXc, ColYt, ColYc, ColS}

// headerAliases maps column roles to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	ColName:   {"name", "material", "label", "description", "system"},
	ColE1:     {"e1", "e11", "ex", "longitudinal modulus"},
	ColE2:     {"e2", "e22", "ey", "transverse modulus"},
	ColG12:    {"g12", "gxy", "shear modulus"},
	ColNu12:   {"nu12", "v12", "poisson", "poisson ratio"},
	ColRho:    {"rho", "density"},
	ColXt:     {"xt", "f1t", "longitudinal tensile strength"},
	ColXc:     {"xc", "f1c", "longitudinal compressive strength"},
	ColYt:     {"yt", "f2t", "transverse tensile strength"},
	ColYc:     {"yc", "f2c", "transverse compressive strength"},
	ColS:      {"s", "s12", "f6", "shear strength"},
	ColAlpha1: {"alpha1", "a1", "cte1"},
	ColAlpha2: {"alpha2", "a2", "cte2"},
	ColBeta1:  {"beta1", "b1", "cme1"},
	ColBeta2:  {"beta2", "b2", "cme2"},
}

// ColumnMapping maps column roles, and aux constant keys prefixed with
// "aux:", to their indices in the data.
type ColumnMapping map[string]int

// Index returns the column of a role or -1 when it is not mapped.
func (m ColumnMapping) Index(role string) int {
	if i, ok := m[role]; ok {
		return i
	}
	return -1
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Matching is case-insensitive. Returns the mapping and true if a header was
// detected, or the positional mapping and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{}
	isHeader := false

	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		if key, ok := strings.CutPrefix(normalized, auxPrefix); ok && key != "" {
			isHeader = true
			if _, seen := mapping[auxPrefix+key]; !seen {
				mapping[auxPrefix+key] = i
			}
			continue
		}
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				if _, seen := mapping[role]; !seen {
					mapping[role] = i
				}
			}
		}
	}

	if !isHeader {
		mapping = ColumnMapping{}
		for i, role := range positional {
			mapping[role] = i
		}
		return mapping, false
	}

	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not finite")
	}
	return v, nil
}

// parseRow extracts a Material from a row using the given column mapping.
// Returns the material, any error message, and any warning messages.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, count int) (model.Material, string, []string) {
	var warnings []string

	name := getCell(row, mapping.Index(ColName))
	if name == "" {
		name = fmt.Sprintf("Material %d", count+1)
	}

	values := make(map[string]float64)
	for role := range headerAliases {
		if role == ColName {
			continue
		}
		raw := getCell(row, mapping.Index(role))
		if raw == "" {
			continue
		}
		v, err := parseNumber(raw)
		if err != nil {
			return model.Material{}, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, role, raw), nil
		}
		values[role] = v
	}

	for _, role := range required {
		if _, ok := values[role]; !ok {
			return model.Material{}, fmt.Sprintf("%s: Missing %s value", rowLabel, role), nil
		}
	}

	// Catalogs often list compressive strengths as negative numbers.
	for _, role := range []string{ColXc, ColYc} {
		if values[role] < 0 {
			values[role] = -values[role]
			warnings = append(warnings, fmt.Sprintf("%s: Negative %s taken as magnitude", rowLabel, role))
		}
	}

	m := model.NewMaterial(name,
		values[ColE1], values[ColE2], values[ColG12], values[ColNu12], values[ColRho],
		values[ColXt], values[ColXc], values[ColYt], values[ColYc], values[ColS])
	m.Alpha1 = values[ColAlpha1]
	m.Alpha2 = values[ColAlpha2]
	m.Beta1 = values[ColBeta1]
	m.Beta2 = values[ColBeta2]

	for key, idx := range mapping {
		aux, ok := strings.CutPrefix(key, auxPrefix)
		if !ok {
			continue
		}
		raw := getCell(row, idx)
		if raw == "" {
			continue
		}
		v, err := parseNumber(raw)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: Ignoring invalid %s '%s'", rowLabel, key, raw))
			continue
		}
		m = m.WithAux(aux, v)
	}

	if err := m.Validate(); err != nil {
		return model.Material{}, fmt.Sprintf("%s: %v", rowLabel, err), nil
	}
	return m, "", warnings
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Import reads a catalog, choosing the reader by file extension.
func Import(path string) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return ImportExcel(path)
	default:
		return ImportCSV(path)
	}
}

// ImportCSV imports materials from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	var warnings []string
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", warnings)
}

// ImportCSVFromReader imports materials from a CSV reader with a specific delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports materials from an Excel workbook.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		var missing []string
		for _, role := range required {
			if mapping.Index(role) == -1 {
				missing = append(missing, role)
			}
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 2 {
		if _, err := parseNumber(strings.TrimSpace(rows[0][1])); err != nil {
			// Unrecognized header, keep the positional mapping
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	names := make(map[string]bool)
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		m, errMsg, warnings := parseRow(row, mapping, rowLabel, len(result.Materials))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Warnings = append(result.Warnings, warnings...)
		if names[m.Name] {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: Duplicate material name '%s'", rowLabel, m.Name))
		}
		names[m.Name] = true

		result.Materials = append(result.Materials, m)
	}

	return result
}
