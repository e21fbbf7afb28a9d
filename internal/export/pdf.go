package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/PlyStack/internal/model"
)

// plyColor represents an RGB fill for one fiber angle.
type plyColor struct {
	R, G, B int
}

var angleColors = []plyColor{
	{R: 33, G: 150, B: 243}, // blue
	{R: 76, G: 175, B: 80},  // green
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 portrait in mm).
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	rowHeight    = 5.5
	reportQRSize = 35.0
	contentWidth = pageWidth - marginLeft - marginRight
)

// StackingCode is the payload of the report QR code. It carries enough to
// rebuild the laminate with the same material.
type StackingCode struct {
	Stacking     string    `json:"stacking"`
	Angles       []float64 `json:"angles"` // Stored half for symmetric laminates
	Symmetric    bool      `json:"symmetric"`
	MiddleLayer  bool      `json:"middle_layer,omitempty"`
	PlyThickness float64   `json:"ply_thickness"`
	Material     string    `json:"material"`
}

// NewStackingCode extracts the QR payload from a laminate.
func NewStackingCode(lam model.Laminate) StackingCode {
	code := StackingCode{
		Stacking:    lam.StackingSequence(),
		Angles:      lam.Angles(),
		Symmetric:   lam.Symmetric,
		MiddleLayer: lam.MiddleLayer,
	}
	if len(lam.Layers) > 0 {
		code.PlyThickness = lam.Layers[0].Thickness
		code.Material = lam.Layers[0].Material.Name
	}
	return code
}

// EncodeQR renders the stacking code of a laminate as a PNG QR code.
func EncodeQR(lam model.Laminate, size int) ([]byte, error) {
	data, err := json.Marshal(NewStackingCode(lam))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stacking code: %w", err)
	}
	png, err := qrcode.Encode(string(data), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}

// ExportPDF generates a laminate report: summary and QR code, the stacking
// table with a through-thickness diagram, the ABD matrix, the margin of every
// requirement and the search statistics.
func ExportPDF(path string, r Report) error {
	if len(r.Plies) == 0 {
		return ErrEmptyReport
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-marginBottom + 3)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 5, fmt.Sprintf("%s | page %d", r.Title, pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	if err := renderHeader(pdf, r); err != nil {
		return err
	}
	renderSummary(pdf, r)
	renderStackDiagram(pdf, r)
	renderStackingTable(pdf, r)
	renderABD(pdf, r)
	renderMargins(pdf, r)
	renderStats(pdf, r)

	return pdf.OutputFileAndClose(path)
}

// renderHeader draws the title block and the QR code in the top right corner.
func renderHeader(pdf *fpdf.Fpdf, r Report) error {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(contentWidth-reportQRSize-5, headerHeight, r.Title, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentWidth-reportQRSize-5, rowHeight, "Generated "+r.GeneratedAt.Format("2006-01-02 15:04 MST"), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentWidth-reportQRSize-5, rowHeight, "Material: "+r.Material(), "", 1, "L", false, 0, "")

	png, err := EncodeQR(r.Laminate, 256)
	if err != nil {
		return err
	}
	pdf.RegisterImageOptionsReader("stacking_qr", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	pdf.ImageOptions("stacking_qr", pageWidth-marginRight-reportQRSize, marginTop, reportQRSize, reportQRSize, false,
		fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetY(marginTop + reportQRSize + 3)
	return nil
}

func sectionTitle(pdf *fpdf.Fpdf, title string) {
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(contentWidth, 8, title, "B", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func keyValue(pdf *fpdf.Fpdf, key, value string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(50, rowHeight, key, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentWidth-50, rowHeight, value, "", 1, "L", false, 0, "")
}

func renderSummary(pdf *fpdf.Fpdf, r Report) {
	sectionTitle(pdf, "Laminate")
	keyValue(pdf, "Stacking sequence", r.Summary.StackingSequence)
	keyValue(pdf, "Plies", strconv.Itoa(r.Summary.Plies))
	keyValue(pdf, "Thickness", fmt.Sprintf("%.3f mm", r.Summary.Thickness))
	keyValue(pdf, "Areal mass", fmt.Sprintf("%.3f kg/m2", r.Summary.ArealMass))
	sym := "no"
	if r.Symmetric {
		sym = "yes"
		if r.MiddleLayer {
			sym += ", middle ply on the mid-plane"
		}
	}
	keyValue(pdf, "Symmetric", sym)
	keyValue(pdf, "Reserve factor", r.MinReserveFactor.String())

	pdf.Ln(2)
	header := []string{"Angle", "Plies", "Share"}
	widths := []float64{30, 30, 30}
	tableHeader(pdf, header, widths)
	pdf.SetFont("Helvetica", "", 9)
	for _, s := range r.Summary.Shares {
		pdf.CellFormat(widths[0], rowHeight, formatAngle(s.Angle), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[1], rowHeight, strconv.Itoa(s.Plies), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], rowHeight, fmt.Sprintf("%.1f%%", s.Percent), "1", 1, "R", false, 0, "")
	}
}

// renderStackDiagram draws the physical stack as horizontal bands scaled to
// ply thickness, colored by angle.
func renderStackDiagram(pdf *fpdf.Fpdf, r Report) {
	sectionTitle(pdf, "Through-thickness layup")

	const maxHeight = 60.0
	bandHeight := maxHeight / float64(len(r.Plies))
	if bandHeight > 4 {
		bandHeight = 4
	}
	height := bandHeight * float64(len(r.Plies))
	if pdf.GetY()+height > pageHeight-marginBottom {
		pdf.AddPage()
	}

	colors := colorsByAngle(r)
	x := marginLeft + 20
	y := pdf.GetY()
	width := contentWidth - 40
	pdf.SetLineWidth(0.1)
	pdf.SetDrawColor(60, 60, 60)
	for i, p := range r.Plies {
		col := colors[p.Angle]
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(x, y+float64(i)*bandHeight, width, bandHeight, "FD")
		if bandHeight >= 3 {
			pdf.SetFont("Helvetica", "", 6)
			pdf.SetTextColor(0, 0, 0)
			pdf.SetXY(x+width+1, y+float64(i)*bandHeight)
			pdf.CellFormat(18, bandHeight, formatAngle(p.Angle), "", 0, "L", false, 0, "")
		}
	}
	if r.Symmetric {
		// mid-plane
		pdf.SetDrawColor(200, 0, 0)
		pdf.SetLineWidth(0.4)
		pdf.Line(x-5, y+height/2, x+width+5, y+height/2)
	}
	pdf.SetXY(marginLeft, y+height+2)
}

func colorsByAngle(r Report) map[float64]plyColor {
	colors := make(map[float64]plyColor, len(r.Summary.Shares))
	for i, s := range r.Summary.Shares {
		colors[s.Angle] = angleColors[i%len(angleColors)]
	}
	return colors
}

func renderStackingTable(pdf *fpdf.Fpdf, r Report) {
	sectionTitle(pdf, "Stacking table")
	header := []string{"#", "Angle", "t (mm)", "z top", "z bottom", "Material", "Criterion"}
	widths := []float64{12, 18, 18, 22, 22, 58, 30}
	tableHeader(pdf, header, widths)

	pdf.SetFont("Helvetica", "", 8)
	for _, p := range r.Plies {
		if pdf.GetY()+rowHeight > pageHeight-marginBottom {
			pdf.AddPage()
			tableHeader(pdf, header, widths)
			pdf.SetFont("Helvetica", "", 8)
		}
		pdf.CellFormat(widths[0], rowHeight, strconv.Itoa(p.Index+1), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[1], rowHeight, formatAngle(p.Angle), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], rowHeight, fmt.Sprintf("%.3f", p.Thickness), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], rowHeight, fmt.Sprintf("%.4f", p.ZTop), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], rowHeight, fmt.Sprintf("%.4f", p.ZBottom), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], rowHeight, p.Material, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[6], rowHeight, p.Criterion, "1", 1, "L", false, 0, "")
	}
}

func renderABD(pdf *fpdf.Fpdf, r Report) {
	sectionTitle(pdf, "ABD matrix")
	if pdf.GetY()+7*rowHeight > pageHeight-marginBottom {
		pdf.AddPage()
	}
	pdf.SetFont("Courier", "", 8)
	w := contentWidth / 6
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			fill := (i < 3) != (j < 3)
			if fill {
				pdf.SetFillColor(235, 235, 235)
			}
			ln := 0
			if j == 5 {
				ln = 1
			}
			pdf.CellFormat(w, rowHeight, fmt.Sprintf("%.4g", r.ABD[i][j]), "1", ln, "R", fill, 0, "")
		}
	}
	pdf.SetFont("Helvetica", "I", 8)
	note := "B block is zero (uncoupled)"
	if r.Coupled {
		note = "Bending-extension coupled (B block non-zero)"
	}
	pdf.CellFormat(contentWidth, rowHeight, note, "", 1, "L", false, 0, "")
}

func renderMargins(pdf *fpdf.Fpdf, r Report) {
	sectionTitle(pdf, "Requirements")
	if len(r.Margins) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(contentWidth, rowHeight, "No requirements evaluated", "", 1, "L", false, 0, "")
		return
	}
	header := []string{"Requirement", "RF", "Mode", "Ply", "Surface"}
	widths := []float64{60, 25, 50, 20, 25}
	tableHeader(pdf, header, widths)

	pdf.SetFont("Helvetica", "", 9)
	for _, m := range r.Margins {
		if float64(m.ReserveFactor) < 1 {
			pdf.SetTextColor(200, 0, 0)
		} else {
			pdf.SetTextColor(0, 120, 0)
		}
		ply := "-"
		if m.Ply >= 0 {
			ply = strconv.Itoa(m.Ply + 1)
		}
		pdf.CellFormat(widths[0], rowHeight, m.Calculator, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], rowHeight, m.ReserveFactor.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], rowHeight, m.Mode, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], rowHeight, ply, "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], rowHeight, m.Surface, "1", 1, "L", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
}

func renderStats(pdf *fpdf.Fpdf, r Report) {
	if r.Stats == nil {
		return
	}
	sectionTitle(pdf, "Search statistics")
	keyValue(pdf, "Strategy", string(r.Stats.Strategy))
	keyValue(pdf, "Laminates checked", strconv.FormatInt(r.Stats.LaminatesChecked, 10))
	keyValue(pdf, "Constraint evaluations", strconv.FormatInt(r.Stats.ConstraintEvaluations, 10))
	keyValue(pdf, "Wall time", fmt.Sprintf("%.3f s", r.Stats.DurationSeconds))
	if r.Stats.Infeasible {
		keyValue(pdf, "Outcome", "infeasible within limits")
	}
}

func tableHeader(pdf *fpdf.Fpdf, header []string, widths []float64) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(220, 220, 220)
	pdf.SetTextColor(0, 0, 0)
	for i, h := range header {
		ln := 0
		if i == len(header)-1 {
			ln = 1
		}
		pdf.CellFormat(widths[i], rowHeight+1, h, "1", ln, "C", true, 0, "")
	}
}

// formatAngle avoids the degree sign, which the core fonts cannot encode.
func formatAngle(a float64) string {
	return strconv.FormatFloat(a, 'f', -1, 64) + " deg"
}
