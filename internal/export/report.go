// Package export renders laminate design results to PDF and JSON.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/piwi3910/PlyStack/internal/calculator"
	"github.com/piwi3910/PlyStack/internal/clt"
	"github.com/piwi3910/PlyStack/internal/model"
)

// ErrEmptyReport is returned when a report has no laminate to render.
var ErrEmptyReport = errors.New("report has no laminate")

// Factor is a reserve factor that encodes non-finite values as JSON strings
// ("inf", "-inf", "nan"), since JSON numbers cannot hold them.
type Factor float64

func (f Factor) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsInf(v, 1):
		return []byte(`"inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-inf"`), nil
	case math.IsNaN(v):
		return []byte(`"nan"`), nil
	}
	return []byte(strconv.FormatFloat(v, 'g', -1, 64)), nil
}

func (f *Factor) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"inf"`:
		*f = Factor(math.Inf(1))
	case `"-inf"`:
		*f = Factor(math.Inf(-1))
	case `"nan"`:
		*f = Factor(math.NaN())
	default:
		v, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("invalid reserve factor %s: %w", data, err)
		}
		*f = Factor(v)
	}
	return nil
}

// String formats the factor for tables.
func (f Factor) String() string {
	v := float64(f)
	if math.IsInf(v, 1) {
		return "inf"
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// Margin is the reserve factor of one requirement.
type Margin struct {
	Calculator    string `json:"calculator"`
	ReserveFactor Factor `json:"reserve_factor"`
	Mode          string `json:"mode,omitempty"`
	Ply           int    `json:"ply"`
	Surface       string `json:"surface,omitempty"`
}

// PlyRow is one physical ply in the stacking table.
type PlyRow struct {
	Index     int     `json:"index"`
	Angle     float64 `json:"angle"`
	Thickness float64 `json:"thickness"`
	ZTop      float64 `json:"z_top"`
	ZBottom   float64 `json:"z_bottom"`
	Material  string  `json:"material"`
	Criterion string  `json:"criterion"`
}

// SearchStats describes the optimization run that produced the laminate.
type SearchStats struct {
	Strategy              model.Algorithm `json:"strategy"`
	LaminatesChecked      int64           `json:"laminates_checked"`
	ConstraintEvaluations int64           `json:"constraint_evaluations"`
	DurationSeconds       float64         `json:"duration_seconds"`
	Infeasible            bool            `json:"infeasible"`
}

// StatsFromProgress converts a result snapshot into report statistics.
func StatsFromProgress(p model.Progress, elapsed time.Duration) *SearchStats {
	return &SearchStats{
		Strategy:              p.Strategy,
		LaminatesChecked:      p.LaminatesChecked,
		ConstraintEvaluations: p.ConstraintEvaluations,
		DurationSeconds:       elapsed.Seconds(),
		Infeasible:            p.Infeasible,
	}
}

// Report is everything rendered for one laminate.
type Report struct {
	Title            string                `json:"title"`
	GeneratedAt      time.Time             `json:"generated_at"`
	Laminate         model.Laminate        `json:"-"`
	Summary          model.LaminateSummary `json:"summary"`
	Symmetric        bool                  `json:"symmetric"`
	MiddleLayer      bool                  `json:"middle_layer"`
	Plies            []PlyRow              `json:"plies"`
	ABD              [6][6]float64         `json:"abd"`
	Coupled          bool                  `json:"coupled"`
	Margins          []Margin              `json:"margins"`
	MinReserveFactor Factor                `json:"min_reserve_factor"`
	Stats            *SearchStats          `json:"stats,omitempty"`
}

// BuildReport evaluates the laminate against every calculator and collects
// the stiffness data for rendering. Calculators that implement
// calculator.Explainer contribute the governing ply and failure mode.
func BuildReport(title string, lam model.Laminate, calcs []calculator.Calculator, stats *SearchStats) (Report, error) {
	if len(lam.Layers) == 0 {
		return Report{}, ErrEmptyReport
	}
	st, err := clt.Compute(lam)
	if err != nil {
		return Report{}, fmt.Errorf("failed to compute stiffness: %w", err)
	}

	r := Report{
		Title:            title,
		GeneratedAt:      time.Now().UTC(),
		Laminate:         lam.Clone(),
		Summary:          model.Summarize(lam),
		Symmetric:        lam.Symmetric,
		MiddleLayer:      lam.MiddleLayer,
		Coupled:          st.Coupled(),
		MinReserveFactor: Factor(math.Inf(1)),
		Stats:            stats,
	}
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			r.ABD[i][j] = st.ABD.At(i, j)
		}
	}
	for _, p := range st.Plies {
		r.Plies = append(r.Plies, PlyRow{
			Index:     p.Index,
			Angle:     p.Layer.Angle,
			Thickness: p.Layer.Thickness,
			ZTop:      p.ZTop,
			ZBottom:   p.ZBottom,
			Material:  p.Layer.Material.Name,
			Criterion: p.Layer.Criterion,
		})
	}

	for _, c := range calcs {
		m := Margin{Calculator: c.Name(), Ply: -1}
		if ex, ok := c.(calculator.Explainer); ok {
			gov, err := ex.Evaluate(lam)
			if err != nil {
				return Report{}, fmt.Errorf("%s: %w", c.Name(), err)
			}
			m.ReserveFactor = Factor(gov.ReserveFactor.Value)
			m.Mode = gov.ReserveFactor.Mode
			m.Ply = gov.Ply
			m.Surface = gov.Surface
		} else {
			rf, err := c.MinimalReserveFactor(lam)
			if err != nil {
				return Report{}, fmt.Errorf("%s: %w", c.Name(), err)
			}
			m.ReserveFactor = Factor(rf)
		}
		if m.ReserveFactor < r.MinReserveFactor {
			r.MinReserveFactor = m.ReserveFactor
		}
		r.Margins = append(r.Margins, m)
	}
	return r, nil
}

// Material returns the name of the first ply material.
func (r Report) Material() string {
	if len(r.Plies) == 0 {
		return ""
	}
	return r.Plies[0].Material
}

// ExportJSON writes the report as indented JSON.
func ExportJSON(path string, r Report) error {
	if len(r.Plies) == 0 {
		return ErrEmptyReport
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
