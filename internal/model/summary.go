package model

import "sort"

// AngleShare is the fraction of physical plies at one fiber angle.
type AngleShare struct {
	Angle   float64 `json:"angle"`
	Plies   int     `json:"plies"`
	Percent float64 `json:"percent"`
}

// LaminateSummary holds derived quantities of a laminate for reporting.
type LaminateSummary struct {
	StackingSequence string       `json:"stacking_sequence"`
	Plies            int          `json:"plies"`      // Physical plies
	Thickness        float64      `json:"thickness"`  // mm
	ArealMass        float64      `json:"areal_mass"` // g/cm³ · mm = kg/m²
	Shares           []AngleShare `json:"shares"`     // Sorted by angle
}

// Summarize computes the reporting summary of a laminate.
func Summarize(l Laminate) LaminateSummary {
	physical := l.PhysicalLayers()
	counts := make(map[float64]int)
	for _, layer := range physical {
		counts[layer.Angle]++
	}

	shares := make([]AngleShare, 0, len(counts))
	for angle, n := range counts {
		share := AngleShare{Angle: angle, Plies: n}
		if len(physical) > 0 {
			share.Percent = float64(n) / float64(len(physical)) * 100.0
		}
		shares = append(shares, share)
	}
	sort.Slice(shares, func(i, j int) bool {
		return shares[i].Angle < shares[j].Angle
	})

	return LaminateSummary{
		StackingSequence: l.StackingSequence(),
		Plies:            len(physical),
		Thickness:        l.Thickness(),
		ArealMass:        l.ArealMass(),
		Shares:           shares,
	}
}
