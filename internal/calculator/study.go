package calculator

import (
	"github.com/piwi3910/PlyStack/internal/criteria"
	"github.com/piwi3910/PlyStack/internal/model"
)

// FromStudy builds one calculator per requirement of the study, in the order
// load cases, vessels, buckling, deflection.
func FromStudy(study model.Study, reg *criteria.Registry) ([]Calculator, error) {
	if reg == nil {
		reg = criteria.NewRegistry(nil)
	}
	calcs := make([]Calculator, 0, study.RequirementCount())
	for _, lc := range study.LoadCases {
		calcs = append(calcs, NewLoadCase(lc.Name, lc.State, reg))
	}
	for _, v := range study.Vessels {
		c, err := NewPressureVessel(v, reg)
		if err != nil {
			return nil, err
		}
		calcs = append(calcs, c)
	}
	for _, b := range study.Buckling {
		c, err := NewBuckling(b)
		if err != nil {
			return nil, err
		}
		calcs = append(calcs, c)
	}
	for _, d := range study.Deflection {
		c, err := NewDeflection(d, reg)
		if err != nil {
			return nil, err
		}
		calcs = append(calcs, c)
	}
	return calcs, nil
}
