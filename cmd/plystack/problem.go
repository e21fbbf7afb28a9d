package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PlyStack/internal/calculator"
	"github.com/piwi3910/PlyStack/internal/criteria"
	"github.com/piwi3910/PlyStack/internal/engine"
	"github.com/piwi3910/PlyStack/internal/model"
	"github.com/piwi3910/PlyStack/internal/project"
)

var errNoRequirements = errors.New("no requirements: give a load (--nx ...), --pressure, --buckling-a/-b, --plate-a/-b or --study")

// problem is a study resolved against the material library.
type problem struct {
	study    model.Study
	material model.Material
	calcs    []calculator.Calculator
	reg      *criteria.Registry
}

func (p *problem) input(o *options) engine.Input {
	return engine.NewInput(p.study.Settings, p.material, p.calcs, p.reg, o.logger)
}

// loadProblem assembles the study from --study and the flags, resolves the
// material and builds the calculators.
func (o *options) loadProblem(cmd *cobra.Command) (*problem, error) {
	study, err := o.buildStudy(cmd)
	if err != nil {
		return nil, err
	}
	if o.saveStudy != "" {
		if err := project.SaveStudy(o.saveStudy, study); err != nil {
			return nil, fmt.Errorf("failed to save study: %w", err)
		}
		o.logger.Info("study saved", "path", o.saveStudy)
	}

	lib, path, err := project.LoadOrCreateMaterialLibrary(o.config.MaterialsDB)
	if err != nil {
		return nil, err
	}
	mat, err := findMaterial(lib, study.Settings.Material)
	if err != nil {
		return nil, fmt.Errorf("%w (library %s)", err, path)
	}

	reg := criteria.NewRegistry(o.logger)
	calcs, err := calculator.FromStudy(study, reg)
	if err != nil {
		return nil, err
	}
	if len(calcs) == 0 {
		return nil, errNoRequirements
	}
	return &problem{study: study, material: mat, calcs: calcs, reg: reg}, nil
}

// buildStudy starts from the config defaults or the given study and applies
// every flag the user set.
func (o *options) buildStudy(cmd *cobra.Command) (model.Study, error) {
	settings := model.DefaultSettings()
	o.config.ApplyToSettings(&settings)
	study := model.NewStudy("plystack", "", settings)

	if o.study != "" {
		s, err := o.resolveStudy(o.study)
		if err != nil {
			return model.Study{}, err
		}
		study = s
	}

	f := cmd.Flags()
	s := &study.Settings
	if f.Changed("algorithm") {
		s.Algorithm = model.Algorithm(o.algorithm)
	}
	if f.Changed("angles") {
		angles, err := project.ParseAngles(o.angles)
		if err != nil {
			return model.Study{}, fmt.Errorf("--angles: %w", err)
		}
		s.Angles = angles
	}
	if f.Changed("ply-thickness") {
		s.PlyThickness = o.plyThickness
	}
	if f.Changed("material") {
		s.Material = o.material
	}
	if f.Changed("criterion") {
		s.Criterion = o.criterion
	}
	if f.Changed("symmetric") {
		s.Symmetric = o.symmetric
	}
	if f.Changed("max-layers") {
		s.MaxLayers = o.maxLayers
	}
	if f.Changed("max-generations") {
		s.MaxGenerations = o.maxGenerations
	}

	if anyChanged(cmd, "nx", "ny", "nxy", "mx", "my", "mxy", "dt", "dm") {
		study.LoadCases = append(study.LoadCases, model.LoadCaseDef{
			Name: "load case",
			State: model.LoadState{
				Loads:  model.Loads{Nx: o.nx, Ny: o.ny, Nxy: o.nxy, Mx: o.mx, My: o.my, Mxy: o.mxy},
				DeltaT: o.dt,
				DeltaM: o.dm,
			},
		})
	}
	if f.Changed("pressure") {
		study.Vessels = append(study.Vessels, model.PressureVesselDef{
			Name:       "pressure vessel",
			Pressure:   o.pressure,
			Radius:     o.radius,
			ClosedEnds: !o.openEnds,
		})
	}
	if anyChanged(cmd, "buckling-a", "buckling-b") {
		study.Buckling = append(study.Buckling, model.BucklingDef{
			Name: "buckling",
			A:    o.bucklingA,
			B:    o.bucklingB,
			Nx:   o.bucklingNx,
			Ny:   o.bucklingNy,
		})
	}
	if anyChanged(cmd, "plate-a", "plate-b") {
		study.Deflection = append(study.Deflection, model.DeflectionDef{
			Name:          "deflection",
			A:             o.plateA,
			B:             o.plateB,
			Pressure:      o.platePressure,
			MaxDeflection: o.maxDeflection,
		})
	}
	return study, nil
}

// resolveStudy loads a study file, or a saved study by name when no such
// file exists.
func (o *options) resolveStudy(ref string) (model.Study, error) {
	if _, err := os.Stat(ref); err == nil {
		return project.LoadStudy(ref)
	}
	store, err := project.LoadStudies(project.DefaultStudiesPath())
	if err != nil {
		return model.Study{}, err
	}
	if s := store.FindByName(ref); s != nil {
		return *s, nil
	}
	if s := store.FindByID(ref); s != nil {
		return *s, nil
	}
	return model.Study{}, fmt.Errorf("study %q is neither a file nor a saved study", ref)
}

func anyChanged(cmd *cobra.Command, names ...string) bool {
	for _, name := range names {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

func findMaterial(lib model.MaterialLibrary, ref string) (model.Material, error) {
	if m := lib.FindByName(ref); m != nil {
		return *m, nil
	}
	if m := lib.FindByID(ref); m != nil {
		return *m, nil
	}
	return model.Material{}, fmt.Errorf("unknown material %q, available: %s", ref, strings.Join(lib.Names(), ", "))
}
