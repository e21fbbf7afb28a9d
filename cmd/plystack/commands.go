package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PlyStack/internal/logging"
	"github.com/piwi3910/PlyStack/internal/model"
	"github.com/piwi3910/PlyStack/internal/project"
)

// options holds every flag value plus the state resolved before a command runs.
type options struct {
	// global
	configPath  string
	envFile     string
	logLevel    string
	logFormat   string
	noColor     bool
	materialsDB string
	metricsAddr string

	// search settings
	algorithm      string
	angles         string
	plyThickness   float64
	material       string
	criterion      string
	symmetric      bool
	maxLayers      int
	maxGenerations int
	study          string
	saveStudy      string
	timeout        time.Duration

	// generic load case
	nx, ny, nxy float64
	mx, my, mxy float64
	dt, dm      float64

	// pressure vessel
	pressure float64
	radius   float64
	openEnds bool

	// plate buckling
	bucklingA, bucklingB   float64
	bucklingNx, bucklingNy float64

	// plate deflection
	plateA, plateB float64
	platePressure  float64
	maxDeflection  float64

	// outputs
	reportPath string
	jsonPath   string
	labelsPath string

	// check
	stack       string
	middleLayer bool

	// compare
	strategies string

	config model.AppConfig
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	o := &options{}

	rootCmd := &cobra.Command{
		Use:   "plystack",
		Short: "Composite laminate stacking sequence optimizer",
		Long: `PlyStack finds the laminate with the fewest plies whose minimal reserve
factor over all requirements reaches one, using classical laminate theory.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setup(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&o.configPath, "config", project.DefaultConfigPath(), "Path to the YAML config file")
	pf.StringVar(&o.envFile, "env-file", ".env", "Env file with PLYSTACK_* overrides, ignored when missing")
	pf.StringVar(&o.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&o.logFormat, "log-format", "", "Log format: text or json")
	pf.BoolVar(&o.noColor, "no-color", false, "Disable colored log output")
	pf.StringVar(&o.materialsDB, "materials-db", "", "Material library path (default ~/.plystack/materials.json)")
	pf.StringVar(&o.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")

	rootCmd.AddCommand(
		newOptimizeCmd(o),
		newCompareCmd(o),
		newCheckCmd(o),
		newMaterialsCmd(o),
		newStudyCmd(o),
		newBackupCmd(o),
	)
	return rootCmd
}

// setup loads the env file and the config, applies overrides in the order
// file, environment, flags, and installs the logger.
func (o *options) setup(cmd *cobra.Command) error {
	if err := project.LoadDotEnv(o.envFile); err != nil {
		return err
	}
	cfg, err := project.LoadAppConfig(o.configPath)
	if err != nil {
		return err
	}
	if err := project.ApplyEnv(&cfg); err != nil {
		return err
	}

	f := cmd.Flags()
	if f.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if f.Changed("log-format") {
		cfg.LogFormat = o.logFormat
	}
	if f.Changed("materials-db") {
		cfg.MaterialsDB = o.materialsDB
	}
	if f.Changed("metrics-addr") {
		cfg.MetricsAddr = o.metricsAddr
	}
	o.config = cfg

	logger, err := logging.New(logging.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Writer:  cmd.ErrOrStderr(),
		NoColor: o.noColor,
	})
	if err != nil {
		return err
	}
	o.logger = logger
	slog.SetDefault(logger)
	return nil
}

// addProblemFlags registers the settings and requirement flags shared by
// optimize, compare and check.
func addProblemFlags(cmd *cobra.Command, o *options) {
	defaults := model.DefaultSettings()
	f := cmd.Flags()

	f.StringVarP(&o.algorithm, "algorithm", "a", string(defaults.Algorithm), "Search strategy: sequential, branch-and-bound, todoroki")
	f.StringVar(&o.angles, "angles", "0,45,-45,90", "Candidate ply angles in degrees, comma separated")
	f.Float64Var(&o.plyThickness, "ply-thickness", defaults.PlyThickness, "Ply thickness (mm)")
	f.StringVarP(&o.material, "material", "m", defaults.Material, "Material name or ID from the library")
	f.StringVar(&o.criterion, "criterion", defaults.Criterion, "Failure criterion: Hashin, MaxStress, TsaiWu, TsaiHill")
	f.BoolVar(&o.symmetric, "symmetric", defaults.Symmetric, "Build symmetric laminates")
	f.IntVar(&o.maxLayers, "max-layers", defaults.MaxLayers, "Give up after this many layers")
	f.IntVar(&o.maxGenerations, "max-generations", defaults.MaxGenerations, "Branch-and-bound depth limit")
	f.StringVar(&o.study, "study", "", "Study file (YAML or JSON) or the name of a saved study")
	f.StringVar(&o.saveStudy, "save-study", "", "Write the assembled study to this file")

	f.Float64Var(&o.nx, "nx", 0, "Load case: membrane force Nx (N/mm)")
	f.Float64Var(&o.ny, "ny", 0, "Load case: membrane force Ny (N/mm)")
	f.Float64Var(&o.nxy, "nxy", 0, "Load case: shear flow Nxy (N/mm)")
	f.Float64Var(&o.mx, "mx", 0, "Load case: bending moment Mx (N)")
	f.Float64Var(&o.my, "my", 0, "Load case: bending moment My (N)")
	f.Float64Var(&o.mxy, "mxy", 0, "Load case: twisting moment Mxy (N)")
	f.Float64Var(&o.dt, "dt", 0, "Load case: temperature change (K)")
	f.Float64Var(&o.dm, "dm", 0, "Load case: moisture change")

	f.Float64Var(&o.pressure, "pressure", 0, "Pressure vessel: internal pressure (MPa)")
	f.Float64Var(&o.radius, "radius", 0, "Pressure vessel: radius (mm)")
	f.BoolVar(&o.openEnds, "open-ends", false, "Pressure vessel: no axial load from end caps")

	f.Float64Var(&o.bucklingA, "buckling-a", 0, "Buckling plate: length in x (mm)")
	f.Float64Var(&o.bucklingB, "buckling-b", 0, "Buckling plate: width in y (mm)")
	f.Float64Var(&o.bucklingNx, "buckling-nx", 0, "Buckling plate: compressive Nx (N/mm)")
	f.Float64Var(&o.bucklingNy, "buckling-ny", 0, "Buckling plate: compressive Ny (N/mm)")

	f.Float64Var(&o.plateA, "plate-a", 0, "Deflection plate: length in x (mm)")
	f.Float64Var(&o.plateB, "plate-b", 0, "Deflection plate: width in y (mm)")
	f.Float64Var(&o.platePressure, "plate-pressure", 0, "Deflection plate: lateral pressure (MPa)")
	f.Float64Var(&o.maxDeflection, "max-deflection", 0, "Deflection plate: allowed center deflection (mm), 0 = strength only")
}

func addOutputFlags(cmd *cobra.Command, o *options) {
	f := cmd.Flags()
	f.StringVar(&o.reportPath, "report", "", "Write a PDF report")
	f.StringVar(&o.jsonPath, "json", "", "Write the result as JSON")
	f.StringVar(&o.labelsPath, "labels", "", "Write QR-coded layup labels, one per ply (PDF)")
}
