package model

// AppConfig holds application-wide preferences and default optimizer settings.
type AppConfig struct {
	// Default search settings applied to new runs
	DefaultAlgorithm    Algorithm `json:"default_algorithm" yaml:"default_algorithm"`
	DefaultAngles       []float64 `json:"default_angles" yaml:"default_angles"`
	DefaultPlyThickness float64   `json:"default_ply_thickness" yaml:"default_ply_thickness"`
	DefaultMaterial     string    `json:"default_material" yaml:"default_material"`
	DefaultCriterion    string    `json:"default_criterion" yaml:"default_criterion"`
	DefaultMaxLayers    int       `json:"default_max_layers" yaml:"default_max_layers"`

	// Application preferences
	LogLevel     string `json:"log_level" yaml:"log_level"`         // "debug", "info", "warn", "error"
	LogFormat    string `json:"log_format" yaml:"log_format"`       // "text" or "json"
	MaterialsDB  string `json:"materials_db" yaml:"materials_db"`   // Material library path, empty = default
	MetricsAddr  string `json:"metrics_addr" yaml:"metrics_addr"`   // Prometheus listen address, empty = disabled
	ProgressSecs int    `json:"progress_secs" yaml:"progress_secs"` // CLI progress print interval
}

// DefaultAppConfig returns an AppConfig populated with defaults matching
// DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	angles := make([]float64, len(defaults.Angles))
	copy(angles, defaults.Angles)
	return AppConfig{
		DefaultAlgorithm:    defaults.Algorithm,
		DefaultAngles:       angles,
		DefaultPlyThickness: defaults.PlyThickness,
		DefaultMaterial:     defaults.Material,
		DefaultCriterion:    defaults.Criterion,
		DefaultMaxLayers:    defaults.MaxLayers,
		LogLevel:            "info",
		LogFormat:           "text",
		MaterialsDB:         "",
		MetricsAddr:         "",
		ProgressSecs:        2,
	}
}

// ApplyToSettings copies the default values from AppConfig into the settings.
func (c AppConfig) ApplyToSettings(s *OptimizerSettings) {
	if c.DefaultAlgorithm != "" {
		s.Algorithm = c.DefaultAlgorithm
	}
	if len(c.DefaultAngles) > 0 {
		s.Angles = make([]float64, len(c.DefaultAngles))
		copy(s.Angles, c.DefaultAngles)
	}
	if c.DefaultPlyThickness > 0 {
		s.PlyThickness = c.DefaultPlyThickness
	}
	if c.DefaultMaterial != "" {
		s.Material = c.DefaultMaterial
	}
	if c.DefaultCriterion != "" {
		s.Criterion = c.DefaultCriterion
	}
	if c.DefaultMaxLayers > 0 {
		s.MaxLayers = c.DefaultMaxLayers
	}
}
