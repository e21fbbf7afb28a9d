package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/piwi3910/PlyStack/internal/model"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "PLYSTACK_"

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.plystack/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".plystack")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// SaveAppConfig persists an AppConfig to the given path as YAML.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadAppConfig reads an AppConfig from the given path.
// If the file does not exist, it returns DefaultAppConfig with no error.
// Keys missing from the file keep their default values.
func LoadAppConfig(path string) (model.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultAppConfig(), nil
		}
		return model.AppConfig{}, err
	}
	config := model.DefaultAppConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return model.AppConfig{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return config, nil
}

// LoadDotEnv loads KEY=VALUE pairs from an env file into the process
// environment. Variables already set are not overwritten. A missing file is
// not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides config fields from PLYSTACK_* environment variables.
//
//	PLYSTACK_ALGORITHM      sequential | branch-and-bound | todoroki
//	PLYSTACK_ANGLES         comma separated degrees, e.g. "0,45,-45,90"
//	PLYSTACK_PLY_THICKNESS  mm
//	PLYSTACK_MATERIAL       material library name
//	PLYSTACK_CRITERION      failure criterion name
//	PLYSTACK_MAX_LAYERS     layer limit
//	PLYSTACK_LOG_LEVEL      debug | info | warn | error
//	PLYSTACK_LOG_FORMAT     text | json
//	PLYSTACK_MATERIALS_DB   material library path
//	PLYSTACK_METRICS_ADDR   prometheus listen address
func ApplyEnv(config *model.AppConfig) error {
	if v, ok := lookup("ALGORITHM"); ok {
		config.DefaultAlgorithm = model.Algorithm(v)
	}
	if v, ok := lookup("ANGLES"); ok {
		angles, err := ParseAngles(v)
		if err != nil {
			return fmt.Errorf("%sANGLES: %w", EnvPrefix, err)
		}
		config.DefaultAngles = angles
	}
	if v, ok := lookup("PLY_THICKNESS"); ok {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%sPLY_THICKNESS: %w", EnvPrefix, err)
		}
		config.DefaultPlyThickness = t
	}
	if v, ok := lookup("MATERIAL"); ok {
		config.DefaultMaterial = v
	}
	if v, ok := lookup("CRITERION"); ok {
		config.DefaultCriterion = v
	}
	if v, ok := lookup("MAX_LAYERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sMAX_LAYERS: %w", EnvPrefix, err)
		}
		config.DefaultMaxLayers = n
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		config.LogLevel = v
	}
	if v, ok := lookup("LOG_FORMAT"); ok {
		config.LogFormat = v
	}
	if v, ok := lookup("MATERIALS_DB"); ok {
		config.MaterialsDB = v
	}
	if v, ok := lookup("METRICS_ADDR"); ok {
		config.MetricsAddr = v
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// ParseAngles parses a comma separated list of ply angles in degrees.
func ParseAngles(s string) ([]float64, error) {
	var angles []float64
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		a, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid angle %q: %w", field, err)
		}
		angles = append(angles, a)
	}
	if len(angles) == 0 {
		return nil, fmt.Errorf("no angles in %q", s)
	}
	return angles, nil
}
