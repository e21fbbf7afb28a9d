package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/piwi3910/PlyStack/internal/model"
)

// DefaultStudiesPath returns the default file path for the study store.
// This is located at ~/.plystack/studies.json.
func DefaultStudiesPath() string {
	return filepath.Join(DefaultConfigDir(), "studies.json")
}

// SaveStudies writes the study store to a JSON file.
func SaveStudies(path string, store model.StudyStore) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadStudies reads a study store from a JSON file.
// If the file does not exist, returns an empty store.
func LoadStudies(path string) (model.StudyStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewStudyStore(), nil
		}
		return model.StudyStore{}, err
	}
	var store model.StudyStore
	if err := json.Unmarshal(data, &store); err != nil {
		return model.StudyStore{}, fmt.Errorf("failed to parse study store %s: %w", path, err)
	}
	if store.Studies == nil {
		store.Studies = []model.Study{}
	}
	return store, nil
}

// SaveStudy writes a single study as YAML, or JSON when the path ends in .json.
func SaveStudy(path string, study model.Study) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	var (
		data []byte
		err  error
	)
	if isJSON(path) {
		data, err = json.MarshalIndent(study, "", "  ")
	} else {
		data, err = yaml.Marshal(study)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadStudy reads a single study file. Settings missing from the file keep
// their defaults.
func LoadStudy(path string) (model.Study, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Study{}, fmt.Errorf("failed to read study: %w", err)
	}
	study := model.Study{Settings: model.DefaultSettings()}
	if isJSON(path) {
		err = json.Unmarshal(data, &study)
	} else {
		err = yaml.Unmarshal(data, &study)
	}
	if err != nil {
		return model.Study{}, fmt.Errorf("failed to parse study %s: %w", path, err)
	}
	if study.Name == "" {
		study.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return study, nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
