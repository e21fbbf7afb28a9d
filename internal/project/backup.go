package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/PlyStack/internal/model"
)

// BackupVersion is written into every backup file.
const BackupVersion = "1.0.0"

// BackupData is the top-level structure for import/export of all application data.
type BackupData struct {
	Version   string                `json:"version"`
	CreatedAt string                `json:"created_at"`
	Config    model.AppConfig       `json:"config"`
	Materials model.MaterialLibrary `json:"materials"`
	Studies   model.StudyStore      `json:"studies"`
}

// ExportAllData exports the config, the material library and saved studies
// to a single JSON file at the specified path.
func ExportAllData(exportPath string, config model.AppConfig, lib model.MaterialLibrary, studies model.StudyStore) error {
	backup := BackupData{
		Version:   BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Materials: lib,
		Studies:   studies,
	}
	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup data: %w", err)
	}

	dir := filepath.Dir(exportPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	if err := os.WriteFile(exportPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller is responsible for applying the imported config.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	if backup.Studies.Studies == nil {
		backup.Studies.Studies = []model.Study{}
	}
	return backup, nil
}

// RestoreAllData writes the contents of a backup to the given locations.
func RestoreAllData(backup BackupData, configPath, materialsPath, studiesPath string) error {
	if err := SaveAppConfig(configPath, backup.Config); err != nil {
		return fmt.Errorf("failed to restore config: %w", err)
	}
	if len(backup.Materials.Materials) > 0 {
		if err := SaveMaterialLibrary(materialsPath, backup.Materials); err != nil {
			return fmt.Errorf("failed to restore materials: %w", err)
		}
	}
	if err := SaveStudies(studiesPath, backup.Studies); err != nil {
		return fmt.Errorf("failed to restore studies: %w", err)
	}
	return nil
}
