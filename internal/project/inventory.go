package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/PlyStack/internal/model"
)

// DefaultMaterialsPath returns the default file path for the material library.
// This is located at ~/.plystack/materials.json.
func DefaultMaterialsPath() string {
	return filepath.Join(DefaultConfigDir(), "materials.json")
}

// SaveMaterialLibrary writes the library to the specified JSON file.
// It creates parent directories if they do not exist.
func SaveMaterialLibrary(path string, lib model.MaterialLibrary) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(lib, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadMaterialLibrary reads the library from the specified JSON file.
// If the file does not exist, it returns the default library and saves it.
func LoadMaterialLibrary(path string) (model.MaterialLibrary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			lib := model.DefaultMaterialLibrary()
			if saveErr := SaveMaterialLibrary(path, lib); saveErr != nil {
				return lib, saveErr
			}
			return lib, nil
		}
		return model.MaterialLibrary{}, err
	}
	var lib model.MaterialLibrary
	if err := json.Unmarshal(data, &lib); err != nil {
		return model.MaterialLibrary{}, fmt.Errorf("failed to parse material library %s: %w", path, err)
	}
	return lib, nil
}

// LoadOrCreateMaterialLibrary loads the library from path, or from the
// default location when path is empty.
func LoadOrCreateMaterialLibrary(path string) (model.MaterialLibrary, string, error) {
	if path == "" {
		path = DefaultMaterialsPath()
	}
	lib, err := LoadMaterialLibrary(path)
	return lib, path, err
}

// ImportMaterialLibrary imports a library from a user-specified JSON file,
// merging it with the existing library. Duplicate IDs are skipped.
func ImportMaterialLibrary(path string, existing model.MaterialLibrary) (model.MaterialLibrary, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return existing, 0, err
	}
	var imported model.MaterialLibrary
	if err := json.Unmarshal(data, &imported); err != nil {
		return existing, 0, fmt.Errorf("failed to parse material library %s: %w", path, err)
	}
	return MergeMaterials(existing, imported.Materials)
}

// MergeMaterials appends the valid materials whose IDs are not yet in the
// library and reports how many were added. The first invalid material aborts
// the merge and leaves the library unchanged.
func MergeMaterials(existing model.MaterialLibrary, materials []model.Material) (model.MaterialLibrary, int, error) {
	for _, m := range materials {
		if err := m.Validate(); err != nil {
			return existing, 0, fmt.Errorf("failed to merge materials: %w", err)
		}
	}

	ids := make(map[string]bool, len(existing.Materials))
	for _, m := range existing.Materials {
		ids[m.ID] = true
	}

	merged := model.MaterialLibrary{Materials: append([]model.Material(nil), existing.Materials...)}
	added := 0
	for _, m := range materials {
		if ids[m.ID] {
			continue
		}
		merged.Materials = append(merged.Materials, m.Clone())
		ids[m.ID] = true
		added++
	}
	return merged, added, nil
}
