package model

// MaterialLibrary holds the user's saved ply materials.
type MaterialLibrary struct {
	Materials []Material `json:"materials"`
}

// IsotropicTestMaterial has equal moduli and strengths in both directions.
// It is handy for checking that the optimizer aligns plies with the load.
func IsotropicTestMaterial() Material {
	m := NewMaterial("Isotropic-like", 135000, 135000, 135000/2.6, 0.3, 1.6, 1500, 1500, 1500, 1500, 70)
	m.ID = "iso-test"
	return m
}

// DefaultMaterialLibrary returns a library populated with common ply systems.
func DefaultMaterialLibrary() MaterialLibrary {
	t300 := NewMaterial("CFRP T300/Epoxy", 135000, 10000, 5000, 0.27, 1.6, 1500, 1200, 50, 250, 70)
	t300.Alpha1, t300.Alpha2 = -0.3e-6, 28e-6
	t300.Beta1, t300.Beta2 = 0, 0.44

	im7 := NewMaterial("CFRP IM7/8552", 161000, 11380, 5170, 0.32, 1.57, 2326, 1200, 62, 200, 92)
	im7.Alpha1, im7.Alpha2 = -0.1e-6, 31e-6

	eglass := NewMaterial("GFRP E-Glass/Epoxy", 39000, 8600, 3800, 0.28, 2.1, 1080, 620, 39, 128, 89)
	eglass.Alpha1, eglass.Alpha2 = 7e-6, 21e-6
	eglass.Beta1, eglass.Beta2 = 0, 0.6

	aramid := NewMaterial("AFRP Kevlar 49/Epoxy", 76000, 5500, 2300, 0.34, 1.38, 1400, 235, 12, 53, 34)
	aramid.Alpha1, aramid.Alpha2 = -2e-6, 60e-6

	return MaterialLibrary{
		Materials: []Material{t300, im7, eglass, aramid, IsotropicTestMaterial()},
	}
}

// FindByID returns a pointer to the material with the given ID, or nil.
func (lib *MaterialLibrary) FindByID(id string) *Material {
	for i := range lib.Materials {
		if lib.Materials[i].ID == id {
			return &lib.Materials[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first material with the given name, or nil.
func (lib *MaterialLibrary) FindByName(name string) *Material {
	for i := range lib.Materials {
		if lib.Materials[i].Name == name {
			return &lib.Materials[i]
		}
	}
	return nil
}

// Names returns the material names in library order.
func (lib *MaterialLibrary) Names() []string {
	names := make([]string, len(lib.Materials))
	for i, m := range lib.Materials {
		names[i] = m.Name
	}
	return names
}
