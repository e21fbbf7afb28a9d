package model

// Degree of freedom indices shared by Loads, Strains and the 6x6 ABD relation.
const (
	DofNx = iota
	DofNy
	DofNxy
	DofMx
	DofMy
	DofMxy
)

// Loads holds the six mechanical force and moment resultants per unit width.
type Loads struct {
	Nx  float64 `json:"nx" yaml:"nx"`
	Ny  float64 `json:"ny" yaml:"ny"`
	Nxy float64 `json:"nxy" yaml:"nxy"`
	Mx  float64 `json:"mx" yaml:"mx"`
	My  float64 `json:"my" yaml:"my"`
	Mxy float64 `json:"mxy" yaml:"mxy"`
}

// Vector returns the resultants in degree of freedom order.
func (l Loads) Vector() [6]float64 {
	return [6]float64{l.Nx, l.Ny, l.Nxy, l.Mx, l.My, l.Mxy}
}

// LoadsFromVector is the inverse of Loads.Vector.
func LoadsFromVector(v [6]float64) Loads {
	return Loads{Nx: v[0], Ny: v[1], Nxy: v[2], Mx: v[3], My: v[4], Mxy: v[5]}
}

// Strains holds the mid-surface strains and curvatures.
type Strains struct {
	Ex  float64 `json:"ex" yaml:"ex"`
	Ey  float64 `json:"ey" yaml:"ey"`
	Gxy float64 `json:"gxy" yaml:"gxy"`
	Kx  float64 `json:"kx" yaml:"kx"`
	Ky  float64 `json:"ky" yaml:"ky"`
	Kxy float64 `json:"kxy" yaml:"kxy"`
}

// Vector returns the strains in degree of freedom order.
func (s Strains) Vector() [6]float64 {
	return [6]float64{s.Ex, s.Ey, s.Gxy, s.Kx, s.Ky, s.Kxy}
}

// StrainsFromVector is the inverse of Strains.Vector.
func StrainsFromVector(v [6]float64) Strains {
	return Strains{Ex: v[0], Ey: v[1], Gxy: v[2], Kx: v[3], Ky: v[4], Kxy: v[5]}
}

// LoadState describes one load case. For every degree of freedom
// StrainPrescribed selects whether the strain (true) or the load (false) is
// given; the other quantity is derived from the laminate. DeltaT and DeltaM
// are the temperature and moisture changes from the stress-free state.
type LoadState struct {
	Loads            Loads   `json:"loads" yaml:"loads"`
	Strains          Strains `json:"strains" yaml:"strains"`
	DeltaT           float64 `json:"delta_t" yaml:"delta_t"`
	DeltaM           float64 `json:"delta_m" yaml:"delta_m"`
	StrainPrescribed [6]bool `json:"strain_prescribed" yaml:"strain_prescribed"`
}

// LoadsOnly returns a load state with every degree of freedom load-prescribed.
func LoadsOnly(l Loads) LoadState {
	return LoadState{Loads: l}
}

// StrainsOnly returns a load state with every degree of freedom strain-prescribed.
func StrainsOnly(s Strains) LoadState {
	return LoadState{
		Strains:          s,
		StrainPrescribed: [6]bool{true, true, true, true, true, true},
	}
}

// StressState is the in-plane stress of one ply surface in material axes.
type StressState struct {
	S11 float64 `json:"s11"` // Parallel to the fibers
	S22 float64 `json:"s22"` // Transverse to the fibers
	S12 float64 `json:"s12"` // In-plane shear
}

// IsZero reports whether all in-plane components vanish.
func (s StressState) IsZero() bool {
	return s.S11 == 0 && s.S22 == 0 && s.S12 == 0
}
