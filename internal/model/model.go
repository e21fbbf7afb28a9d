package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// nameSeq numbers layers and laminates for human-readable names. It is shared
// by every search running in the process and carries no other meaning.
var nameSeq atomic.Int64

// NextName returns prefix followed by the next value of the shared counter.
func NextName(prefix string) string {
	return prefix + "-" + strconv.FormatInt(nameSeq.Add(1), 10)
}

// Layer is one ply of a laminate.
type Layer struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Material  Material `json:"material"`
	Angle     float64  `json:"angle"`     // Fiber angle in degrees, measured from the laminate x axis
	Thickness float64  `json:"thickness"` // mm
	Criterion string   `json:"criterion"` // Registered failure criterion name
}

// NewLayer creates a layer with a generated ID and name.
func NewLayer(mat Material, angle, thickness float64, criterion string) Layer {
	return Layer{
		ID:        uuid.New().String()[:8],
		Name:      NextName("Layer"),
		Material:  mat.Clone(),
		Angle:     angle,
		Thickness: thickness,
		Criterion: criterion,
	}
}

// Clone returns a deep copy of the layer. The copy keeps the ID and name.
func (l Layer) Clone() Layer {
	c := l
	c.Material = l.Material.Clone()
	return c
}

// WithAngle returns a fresh layer with the given angle and a new identity.
func (l Layer) WithAngle(angle float64) Layer {
	c := l.Clone()
	c.ID = uuid.New().String()[:8]
	c.Name = NextName("Layer")
	c.Angle = angle
	return c
}

// Laminate is an ordered stack of layers. Layers are listed outermost first.
// For a symmetric laminate Layers holds the upper half down to the mid-plane
// and the physical stack is completed by its mirror image. MiddleLayer marks
// the last entry of Layers as a single ply that straddles the mid-plane and is
// therefore not mirrored.
//
// A Laminate is treated as a value: the With* methods return deep copies and
// never modify the receiver.
type Laminate struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Layers      []Layer `json:"layers"`
	Symmetric   bool    `json:"symmetric"`
	MiddleLayer bool    `json:"middle_layer"`
}

// NewLaminate creates an empty laminate with a generated ID and name.
func NewLaminate(symmetric bool) Laminate {
	return Laminate{
		ID:        uuid.New().String()[:8],
		Name:      NextName("Laminate"),
		Layers:    []Layer{},
		Symmetric: symmetric,
	}
}

// Clone returns a deep copy that shares no layer data with the receiver.
func (l Laminate) Clone() Laminate {
	c := l
	c.Layers = make([]Layer, len(l.Layers))
	for i, layer := range l.Layers {
		c.Layers[i] = layer.Clone()
	}
	return c
}

// derive returns a deep copy with a fresh identity.
func (l Laminate) derive() Laminate {
	c := l.Clone()
	c.ID = uuid.New().String()[:8]
	c.Name = NextName("Laminate")
	return c
}

// WithLayer returns a new laminate with layer appended at the innermost
// position, which is the mid-plane of a symmetric laminate.
func (l Laminate) WithLayer(layer Layer) Laminate {
	c := l.derive()
	c.Layers = append(c.Layers, layer.Clone())
	return c
}

// WithLayerAt returns a new laminate with the layer at index i replaced.
func (l Laminate) WithLayerAt(i int, layer Layer) Laminate {
	c := l.derive()
	c.Layers[i] = layer.Clone()
	return c
}

// PhysicalLayers returns the stack used for mechanics, top to bottom.
func (l Laminate) PhysicalLayers() []Layer {
	if !l.Symmetric {
		out := make([]Layer, len(l.Layers))
		copy(out, l.Layers)
		return out
	}
	n := len(l.Layers)
	mirrored := n
	if l.MiddleLayer && n > 0 {
		mirrored = n - 1
	}
	out := make([]Layer, 0, n+mirrored)
	out = append(out, l.Layers...)
	for i := mirrored - 1; i >= 0; i-- {
		out = append(out, l.Layers[i])
	}
	return out
}

// NumPhysicalLayers returns the number of plies in the physical stack.
func (l Laminate) NumPhysicalLayers() int {
	n := len(l.Layers)
	if !l.Symmetric {
		return n
	}
	if l.MiddleLayer && n > 0 {
		return 2*n - 1
	}
	return 2 * n
}

// Thickness returns the total thickness of the physical stack.
func (l Laminate) Thickness() float64 {
	var t float64
	for _, layer := range l.PhysicalLayers() {
		t += layer.Thickness
	}
	return t
}

// ArealMass returns the mass per unit area, Σ ρ·t over the physical stack.
func (l Laminate) ArealMass() float64 {
	var m float64
	for _, layer := range l.PhysicalLayers() {
		m += layer.Material.Rho * layer.Thickness
	}
	return m
}

// Angles returns the fiber angles of Layers in order.
func (l Laminate) Angles() []float64 {
	angles := make([]float64, len(l.Layers))
	for i, layer := range l.Layers {
		angles[i] = layer.Angle
	}
	return angles
}

// StackingSequence formats the laminate in the usual bracket notation,
// e.g. [0/45/-45/90]s. A middle layer is marked with a bar: [0/45/90̄]s.
func (l Laminate) StackingSequence() string {
	parts := make([]string, len(l.Layers))
	for i, layer := range l.Layers {
		parts[i] = formatAngle(layer.Angle)
	}
	if l.Symmetric && l.MiddleLayer && len(parts) > 0 {
		parts[len(parts)-1] += "̄"
	}
	seq := "[" + strings.Join(parts, "/") + "]"
	if l.Symmetric {
		seq += "s"
	}
	return seq
}

func formatAngle(a float64) string {
	if a == math.Trunc(a) {
		return strconv.FormatFloat(a, 'f', 0, 64)
	}
	return fmt.Sprintf("%g", a)
}
