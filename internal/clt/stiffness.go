// Package clt implements classical laminate theory: ply stiffness, the
// laminate ABD relation and ply-level stress and strain recovery.
package clt

import (
	"math"

	"github.com/piwi3910/PlyStack/internal/model"
)

// Matrix3 is a 3x3 matrix in Voigt order (xx, yy, xy).
type Matrix3 [3][3]float64

// Vector3 is a strain or stress vector in Voigt order.
type Vector3 [3]float64

// MulVec returns m·v.
func (m Matrix3) MulVec(v Vector3) Vector3 {
	var out Vector3
	for i := 0; i < 3; i++ {
		out[i] = m[i][0]*v[0] + m[i][1]*v[1] + m[i][2]*v[2]
	}
	return out
}

// Add returns m + o.
func (m Matrix3) Add(o Matrix3) Matrix3 {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] += o[i][j]
		}
	}
	return m
}

// Scale returns f·m.
func (m Matrix3) Scale(f float64) Matrix3 {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] *= f
		}
	}
	return m
}

// ReducedStiffness returns the plane-stress stiffness Q of a ply in its
// material axes.
func ReducedStiffness(mat model.Material) Matrix3 {
	nu21 := mat.Nu21()
	d := 1 - mat.Nu12*nu21
	q11 := mat.E1 / d
	q22 := mat.E2 / d
	q12 := mat.Nu12 * mat.E2 / d
	return Matrix3{
		{q11, q12, 0},
		{q12, q22, 0},
		{0, 0, mat.G12},
	}
}

// sincos returns cos and sin of an angle in degrees. Multiples of 90 degrees
// are exact.
func sincos(deg float64) (c, s float64) {
	if q := deg / 90; q == math.Trunc(q) && !math.IsInf(q, 0) {
		switch ((int64(q) % 4) + 4) % 4 {
		case 0:
			return 1, 0
		case 1:
			return 0, 1
		case 2:
			return -1, 0
		default:
			return 0, -1
		}
	}
	s, c = math.Sincos(deg * math.Pi / 180)
	return c, s
}

// TransformedStiffness returns Qbar, the ply stiffness rotated into the
// laminate axes for a fiber angle in degrees.
func TransformedStiffness(mat model.Material, angle float64) Matrix3 {
	q := ReducedStiffness(mat)
	q11, q12, q22, q66 := q[0][0], q[0][1], q[1][1], q[2][2]

	c, s := sincos(angle)
	c2, s2 := c*c, s*s
	c4, s4 := c2*c2, s2*s2
	s2c2 := s2 * c2
	sc3 := s * c * c2
	s3c := s * s2 * c

	b11 := q11*c4 + 2*(q12+2*q66)*s2c2 + q22*s4
	b22 := q11*s4 + 2*(q12+2*q66)*s2c2 + q22*c4
	b12 := (q11+q22-4*q66)*s2c2 + q12*(s4+c4)
	b66 := (q11+q22-2*q12-2*q66)*s2c2 + q66*(s4+c4)
	b16 := (q11-q12-2*q66)*sc3 + (q12-q22+2*q66)*s3c
	b26 := (q11-q12-2*q66)*s3c + (q12-q22+2*q66)*sc3

	return Matrix3{
		{b11, b12, b16},
		{b12, b22, b26},
		{b16, b26, b66},
	}
}

// expansion rotates principal expansion coefficients into laminate axes.
// The shear term uses engineering strain.
func expansion(a1, a2, angle float64) Vector3 {
	c, s := sincos(angle)
	return Vector3{
		a1*c*c + a2*s*s,
		a1*s*s + a2*c*c,
		2 * c * s * (a1 - a2),
	}
}

// ThermalExpansion returns the thermal expansion coefficients in laminate axes.
func ThermalExpansion(mat model.Material, angle float64) Vector3 {
	return expansion(mat.Alpha1, mat.Alpha2, angle)
}

// MoistureExpansion returns the moisture expansion coefficients in laminate axes.
func MoistureExpansion(mat model.Material, angle float64) Vector3 {
	return expansion(mat.Beta1, mat.Beta2, angle)
}

// StressToMaterial rotates a laminate-axes stress into the ply material axes.
func StressToMaterial(sigma Vector3, angle float64) model.StressState {
	c, s := sincos(angle)
	sx, sy, txy := sigma[0], sigma[1], sigma[2]
	return model.StressState{
		S11: c*c*sx + s*s*sy + 2*c*s*txy,
		S22: s*s*sx + c*c*sy - 2*c*s*txy,
		S12: -c*s*sx + c*s*sy + (c*c-s*s)*txy,
	}
}

// StrainToMaterial rotates a laminate-axes strain (engineering shear) into the
// ply material axes.
func StrainToMaterial(eps Vector3, angle float64) Vector3 {
	c, s := sincos(angle)
	ex, ey, gxy := eps[0], eps[1], eps[2]
	return Vector3{
		c*c*ex + s*s*ey + c*s*gxy,
		s*s*ex + c*c*ey - c*s*gxy,
		-2*c*s*ex + 2*c*s*ey + (c*c-s*s)*gxy,
	}
}
