package model

import "math"

// FailureType is the coarse classification of a failure mode.
type FailureType int

const (
	FailureNone FailureType = iota
	FailureFiber
	FailureMatrix
)

func (f FailureType) String() string {
	switch f {
	case FailureFiber:
		return "fiber"
	case FailureMatrix:
		return "matrix"
	default:
		return "none"
	}
}

// Failure mode labels used by the built-in criteria.
const (
	ModeNone              = "none"
	ModeFiberTension      = "fiber tension"
	ModeFiberCompression  = "fiber compression"
	ModeMatrixTension     = "matrix tension"
	ModeMatrixCompression = "matrix compression"
	ModeShear             = "in-plane shear"
	ModeBuckling          = "buckling"
	ModeDeflection        = "deflection"
)

// ReserveFactor is a safety margin: values >= 1 mean no predicted failure,
// +Inf means the ply is unstressed and cannot fail.
type ReserveFactor struct {
	Value float64     `json:"value"`
	Mode  string      `json:"mode"`
	Type  FailureType `json:"type"`
}

// NoFailure returns the reserve factor of an unstressed ply.
func NoFailure() ReserveFactor {
	return ReserveFactor{Value: math.Inf(1), Mode: ModeNone, Type: FailureNone}
}

// Failed reports whether the margin is below one.
func (r ReserveFactor) Failed() bool {
	return r.Value < 1
}

// MinReserveFactor returns the smaller of a and b, keeping a on ties.
func MinReserveFactor(a, b ReserveFactor) ReserveFactor {
	if b.Value < a.Value {
		return b
	}
	return a
}
