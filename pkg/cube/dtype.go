package cube

import "math"

// DType is the logical storage type of a band. Band data is held as float64
// in memory regardless of DType; the tag records the width the values are
// constrained to and drives the narrowing rule applied when data is cast
// into a band of that type.
type DType string

const (
	Int8    DType = "int8"
	Int16   DType = "int16"
	Float64 DType = "float64"
)

// Cast narrows v to the value domain of the dtype. Integer types truncate
// toward zero. Values whose magnitude exceeds the integer range are left to
// the caller: the contract is undefined there, so no clamping is applied.
func (d DType) Cast(v float64) float64 {
	switch d {
	case Int8, Int16:
		return math.Trunc(v)
	default:
		return v
	}
}
