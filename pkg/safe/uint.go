// Package safe provides helpers for safe numeric conversions with overflow checks.
package safe

import (
	"fmt"
	"math"
)

// Integer is any builtin integer type or a type derived from one.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Uint32 converts signed or unsigned integers to uint32 with range validation.
func Uint32[T Integer](v T) (uint32, error) {
	if v < 0 || uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("value %d out of uint32 range", v)
	}
	return uint32(v), nil
}

// Uint64 converts signed or unsigned integers to uint64 while guarding against negatives.
func Uint64[T Integer](v T) (uint64, error) {
	if v < 0 {
		return 0, fmt.Errorf("value %d out of uint64 range", v)
	}
	return uint64(v), nil
}

// Int64 converts integers to int64, rejecting unsigned values above math.MaxInt64.
func Int64[T Integer](v T) (int64, error) {
	if v > 0 && uint64(v) > math.MaxInt64 {
		return 0, fmt.Errorf("value %d out of int64 range", v)
	}
	return int64(v), nil
}
