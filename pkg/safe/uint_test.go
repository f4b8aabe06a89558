package safe

import (
	"math"
	"testing"
)

type sats uint64

type offset int32

type convertCase[T Integer, R comparable] struct {
	name    string
	v       T
	want    R
	wantErr bool
}

func runCase[T Integer, R comparable](t *testing.T, fn func(T) (R, error), tc convertCase[T, R]) {
	t.Helper()

	t.Run(tc.name, func(t *testing.T) {
		got, err := fn(tc.v)
		if (err != nil) != tc.wantErr {
			t.Errorf("error = %v, wantErr %v", err, tc.wantErr)
			return
		}
		if got != tc.want {
			t.Errorf("got = %v, want %v", got, tc.want)
		}
	})
}

func TestUint32(t *testing.T) {
	runCase(t, Uint32[int], convertCase[int, uint32]{name: "int within range", v: 42, want: 42})
	runCase(t, Uint32[int], convertCase[int, uint32]{name: "int negative", v: -1, wantErr: true})
	runCase(t, Uint32[int64], convertCase[int64, uint32]{name: "int64 overflow", v: int64(math.MaxUint32) + 1, wantErr: true})
	runCase(t, Uint32[int64], convertCase[int64, uint32]{name: "int64 boundary ok", v: math.MaxUint32, want: math.MaxUint32})
	runCase(t, Uint32[uint64], convertCase[uint64, uint32]{name: "uint64 overflow", v: math.MaxUint32 + 1, wantErr: true})
	runCase(t, Uint32[uint32], convertCase[uint32, uint32]{name: "uint32 max", v: math.MaxUint32, want: math.MaxUint32})
	runCase(t, Uint32[int8], convertCase[int8, uint32]{name: "int8 negative", v: -5, wantErr: true})
	runCase(t, Uint32[offset], convertCase[offset, uint32]{name: "named signed", v: 123, want: 123})
	runCase(t, Uint32[sats], convertCase[sats, uint32]{name: "named unsigned overflow", v: math.MaxUint32 + 1, wantErr: true})
	runCase(t, Uint32[int64], convertCase[int64, uint32]{name: "zero", v: 0, want: 0})
}

func TestUint64(t *testing.T) {
	runCase(t, Uint64[int], convertCase[int, uint64]{name: "int positive", v: 99, want: 99})
	runCase(t, Uint64[int], convertCase[int, uint64]{name: "int negative", v: -1, wantErr: true})
	runCase(t, Uint64[int64], convertCase[int64, uint64]{name: "int64 large positive", v: math.MaxInt64, want: math.MaxInt64})
	runCase(t, Uint64[uint64], convertCase[uint64, uint64]{name: "uint64 max", v: math.MaxUint64, want: math.MaxUint64})
	runCase(t, Uint64[offset], convertCase[offset, uint64]{name: "named negative", v: -7, wantErr: true})
	runCase(t, Uint64[int32], convertCase[int32, uint64]{name: "int32 zero", v: 0, want: 0})
}

func TestInt64(t *testing.T) {
	runCase(t, Int64[uint64], convertCase[uint64, int64]{name: "uint64 within range", v: 546, want: 546})
	runCase(t, Int64[uint64], convertCase[uint64, int64]{name: "uint64 boundary ok", v: math.MaxInt64, want: math.MaxInt64})
	runCase(t, Int64[uint64], convertCase[uint64, int64]{name: "uint64 overflow", v: math.MaxInt64 + 1, wantErr: true})
	runCase(t, Int64[sats], convertCase[sats, int64]{name: "named unsigned", v: 100_000, want: 100_000})
	runCase(t, Int64[int], convertCase[int, int64]{name: "negative passes through", v: -3, want: -3})
}
