package protostone

import (
	"errors"

	"github.com/holiman/uint256"
)

// chunkSize is how many payload bytes are packed into one u128 value.
const chunkSize = 15

var errVarintOverflow = errors.New("varint exceeds 128 bits")

// appendVarint appends the LEB128 encoding of v.
func appendVarint(dst []byte, v uint256.Int) []byte {
	for {
		b := byte(v.Uint64() & 0x7f)
		v.Rsh(&v, 7)
		if v.IsZero() {
			return append(dst, b)
		}
		dst = append(dst, b|0x80)
	}
}

// readVarint decodes one LEB128 value and returns the bytes consumed.
func readVarint(src []byte) (uint256.Int, int, error) {
	var (
		v     uint256.Int
		shift uint
	)
	for i, b := range src {
		if shift >= 128 {
			return uint256.Int{}, 0, errVarintOverflow
		}
		part := uint256.NewInt(uint64(b & 0x7f))
		part.Lsh(part, shift)
		v.Or(&v, part)
		if v.BitLen() > 128 {
			return uint256.Int{}, 0, errVarintOverflow
		}
		if b&0x80 == 0 {
			return v, i + 1, nil
		}
		shift += 7
	}
	return uint256.Int{}, 0, errors.New("truncated varint")
}

func encodeVarints(values []uint256.Int) []byte {
	var out []byte
	for _, v := range values {
		out = appendVarint(out, v)
	}
	return out
}

func decodeVarints(src []byte) ([]uint256.Int, error) {
	var out []uint256.Int
	for len(src) > 0 {
		v, n, err := readVarint(src)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		src = src[n:]
	}
	return out, nil
}

// packChunks splits data into 15-byte little-endian u128 values.
func packChunks(data []byte) []uint256.Int {
	var out []uint256.Int
	for start := 0; start < len(data); start += chunkSize {
		end := start + chunkSize
		if end > len(data) {
			end = len(data)
		}
		be := make([]byte, end-start)
		for i := range be {
			be[i] = data[end-1-i]
		}
		var v uint256.Int
		v.SetBytes(be)
		out = append(out, v)
	}
	return out
}

// unpackChunks reverses packChunks; trailing zero bytes of the last chunk are dropped.
func unpackChunks(values []uint256.Int) []byte {
	out := make([]byte, 0, len(values)*chunkSize)
	for _, v := range values {
		be := v.Bytes32()
		for i := 0; i < chunkSize; i++ {
			out = append(out, be[31-i])
		}
	}
	for len(out) > 0 && out[len(out)-1] == 0 {
		out = out[:len(out)-1]
	}
	return out
}
