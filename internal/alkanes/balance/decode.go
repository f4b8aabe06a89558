package balance

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
)

// U128Size is the width of one little-endian u128 field in simulation return data.
const U128Size = 16

// DecodeU128LE decodes exactly 16 little-endian bytes.
func DecodeU128LE(b []byte) (model.Amount, error) {
	if len(b) != U128Size {
		return model.Amount{}, fmt.Errorf("u128 needs %d bytes, got %d", U128Size, len(b))
	}
	be := make([]byte, U128Size)
	for i := range b {
		be[U128Size-1-i] = b[i]
	}
	var v model.Amount
	v.SetBytes(be)
	return v, nil
}

// DecodeU128Fields decodes n consecutive u128 fields. Empty data decodes to n zeros; anything
// shorter than n fields is an error. Trailing bytes are ignored.
func DecodeU128Fields(data []byte, n int) ([]model.Amount, error) {
	out := make([]model.Amount, n)
	if len(data) == 0 {
		return out, nil
	}
	if len(data) < n*U128Size {
		return nil, fmt.Errorf("%d fields need %d bytes, got %d", n, n*U128Size, len(data))
	}
	for i := range out {
		v, err := DecodeU128LE(data[i*U128Size : (i+1)*U128Size])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// DecodeHexFields is DecodeU128Fields over a 0x-prefixed hex string.
func DecodeHexFields(s string, n int) ([]model.Amount, error) {
	data, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return DecodeU128Fields(data, n)
}
