package model

import (
	"fmt"
	"strconv"
)

// RefKind distinguishes value-output references from protostone references.
type RefKind uint8

const (
	// RefOutput is "vN": the Nth value-bearing output of the transaction.
	RefOutput RefKind = iota
	// RefProtostone is "pN": the Nth chained instruction.
	RefProtostone
)

// AddressReference is a symbolic slot resolved only at assembly time.
type AddressReference struct {
	Kind  RefKind
	Index uint32
}

// Output returns a vN reference.
func Output(n uint32) AddressReference {
	return AddressReference{Kind: RefOutput, Index: n}
}

// Protostone returns a pN reference.
func Protostone(n uint32) AddressReference {
	return AddressReference{Kind: RefProtostone, Index: n}
}

func (r AddressReference) String() string {
	prefix := "v"
	if r.Kind == RefProtostone {
		prefix = "p"
	}
	return prefix + strconv.FormatUint(uint64(r.Index), 10)
}

// ParseAddressReference parses "vN" or "pN".
func ParseAddressReference(s string) (AddressReference, error) {
	if len(s) < 2 {
		return AddressReference{}, fmt.Errorf("reference %q: too short", s)
	}
	var kind RefKind
	switch s[0] {
	case 'v':
		kind = RefOutput
	case 'p':
		kind = RefProtostone
	default:
		return AddressReference{}, fmt.Errorf("reference %q: want vN or pN", s)
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return AddressReference{}, fmt.Errorf("reference %q: index is not decimal", s)
		}
	}
	idx, err := strconv.ParseUint(s[1:], 10, 32)
	if err != nil {
		return AddressReference{}, fmt.Errorf("reference %q: %w", s, err)
	}
	return AddressReference{Kind: kind, Index: uint32(idx)}, nil
}
