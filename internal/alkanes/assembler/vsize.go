package assembler

import (
	"math"

	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
)

// Weights are in weight units; four of them make one virtual byte.
const (
	overheadWeight = 42 // version, locktime, counts, segwit marker

	p2trInputWeight       = 230
	p2wpkhInputWeight     = 272
	p2shP2wpkhInputWeight = 364
	p2pkhInputWeight      = 592
)

func inputWeight(t model.AddressType) uint64 {
	switch t {
	case model.AddressP2TR:
		return p2trInputWeight
	case model.AddressP2WPKH:
		return p2wpkhInputWeight
	case model.AddressP2SHP2WPKH, model.AddressP2SH:
		return p2shP2wpkhInputWeight
	default:
		return p2pkhInputWeight
	}
}

// outputWeight is value, script length prefix and script, all non-witness.
func outputWeight(script []byte) uint64 {
	return 4 * uint64(8+wire.VarIntSerializeSize(uint64(len(script)))+len(script))
}

// EstimateVSize returns the virtual size of a transaction spending inputs of the given types
// into outputs with the given scripts.
func EstimateVSize(inputs []model.AddressType, outputs [][]byte) uint64 {
	weight := uint64(overheadWeight)
	for _, t := range inputs {
		weight += inputWeight(t)
	}
	for _, s := range outputs {
		weight += outputWeight(s)
	}
	return (weight + 3) / 4
}

// FeeForVSize rounds vsize*rate up to whole sats.
func FeeForVSize(vsize uint64, rate float64) uint64 {
	return uint64(math.Ceil(float64(vsize) * rate))
}
