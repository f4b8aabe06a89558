package builder

import "github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"

const (
	defaultWrapOpcode         = 77
	defaultUnwrapOpcode       = 78
	defaultSwapOpcode         = 13
	defaultPoolSwapOpcode     = 3
	defaultDeadlineBlocks     = 3
	defaultWrapFeePerThousand = 1
)

// Config holds the contract ids and opcodes the builders emit.
type Config struct {
	FrBTC        model.AssetID
	WrapOpcode   uint64
	UnwrapOpcode uint64

	Factory        model.AssetID
	SwapOpcode     uint64
	PoolSwapOpcode uint64

	// DeadlineBlocks is added to the current height to form swap deadlines.
	DeadlineBlocks uint64
	// WrapFeePerThousand is the frBTC mint fee used to size the swap leg of a wrap+swap.
	WrapFeePerThousand uint64
}

// DefaultConfig returns the deployment constants shared by all supported networks.
func DefaultConfig() Config {
	return Config{
		FrBTC:              model.FrBTC,
		WrapOpcode:         defaultWrapOpcode,
		UnwrapOpcode:       defaultUnwrapOpcode,
		Factory:            model.AssetID{Block: 4, Tx: 65522},
		SwapOpcode:         defaultSwapOpcode,
		PoolSwapOpcode:     defaultPoolSwapOpcode,
		DeadlineBlocks:     defaultDeadlineBlocks,
		WrapFeePerThousand: defaultWrapFeePerThousand,
	}
}
