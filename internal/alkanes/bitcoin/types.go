package bitcoin

import (
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// RPCClient is the subset of btcd rpcclient the node client uses.
	RPCClient interface {
		GetBlockCount() (int64, error)
		SendRawTransaction(tx *wire.MsgTx, allowHighFees bool) (*chainhash.Hash, error)
		GenerateToAddress(numBlocks int64, address btcutil.Address, maxTries *int64) ([]*chainhash.Hash, error)
	}
	// RPCMetrics records metrics for RPC calls.
	RPCMetrics interface {
		Observe(operation string, err error, started time.Time)
	}
)
