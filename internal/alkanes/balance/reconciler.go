// Package balance reads alkane balances and contract state back from the indexer.
package balance

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/bitcoin"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/sandshrew"
	"github.com/goodnatureofminers/alkanes-txkit/pkg/workerpool"
)

const (
	defaultWorkerCount = 4

	opcodePoolReserves = 97
	opcodeNumPools     = 4
	opcodeSwapQuote    = 13
	opcodeGetSigner    = 103
)

// Contracts names the contracts the simulation queries call.
type Contracts struct {
	Factory model.AssetID
	FrBTC   model.AssetID
}

// Reconciler aggregates balances across wallet addresses and runs read-only contract queries.
type Reconciler struct {
	indexer     Indexer
	contracts   Contracts
	workerCount int
}

func NewReconciler(indexer Indexer, contracts Contracts, workerCount int) *Reconciler {
	if workerCount <= 0 {
		workerCount = defaultWorkerCount
	}
	return &Reconciler{indexer: indexer, contracts: contracts, workerCount: workerCount}
}

// Snapshot sums every alkane held across addresses. Addresses are queried concurrently.
func (r *Reconciler) Snapshot(ctx context.Context, addresses []string) (map[model.AssetID]model.Amount, error) {
	perAddress, err := workerpool.Map(ctx, r.workerCount, addresses, func(ctx context.Context, address string) ([]sandshrew.OutpointBalances, error) {
		outpoints, err := r.indexer.ProtorunesByAddress(ctx, address)
		if err != nil {
			return nil, fmt.Errorf("balances of %s: %w", address, err)
		}
		return outpoints, nil
	})
	if err != nil {
		return nil, err
	}

	// The same outpoint can be reported for overlapping address lists.
	seen := make(map[model.Outpoint]struct{})
	totals := make(map[model.AssetID]model.Amount)
	for _, outpoints := range perAddress {
		for _, op := range outpoints {
			if _, ok := seen[op.Outpoint]; ok {
				continue
			}
			seen[op.Outpoint] = struct{}{}
			for id, amount := range op.Balances {
				sum := totals[id]
				if _, overflow := sum.AddOverflow(&sum, &amount); overflow {
					return nil, fmt.Errorf("balance of %s overflows", id)
				}
				totals[id] = sum
			}
		}
	}
	return totals, nil
}

// AssetBalance is the Snapshot total of a single asset.
func (r *Reconciler) AssetBalance(ctx context.Context, addresses []string, asset model.AssetID) (model.Amount, error) {
	totals, err := r.Snapshot(ctx, addresses)
	if err != nil {
		return model.Amount{}, err
	}
	return totals[asset], nil
}

// Reserves are a pool's two token reserves.
type Reserves struct {
	Reserve0 model.Amount
	Reserve1 model.Amount
}

// PoolReserves reads a pool's reserves.
func (r *Reconciler) PoolReserves(ctx context.Context, pool model.AssetID) (Reserves, error) {
	exec, err := r.simulate(ctx, pool, nil, opcodePoolReserves)
	if err != nil {
		return Reserves{}, err
	}
	fields, err := DecodeU128Fields(exec.Data, 2)
	if err != nil {
		return Reserves{}, fmt.Errorf("pool %s reserves: %w", pool, err)
	}
	return Reserves{Reserve0: fields[0], Reserve1: fields[1]}, nil
}

// NumPools reads the factory's pool count.
func (r *Reconciler) NumPools(ctx context.Context) (uint64, error) {
	exec, err := r.simulate(ctx, r.contracts.Factory, nil, opcodeNumPools)
	if err != nil {
		return 0, err
	}
	fields, err := DecodeU128Fields(exec.Data, 1)
	if err != nil {
		return 0, fmt.Errorf("pool count: %w", err)
	}
	if !fields[0].IsUint64() {
		return 0, fmt.Errorf("pool count %s out of range", fields[0].Dec())
	}
	return fields[0].Uint64(), nil
}

// SwapQuote simulates a factory swap of amountIn and returns the amount of buy it yields.
func (r *Reconciler) SwapQuote(ctx context.Context, sell, buy model.AssetID, amountIn model.Amount) (model.Amount, error) {
	height, err := r.indexer.Height(ctx)
	if err != nil {
		return model.Amount{}, fmt.Errorf("swap quote height: %w", err)
	}
	inputs := []model.Amount{
		model.Units(opcodeSwapQuote), model.Units(2),
		model.Units(sell.Block), model.Units(sell.Tx),
		model.Units(buy.Block), model.Units(buy.Tx),
		amountIn, model.Units(0), model.Units(height + 1),
	}
	exec, err := r.indexer.Simulate(ctx, sandshrew.SimulateRequest{
		Target:  r.contracts.Factory,
		Inputs:  inputs,
		Alkanes: []sandshrew.AlkaneTransfer{{ID: sell, Value: amountIn}},
		Height:  height,
	})
	if err != nil {
		return model.Amount{}, err
	}
	var out model.Amount
	for _, a := range exec.Alkanes {
		if a.ID == buy {
			out.Add(&out, &a.Value)
		}
	}
	return out, nil
}

// SignerKey returns the frBTC signer's x-only public key.
func (r *Reconciler) SignerKey(ctx context.Context) ([]byte, error) {
	exec, err := r.simulate(ctx, r.contracts.FrBTC, nil, opcodeGetSigner)
	if err != nil {
		return nil, err
	}
	switch len(exec.Data) {
	case schnorr.PubKeyBytesLen:
		if _, err := schnorr.ParsePubKey(exec.Data); err != nil {
			return nil, fmt.Errorf("signer key: %w", err)
		}
		return exec.Data, nil
	case btcec.PubKeyBytesLenCompressed:
		key, err := btcec.ParsePubKey(exec.Data)
		if err != nil {
			return nil, fmt.Errorf("signer key: %w", err)
		}
		return schnorr.SerializePubKey(key), nil
	default:
		return nil, fmt.Errorf("signer key has %d bytes", len(exec.Data))
	}
}

// SignerAddress is the taproot address whose output key is the frBTC signer key.
func (r *Reconciler) SignerAddress(ctx context.Context, network model.Network) (string, error) {
	key, err := r.SignerKey(ctx)
	if err != nil {
		return "", err
	}
	params, err := bitcoin.ChainParams(network)
	if err != nil {
		return "", err
	}
	addr, err := btcutil.NewAddressTaproot(key, params)
	if err != nil {
		return "", fmt.Errorf("signer address: %w", err)
	}
	return addr.EncodeAddress(), nil
}

func (r *Reconciler) simulate(ctx context.Context, target model.AssetID, alkanes []sandshrew.AlkaneTransfer, opcode uint64, args ...model.Amount) (sandshrew.Execution, error) {
	height, err := r.indexer.Height(ctx)
	if err != nil {
		return sandshrew.Execution{}, fmt.Errorf("simulate %s height: %w", target, err)
	}
	inputs := append([]model.Amount{model.Units(opcode)}, args...)
	return r.indexer.Simulate(ctx, sandshrew.SimulateRequest{Target: target, Inputs: inputs, Alkanes: alkanes, Height: height})
}
