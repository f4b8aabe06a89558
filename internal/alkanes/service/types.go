package service

import (
	"context"
	"time"

	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/assembler"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Indexer is the subset of the indexer RPC used to plan transactions.
	Indexer interface {
		Height(ctx context.Context) (uint64, error)
		WalletUtxos(ctx context.Context, address string) ([]model.Utxo, error)
		TxHex(ctx context.Context, txid string) (string, error)
	}
	// Wallet is a connected signing session.
	Wallet interface {
		Backend() string
		Addresses() model.Addresses
		Sign(ctx context.Context, plan model.TransactionPlan, prev assembler.PrevTxs) (model.SignResult, error)
		Broadcast(ctx context.Context, raw []byte) (string, error)
	}
	// Contracts reads balances and contract state back from the indexer.
	Contracts interface {
		SignerAddress(ctx context.Context, network model.Network) (string, error)
		Snapshot(ctx context.Context, addresses []string) (map[model.AssetID]model.Amount, error)
	}
	// Journal records successful broadcasts.
	Journal interface {
		Record(ctx context.Context, record model.BroadcastRecord) error
	}
	// ServiceMetrics records plan and execute outcomes per operation.
	ServiceMetrics interface {
		Observe(operation, stage string, err error, started time.Time)
		ObservePlan(operation string, fee, vsize uint64)
	}
)
