package balance

import (
	"context"

	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/sandshrew"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Indexer is the subset of the indexer RPC balance queries need.
	Indexer interface {
		Height(ctx context.Context) (uint64, error)
		ProtorunesByAddress(ctx context.Context, address string) ([]sandshrew.OutpointBalances, error)
		Simulate(ctx context.Context, req sandshrew.SimulateRequest) (sandshrew.Execution, error)
	}
)
