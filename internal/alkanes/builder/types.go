package builder

import "context"

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// HeightSource reports the current chain tip as seen by the indexer.
	HeightSource interface {
		Height(ctx context.Context) (uint64, error)
	}
)
