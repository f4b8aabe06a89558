package signer

import (
	"context"
	"time"

	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Backend is one wallet implementation. Translation to the wallet's own API stays inside it.
	Backend interface {
		Name() string
		Connect(ctx context.Context) (model.Addresses, error)
		// SignPSBT returns the signed packet and whether the wallet already finalized it.
		SignPSBT(ctx context.Context, req model.SignRequest) ([]byte, bool, error)
		SignMessage(ctx context.Context, address, message string) (string, error)
	}
	// Broadcaster submits a signed transaction to the network.
	Broadcaster interface {
		Broadcast(ctx context.Context, raw []byte) (string, error)
	}
	// WalletMetrics records metrics for wallet calls.
	WalletMetrics interface {
		Observe(backend, operation string, err error, started time.Time)
	}
)
