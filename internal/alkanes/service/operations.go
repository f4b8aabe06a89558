package service

import (
	"context"
	"fmt"

	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/builder"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
)

// Options shape assembly for every convenience operation.
type Options struct {
	// FeeRate in sat/vB; zero uses the service default.
	FeeRate float64
	// Preferred outpoints are spent first.
	Preferred []model.Outpoint
}

type TransferRequest struct {
	Options
	Asset     model.AssetID
	Amount    model.Amount
	Recipient string
}

type WrapRequest struct {
	Options
	Sats uint64
	// Recipient of the minted frBTC; empty means the wallet's asset address.
	Recipient string
}

type UnwrapRequest struct {
	Options
	Amount model.Amount
	// Recipient of the base currency; empty means the wallet's change address.
	Recipient string
}

type SwapRequest struct {
	Options
	Sell   model.AssetID
	Buy    model.AssetID
	Amount model.Amount
	MinOut model.Amount
	Pool   *model.AssetID
	// Recipient of the bought asset; empty means the wallet's asset address.
	Recipient string
}

type WrapSwapRequest struct {
	Options
	Sats      uint64
	Buy       model.AssetID
	MinOut    model.Amount
	Pool      *model.AssetID
	Recipient string
}

type SwapUnwrapRequest struct {
	Options
	Sell   model.AssetID
	Amount model.Amount
	MinOut model.Amount
	Pool   *model.AssetID
	// Recipient of the base currency; empty means the wallet's change address.
	Recipient string
}

// Transfer plans sending Amount of Asset; the remainder stays on the asset address.
func (s *Service) Transfer(ctx context.Context, req TransferRequest) (Plan, error) {
	addrs, err := s.connected("transfer")
	if err != nil {
		return Plan{}, err
	}
	res, err := s.builder.Transfer(builder.TransferParams{
		Asset:     req.Asset,
		Amount:    req.Amount,
		Recipient: req.Recipient,
		Sender:    addrs.AssetAddress(),
	})
	if err != nil {
		return Plan{}, fmt.Errorf("build transfer: %w", err)
	}
	return s.Plan(ctx, intent(res, req.Options))
}

// Wrap plans minting frBTC from Sats.
func (s *Service) Wrap(ctx context.Context, req WrapRequest) (Plan, error) {
	addrs, err := s.connected("wrap")
	if err != nil {
		return Plan{}, err
	}
	signer, err := s.signerAddress(ctx)
	if err != nil {
		return Plan{}, err
	}
	res, err := s.builder.Wrap(builder.WrapParams{
		Sats:      req.Sats,
		Signer:    signer,
		Recipient: or(req.Recipient, addrs.AssetAddress()),
	})
	if err != nil {
		return Plan{}, fmt.Errorf("build wrap: %w", err)
	}
	return s.Plan(ctx, intent(res, req.Options))
}

// Unwrap plans burning frBTC for base currency.
func (s *Service) Unwrap(ctx context.Context, req UnwrapRequest) (Plan, error) {
	addrs, err := s.connected("unwrap")
	if err != nil {
		return Plan{}, err
	}
	signer, err := s.signerAddress(ctx)
	if err != nil {
		return Plan{}, err
	}
	res, err := s.builder.Unwrap(builder.UnwrapParams{
		Amount:    req.Amount,
		Signer:    signer,
		Recipient: or(req.Recipient, addrs.ChangeAddress()),
	})
	if err != nil {
		return Plan{}, fmt.Errorf("build unwrap: %w", err)
	}
	return s.Plan(ctx, intent(res, req.Options))
}

// Swap plans an AMM swap. A failed swap refunds to the wallet's asset address.
func (s *Service) Swap(ctx context.Context, req SwapRequest) (Plan, error) {
	addrs, err := s.connected("swap")
	if err != nil {
		return Plan{}, err
	}
	res, err := s.builder.Swap(ctx, builder.SwapParams{
		Sell:      req.Sell,
		Buy:       req.Buy,
		Amount:    req.Amount,
		MinOut:    req.MinOut,
		Pool:      req.Pool,
		Recipient: or(req.Recipient, addrs.AssetAddress()),
		Refund:    addrs.AssetAddress(),
	})
	if err != nil {
		return Plan{}, fmt.Errorf("build swap: %w", err)
	}
	return s.Plan(ctx, intent(res, req.Options))
}

// WrapSwap plans wrapping Sats and swapping the minted frBTC in one transaction.
func (s *Service) WrapSwap(ctx context.Context, req WrapSwapRequest) (Plan, error) {
	addrs, err := s.connected("wrap+swap")
	if err != nil {
		return Plan{}, err
	}
	signer, err := s.signerAddress(ctx)
	if err != nil {
		return Plan{}, err
	}
	res, err := s.builder.WrapSwap(ctx, builder.WrapSwapParams{
		Sats:      req.Sats,
		Buy:       req.Buy,
		MinOut:    req.MinOut,
		Pool:      req.Pool,
		Signer:    signer,
		Recipient: or(req.Recipient, addrs.AssetAddress()),
		Refund:    addrs.AssetAddress(),
	})
	if err != nil {
		return Plan{}, fmt.Errorf("build wrap+swap: %w", err)
	}
	return s.Plan(ctx, intent(res, req.Options))
}

// SwapUnwrap plans swapping into frBTC and unwrapping it in one transaction.
func (s *Service) SwapUnwrap(ctx context.Context, req SwapUnwrapRequest) (Plan, error) {
	addrs, err := s.connected("swap+unwrap")
	if err != nil {
		return Plan{}, err
	}
	signer, err := s.signerAddress(ctx)
	if err != nil {
		return Plan{}, err
	}
	res, err := s.builder.SwapUnwrap(ctx, builder.SwapUnwrapParams{
		Sell:      req.Sell,
		Amount:    req.Amount,
		MinOut:    req.MinOut,
		Pool:      req.Pool,
		Signer:    signer,
		Recipient: or(req.Recipient, addrs.ChangeAddress()),
		Refund:    addrs.AssetAddress(),
	})
	if err != nil {
		return Plan{}, fmt.Errorf("build swap+unwrap: %w", err)
	}
	return s.Plan(ctx, intent(res, req.Options))
}

func intent(res builder.Result, opts Options) Intent {
	return Intent{Build: res, FeeRate: opts.FeeRate, Preferred: opts.Preferred}
}

func or(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
