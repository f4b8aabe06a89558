// Package builder produces the instruction chain, input requirements and declared outputs for each
// user-facing alkanes operation.
package builder

import (
	"context"
	"errors"
	"fmt"

	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/protostone"
)

// Operation names a builder.
type Operation string

const (
	OpTransfer   Operation = "transfer"
	OpWrap       Operation = "wrap"
	OpUnwrap     Operation = "unwrap"
	OpSwap       Operation = "swap"
	OpWrapSwap   Operation = "wrap_swap"
	OpSwapUnwrap Operation = "swap_unwrap"
)

// ErrInvalidParams is wrapped by every parameter validation failure.
var ErrInvalidParams = errors.New("invalid parameters")

// Result is what an operation needs from the assembler: Outputs[i] is vi.
type Result struct {
	Operation    Operation
	Chain        model.InstructionChain
	Requirements []model.InputRequirement
	Outputs      []model.OutputSpec
}

// Protostones renders the chain in the text grammar.
func (r Result) Protostones() string {
	return protostone.Encode(r.Chain)
}

// Builder holds deployment constants and the height source used for swap deadlines.
type Builder struct {
	cfg    Config
	height HeightSource
}

func New(cfg Config, height HeightSource) *Builder {
	return &Builder{cfg: cfg, height: height}
}

type TransferParams struct {
	Asset     model.AssetID
	Amount    model.Amount
	Recipient string
	// Sender receives the asset remainder.
	Sender string
}

// Transfer moves Amount of Asset to the recipient with a single edict; the remainder points back to
// the sender at v0.
func (b *Builder) Transfer(p TransferParams) (Result, error) {
	if p.Amount.IsZero() {
		return Result{}, fmt.Errorf("%w: transfer amount is zero", ErrInvalidParams)
	}
	if err := requireAddresses(p.Recipient, p.Sender); err != nil {
		return Result{}, err
	}
	chain := model.InstructionChain{
		model.EdictInstruction(model.Edict{Asset: p.Asset, Amount: p.Amount, Target: model.Output(1)}, model.Output(0), model.Output(0)),
	}
	return b.finish(Result{
		Operation:    OpTransfer,
		Chain:        chain,
		Requirements: []model.InputRequirement{model.AssetRequirement(p.Asset, p.Amount)},
		Outputs: []model.OutputSpec{
			{Role: model.RoleAssetChange, Address: p.Sender},
			{Role: model.RoleRecipient, Address: p.Recipient},
		},
	})
}

type WrapParams struct {
	Sats uint64
	// Signer is the frBTC custody address that must receive the base currency.
	Signer    string
	Recipient string
}

// Wrap pays Sats to the frBTC signer at v0 and mints frBTC to the recipient at v1.
func (b *Builder) Wrap(p WrapParams) (Result, error) {
	if p.Sats == 0 {
		return Result{}, fmt.Errorf("%w: wrap amount is zero", ErrInvalidParams)
	}
	if err := requireAddresses(p.Signer, p.Recipient); err != nil {
		return Result{}, err
	}
	chain := model.InstructionChain{
		model.CellpackInstruction(model.NewCellpack(b.cfg.FrBTC, b.cfg.WrapOpcode), model.Output(1), model.Output(1)),
	}
	return b.finish(Result{
		Operation:    OpWrap,
		Chain:        chain,
		Requirements: []model.InputRequirement{model.BaseRequirement(p.Sats, model.Output(0))},
		Outputs: []model.OutputSpec{
			{Role: model.RoleSigner, Address: p.Signer, ValueSats: p.Sats},
			{Role: model.RoleRecipient, Address: p.Recipient},
		},
	})
}

type UnwrapParams struct {
	Amount    model.Amount
	Signer    string
	Recipient string
}

// Unwrap burns Amount of frBTC; the signer pays the base currency out to the recipient at v1.
func (b *Builder) Unwrap(p UnwrapParams) (Result, error) {
	if p.Amount.IsZero() {
		return Result{}, fmt.Errorf("%w: unwrap amount is zero", ErrInvalidParams)
	}
	if err := requireAddresses(p.Signer, p.Recipient); err != nil {
		return Result{}, err
	}
	chain := model.InstructionChain{
		model.CellpackInstruction(model.NewCellpack(b.cfg.FrBTC, b.cfg.UnwrapOpcode), model.Output(1), model.Output(1)),
	}
	return b.finish(Result{
		Operation:    OpUnwrap,
		Chain:        chain,
		Requirements: []model.InputRequirement{model.AssetRequirement(b.cfg.FrBTC, p.Amount)},
		Outputs: []model.OutputSpec{
			{Role: model.RoleSigner, Address: p.Signer},
			{Role: model.RoleRecipient, Address: p.Recipient},
		},
	})
}

type SwapParams struct {
	Sell   model.AssetID
	Buy    model.AssetID
	Amount model.Amount
	// MinOut is the slippage floor.
	MinOut model.Amount
	// Pool, when set, is called directly instead of routing through the factory.
	Pool      *model.AssetID
	Recipient string
	// Refund receives whatever a failed swap returns; empty means the recipient.
	Refund string
}

// Swap sends the sell amount into the swap call with an edict targeting p1.
func (b *Builder) Swap(ctx context.Context, p SwapParams) (Result, error) {
	if p.Amount.IsZero() {
		return Result{}, fmt.Errorf("%w: swap amount is zero", ErrInvalidParams)
	}
	if p.Sell == p.Buy {
		return Result{}, fmt.Errorf("%w: cannot swap %s for itself", ErrInvalidParams, p.Sell)
	}
	if err := requireAddresses(p.Recipient); err != nil {
		return Result{}, err
	}
	deadline, err := b.deadline(ctx)
	if err != nil {
		return Result{}, err
	}

	outputs := []model.OutputSpec{{Role: model.RoleRecipient, Address: p.Recipient}}
	refund, outputs := refundSlot(outputs, p.Recipient, p.Refund)
	chain := model.InstructionChain{
		model.EdictInstruction(model.Edict{Asset: p.Sell, Amount: p.Amount, Target: model.Protostone(1)}, model.Output(0), model.Output(0)),
		model.CellpackInstruction(b.swapCellpack(p.Sell, p.Buy, p.Amount, p.MinOut, p.Pool, deadline), model.Output(0), refund),
	}
	return b.finish(Result{
		Operation:    OpSwap,
		Chain:        chain,
		Requirements: []model.InputRequirement{model.AssetRequirement(p.Sell, p.Amount)},
		Outputs:      outputs,
	})
}

type WrapSwapParams struct {
	Sats      uint64
	Buy       model.AssetID
	MinOut    model.Amount
	Pool      *model.AssetID
	Signer    string
	Recipient string
	Refund    string
}

// WrapSwap wraps Sats and feeds the minted frBTC straight into a swap via p1, atomically.
func (b *Builder) WrapSwap(ctx context.Context, p WrapSwapParams) (Result, error) {
	if p.Sats == 0 {
		return Result{}, fmt.Errorf("%w: wrap amount is zero", ErrInvalidParams)
	}
	if p.Buy == b.cfg.FrBTC {
		return Result{}, fmt.Errorf("%w: wrap+swap into frBTC is a plain wrap", ErrInvalidParams)
	}
	if err := requireAddresses(p.Signer, p.Recipient); err != nil {
		return Result{}, err
	}
	deadline, err := b.deadline(ctx)
	if err != nil {
		return Result{}, err
	}

	outputs := []model.OutputSpec{
		{Role: model.RoleRecipient, Address: p.Recipient},
		{Role: model.RoleSigner, Address: p.Signer, ValueSats: p.Sats},
	}
	refund, outputs := refundSlot(outputs, p.Recipient, p.Refund)
	minted := model.Units(b.wrappedAmount(p.Sats))
	chain := model.InstructionChain{
		model.CellpackInstruction(model.NewCellpack(b.cfg.FrBTC, b.cfg.WrapOpcode), model.Protostone(1), model.Output(0)),
		model.CellpackInstruction(b.swapCellpack(b.cfg.FrBTC, p.Buy, minted, p.MinOut, p.Pool, deadline), model.Output(0), refund),
	}
	return b.finish(Result{
		Operation:    OpWrapSwap,
		Chain:        chain,
		Requirements: []model.InputRequirement{model.BaseRequirement(p.Sats, model.Output(1))},
		Outputs:      outputs,
	})
}

type SwapUnwrapParams struct {
	Sell   model.AssetID
	Amount model.Amount
	// MinOut is the frBTC floor of the swap leg.
	MinOut    model.Amount
	Pool      *model.AssetID
	Signer    string
	Recipient string
	Refund    string
}

// SwapUnwrap chains edict -> swap into frBTC -> unwrap through p1 and p2. Every stage refunds to the
// sender.
func (b *Builder) SwapUnwrap(ctx context.Context, p SwapUnwrapParams) (Result, error) {
	if p.Amount.IsZero() {
		return Result{}, fmt.Errorf("%w: swap amount is zero", ErrInvalidParams)
	}
	if p.Sell == b.cfg.FrBTC {
		return Result{}, fmt.Errorf("%w: swap+unwrap from frBTC is a plain unwrap", ErrInvalidParams)
	}
	if err := requireAddresses(p.Signer, p.Recipient); err != nil {
		return Result{}, err
	}
	deadline, err := b.deadline(ctx)
	if err != nil {
		return Result{}, err
	}

	outputs := []model.OutputSpec{
		{Role: model.RoleRecipient, Address: p.Recipient},
		{Role: model.RoleSigner, Address: p.Signer},
	}
	refund, outputs := refundSlot(outputs, p.Recipient, p.Refund)
	chain := model.InstructionChain{
		model.EdictInstruction(model.Edict{Asset: p.Sell, Amount: p.Amount, Target: model.Protostone(1)}, model.Output(0), refund),
		model.CellpackInstruction(b.swapCellpack(p.Sell, b.cfg.FrBTC, p.Amount, p.MinOut, p.Pool, deadline), model.Protostone(2), refund),
		model.CellpackInstruction(model.NewCellpack(b.cfg.FrBTC, b.cfg.UnwrapOpcode), model.Output(0), refund),
	}
	return b.finish(Result{
		Operation:    OpSwapUnwrap,
		Chain:        chain,
		Requirements: []model.InputRequirement{model.AssetRequirement(p.Sell, p.Amount)},
		Outputs:      outputs,
	})
}

// swapCellpack calls the pool directly with [minOut, deadline] when one is given, otherwise the
// factory router with [pathLen, path..., amountIn, minOut, deadline].
func (b *Builder) swapCellpack(sell, buy model.AssetID, amountIn, minOut model.Amount, pool *model.AssetID, deadline uint64) model.Cellpack {
	if pool != nil {
		return model.Cellpack{
			Target: *pool,
			Opcode: model.Units(b.cfg.PoolSwapOpcode),
			Args:   []model.Amount{minOut, model.Units(deadline)},
		}
	}
	return model.Cellpack{
		Target: b.cfg.Factory,
		Opcode: model.Units(b.cfg.SwapOpcode),
		Args: []model.Amount{
			model.Units(2),
			model.Units(sell.Block), model.Units(sell.Tx),
			model.Units(buy.Block), model.Units(buy.Tx),
			amountIn, minOut, model.Units(deadline),
		},
	}
}

func (b *Builder) deadline(ctx context.Context) (uint64, error) {
	h, err := b.height.Height(ctx)
	if err != nil {
		return 0, fmt.Errorf("query height for deadline: %w", err)
	}
	return h + b.cfg.DeadlineBlocks, nil
}

func (b *Builder) wrappedAmount(sats uint64) uint64 {
	fee := min(b.cfg.WrapFeePerThousand, 1000)
	return sats/1000*(1000-fee) + sats%1000*(1000-fee)/1000
}

func (b *Builder) finish(r Result) (Result, error) {
	if err := protostone.Validate(r.Chain); err != nil {
		return Result{}, fmt.Errorf("%s: %w", r.Operation, err)
	}
	return r, nil
}

// refundSlot returns the refund reference, appending a refund output when it differs from the
// recipient.
func refundSlot(outputs []model.OutputSpec, recipient, refund string) (model.AddressReference, []model.OutputSpec) {
	if refund == "" || refund == recipient {
		return model.Output(0), outputs
	}
	idx := uint32(len(outputs))
	return model.Output(idx), append(outputs, model.OutputSpec{Role: model.RoleRefund, Address: refund})
}

func requireAddresses(addrs ...string) error {
	for _, a := range addrs {
		if a == "" {
			return fmt.Errorf("%w: missing address", ErrInvalidParams)
		}
	}
	return nil
}
