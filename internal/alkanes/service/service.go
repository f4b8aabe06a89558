// Package service plans, signs, broadcasts and journals alkanes transactions for a connected wallet.
package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/assembler"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/builder"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/coinselect"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/protostone"
	"github.com/goodnatureofminers/alkanes-txkit/internal/clock"
	"github.com/goodnatureofminers/alkanes-txkit/pkg/safe"
	"github.com/goodnatureofminers/alkanes-txkit/pkg/workerpool"
	"go.uber.org/zap"
)

const (
	defaultPollInterval = 2 * time.Second
	utxoWorkers         = 4
)

// Config tunes the service. Zero values fall back to defaults.
type Config struct {
	Network model.Network
	// FeeRate in sat/vB is used when an intent does not carry its own.
	FeeRate float64
	// SignerAddress overrides the frBTC signer address reported by the contract.
	SignerAddress string
	Dust          uint64
	PollInterval  time.Duration
	Retry         clock.RetryPolicy
}

// Intent is a built operation plus the knobs that shape its assembly.
type Intent struct {
	Build     builder.Result
	FeeRate   float64
	Preferred []model.Outpoint
}

// Plan is an assembled transaction awaiting signature.
type Plan struct {
	Operation    builder.Operation
	Protostones  string
	Requirements string
	Tx           model.TransactionPlan
	Prev         assembler.PrevTxs
}

// Receipt describes a broadcast transaction.
type Receipt struct {
	TxID   string
	Plan   Plan
	Signed model.SignResult
}

type Service struct {
	cfg       Config
	indexer   Indexer
	builder   *builder.Builder
	wallet    Wallet
	contracts Contracts
	journal   Journal
	metrics   ServiceMetrics
	logger    *zap.Logger

	signerMu sync.Mutex
	signer   string
}

// New wires a service. journal may be nil, in which case broadcasts are only logged.
func New(
	cfg Config,
	indexer Indexer,
	b *builder.Builder,
	wallet Wallet,
	contracts Contracts,
	journal Journal,
	metrics ServiceMetrics,
	logger *zap.Logger,
) *Service {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.Retry.Attempts == 0 {
		cfg.Retry = clock.DefaultRetryPolicy(model.IsTransient)
	}
	return &Service{
		cfg:       cfg,
		indexer:   indexer,
		builder:   b,
		wallet:    wallet,
		contracts: contracts,
		journal:   journal,
		metrics:   metrics,
		logger:    logger,
	}
}

// Plan fetches a fresh UTXO snapshot for every wallet address and assembles intent against it.
// Nothing is signed or sent.
func (s *Service) Plan(ctx context.Context, intent Intent) (plan Plan, err error) {
	op := string(intent.Build.Operation)
	defer func(started time.Time) {
		s.metrics.Observe(op, "plan", err, started)
	}(time.Now())

	addrs, err := s.connected("plan " + op)
	if err != nil {
		return Plan{}, err
	}
	available, err := s.snapshot(ctx, addrs)
	if err != nil {
		return Plan{}, fmt.Errorf("plan %s: %w", op, err)
	}

	feeRate := intent.FeeRate
	if feeRate <= 0 {
		feeRate = s.cfg.FeeRate
	}
	tx, err := assembler.Assemble(assembler.Request{
		Network:            s.cfg.Network,
		Chain:              intent.Build.Chain,
		Requirements:       intent.Build.Requirements,
		Outputs:            intent.Build.Outputs,
		Available:          available,
		ChangeAddress:      addrs.ChangeAddress(),
		AssetChangeAddress: addrs.AssetAddress(),
		FeeRate:            feeRate,
		Options:            coinselect.Options{Preferred: intent.Preferred, Dust: s.cfg.Dust},
	})
	if err != nil {
		return Plan{}, fmt.Errorf("plan %s: %w", op, err)
	}

	prev, err := s.prevTxs(ctx, tx)
	if err != nil {
		return Plan{}, fmt.Errorf("plan %s: %w", op, err)
	}

	plan = Plan{
		Operation:    intent.Build.Operation,
		Protostones:  intent.Build.Protostones(),
		Requirements: protostone.FormatRequirements(intent.Build.Requirements),
		Tx:           tx,
		Prev:         prev,
	}
	s.metrics.ObservePlan(op, tx.Fee, tx.VSize)
	s.logger.Info("transaction planned",
		zap.String("operation", op),
		zap.String("protostones", plan.Protostones),
		zap.Int("inputs", len(tx.Inputs)),
		zap.Int("outputs", len(tx.Outputs)),
		zap.Uint64("fee", tx.Fee),
		zap.Uint64("vsize", tx.VSize),
	)
	return plan, nil
}

// Execute signs plan with the wallet, broadcasts it and journals the result. Transient broadcast
// failures are retried; the signed transaction is reused across attempts.
func (s *Service) Execute(ctx context.Context, plan Plan) (receipt Receipt, err error) {
	op := string(plan.Operation)
	defer func(started time.Time) {
		s.metrics.Observe(op, "execute", err, started)
	}(time.Now())

	signed, err := s.wallet.Sign(ctx, plan.Tx, plan.Prev)
	if err != nil {
		return Receipt{}, fmt.Errorf("execute %s: %w", op, err)
	}

	var txid string
	err = clock.Retry(ctx, s.cfg.Retry, func(ctx context.Context) error {
		var err error
		txid, err = s.wallet.Broadcast(ctx, signed.RawTx)
		if err != nil && model.IsTransient(err) {
			s.logger.Warn("broadcast failed, retrying", zap.String("txid", signed.TxID), zap.Error(err))
		}
		return err
	})
	if err != nil {
		return Receipt{}, fmt.Errorf("execute %s: %w", op, err)
	}
	if txid != signed.TxID {
		s.logger.Warn("broadcast returned unexpected txid", zap.String("signed", signed.TxID), zap.String("broadcast", txid))
	}

	receipt = Receipt{TxID: txid, Plan: plan, Signed: signed}
	s.record(ctx, receipt)
	s.logger.Info("transaction broadcast", zap.String("operation", op), zap.String("txid", txid))
	return receipt, nil
}

// Balances sums the alkanes held by every wallet address.
func (s *Service) Balances(ctx context.Context) (map[model.AssetID]model.Amount, error) {
	addrs, err := s.connected("balances")
	if err != nil {
		return nil, err
	}
	var list []string
	for _, a := range addrs.All() {
		list = append(list, a.Address)
	}
	return s.contracts.Snapshot(ctx, list)
}

// WaitForIndexer blocks until the indexer reports at least height. Transient errors while polling
// are tolerated.
func (s *Service) WaitForIndexer(ctx context.Context, height uint64, timeout time.Duration) error {
	err := clock.PollUntil(ctx, s.cfg.PollInterval, timeout, func(ctx context.Context) (bool, error) {
		current, err := s.indexer.Height(ctx)
		if err != nil {
			if model.IsTransient(err) {
				s.logger.Debug("indexer height unavailable", zap.Error(err))
				return false, nil
			}
			return false, err
		}
		return current >= height, nil
	})
	if errors.Is(err, clock.ErrPollTimeout) {
		return &model.TimeoutError{Op: fmt.Sprintf("wait for indexer height %d", height), Err: err}
	}
	return err
}

// connected returns the wallet addresses, failing with ErrInvalidState when no wallet is attached.
func (s *Service) connected(op string) (model.Addresses, error) {
	if s.wallet == nil {
		return model.Addresses{}, fmt.Errorf("%s: no wallet configured: %w", op, model.ErrInvalidState)
	}
	addrs := s.wallet.Addresses()
	if addrs.Empty() {
		return model.Addresses{}, fmt.Errorf("%s: wallet not connected: %w", op, model.ErrInvalidState)
	}
	return addrs, nil
}

// snapshot fetches the spendable outputs of every wallet address concurrently and attaches the
// address public keys so inputs can be signed.
func (s *Service) snapshot(ctx context.Context, addrs model.Addresses) ([]model.Utxo, error) {
	perAddress, err := workerpool.Map(ctx, utxoWorkers, addrs.All(), func(ctx context.Context, wa model.WalletAddress) ([]model.Utxo, error) {
		var pub []byte
		if wa.PublicKey != "" {
			var err error
			if pub, err = hex.DecodeString(wa.PublicKey); err != nil {
				return nil, fmt.Errorf("public key of %s: %w", wa.Address, err)
			}
		}
		var utxos []model.Utxo
		err := clock.Retry(ctx, s.cfg.Retry, func(ctx context.Context) error {
			var err error
			utxos, err = s.indexer.WalletUtxos(ctx, wa.Address)
			return err
		})
		if err != nil {
			return nil, err
		}
		for i := range utxos {
			utxos[i].PublicKey = pub
		}
		return utxos, nil
	})
	if err != nil {
		return nil, err
	}
	var out []model.Utxo
	for _, utxos := range perAddress {
		out = append(out, utxos...)
	}
	return out, nil
}

// prevTxs fetches the full transactions legacy inputs need in their PSBT.
func (s *Service) prevTxs(ctx context.Context, tx model.TransactionPlan) (assembler.PrevTxs, error) {
	ids := assembler.LegacyInputs(tx)
	if len(ids) == 0 {
		return nil, nil
	}
	prev := make(assembler.PrevTxs, len(ids))
	for _, txid := range ids {
		raw, err := s.indexer.TxHex(ctx, txid)
		if err != nil {
			return nil, fmt.Errorf("previous transaction %s: %w", txid, err)
		}
		if err := assembler.DecodePrevTx(prev, txid, raw); err != nil {
			return nil, err
		}
	}
	return prev, nil
}

// record journals a broadcast. The transaction is already out, so failures are only logged.
func (s *Service) record(ctx context.Context, r Receipt) {
	if s.journal == nil {
		return
	}
	inputs, err := safe.Uint32(len(r.Plan.Tx.Inputs))
	if err != nil {
		s.logger.Error("journal record skipped", zap.String("txid", r.TxID), zap.Error(err))
		return
	}
	outputs, err := safe.Uint32(len(r.Plan.Tx.Outputs))
	if err != nil {
		s.logger.Error("journal record skipped", zap.String("txid", r.TxID), zap.Error(err))
		return
	}
	record := model.BroadcastRecord{
		Network:      s.cfg.Network,
		TxID:         r.TxID,
		Operation:    string(r.Plan.Operation),
		Protostones:  r.Plan.Protostones,
		Requirements: r.Plan.Requirements,
		Fee:          r.Plan.Tx.Fee,
		VSize:        r.Plan.Tx.VSize,
		FeeRate:      r.Plan.Tx.FeeRate,
		InputCount:   inputs,
		OutputCount:  outputs,
		Sender:       s.wallet.Addresses().AssetAddress(),
		BroadcastAt:  time.Now().UTC(),
	}
	if err := s.journal.Record(ctx, record); err != nil {
		s.logger.Error("journal record failed", zap.String("txid", r.TxID), zap.Error(err))
	}
}

// signerAddress resolves the frBTC signer address once per service.
func (s *Service) signerAddress(ctx context.Context) (string, error) {
	if s.cfg.SignerAddress != "" {
		return s.cfg.SignerAddress, nil
	}
	s.signerMu.Lock()
	defer s.signerMu.Unlock()
	if s.signer != "" {
		return s.signer, nil
	}
	addr, err := s.contracts.SignerAddress(ctx, s.cfg.Network)
	if err != nil {
		return "", fmt.Errorf("frBTC signer address: %w", err)
	}
	s.signer = addr
	return addr, nil
}
