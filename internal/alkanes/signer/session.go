// Package signer drives wallet backends through connect, sign and broadcast.
package signer

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/assembler"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
	"go.uber.org/zap"
)

// State is the position of a Session in its lifecycle.
type State string

var (
	StateDisconnected State = "disconnected"
	StateConnected    State = "connected"
	StateSigning      State = "signing"
	StateBroadcast    State = "broadcast"
)

// Session is the backend-agnostic wallet contract: Connect, Sign, Broadcast.
type Session struct {
	backend     Backend
	broadcaster Broadcaster
	metrics     WalletMetrics
	logger      *zap.Logger

	mu        sync.Mutex
	state     State
	inFlight  bool
	addresses model.Addresses
	signed    *model.SignResult
}

func NewSession(backend Backend, broadcaster Broadcaster, metrics WalletMetrics, logger *zap.Logger) *Session {
	return &Session{
		backend:     backend,
		broadcaster: broadcaster,
		metrics:     metrics,
		logger:      logger,
		state:       StateDisconnected,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Backend names the wallet behind the session.
func (s *Session) Backend() string {
	return s.backend.Name()
}

// Addresses returns what Connect discovered.
func (s *Session) Addresses() model.Addresses {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addresses
}

// Connect discovers the wallet's addresses. Reconnecting a connected session refreshes them.
func (s *Session) Connect(ctx context.Context) (addresses model.Addresses, err error) {
	if err := s.begin(StateDisconnected, StateConnected, StateBroadcast); err != nil {
		return model.Addresses{}, err
	}
	defer func(started time.Time) {
		s.metrics.Observe(s.backend.Name(), "connect", err, started)
	}(time.Now())

	addresses, err = s.backend.Connect(ctx)
	if err == nil && addresses.Empty() {
		err = fmt.Errorf("%s returned no addresses", s.backend.Name())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if err != nil {
		return model.Addresses{}, fmt.Errorf("connect %s: %w", s.backend.Name(), err)
	}
	s.addresses = addresses
	s.state = StateConnected
	s.signed = nil
	s.logger.Info("wallet connected",
		zap.String("backend", s.backend.Name()),
		zap.String("mode", string(addresses.Mode())),
		zap.String("asset_address", addresses.AssetAddress()),
		zap.String("change_address", addresses.ChangeAddress()),
	)
	return addresses, nil
}

// Sign submits plan to the wallet and returns the finalized transaction. Inputs the wallet left
// unfinalized are finalized locally.
func (s *Session) Sign(ctx context.Context, plan model.TransactionPlan, prev assembler.PrevTxs) (result model.SignResult, err error) {
	if err := s.begin(StateConnected, StateBroadcast, StateSigning); err != nil {
		return model.SignResult{}, err
	}
	defer func(started time.Time) {
		s.metrics.Observe(s.backend.Name(), "sign_psbt", err, started)
	}(time.Now())

	s.mu.Lock()
	s.state = StateSigning
	s.signed = nil
	s.mu.Unlock()

	result, err = s.sign(ctx, plan, prev)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if err != nil {
		s.state = StateConnected
		return model.SignResult{}, fmt.Errorf("sign with %s: %w", s.backend.Name(), err)
	}
	s.signed = &result
	return result, nil
}

func (s *Session) sign(ctx context.Context, plan model.TransactionPlan, prev assembler.PrevTxs) (model.SignResult, error) {
	req, err := assembler.NewSignRequest(plan, prev)
	if err != nil {
		return model.SignResult{}, err
	}
	signed, finalized, err := s.backend.SignPSBT(ctx, req)
	if err != nil {
		return model.SignResult{}, err
	}
	packet, err := parsePacket(signed)
	if err != nil {
		return model.SignResult{}, err
	}
	if !finalized {
		if err := Finalize(packet); err != nil {
			return model.SignResult{}, err
		}
	}
	return Extract(packet)
}

// Broadcast submits the transaction produced by the last Sign. Any other bytes are refused.
func (s *Session) Broadcast(ctx context.Context, raw []byte) (txid string, err error) {
	s.mu.Lock()
	if s.state != StateSigning || s.inFlight || s.signed == nil {
		state := s.state
		s.mu.Unlock()
		return "", fmt.Errorf("broadcast in state %s: %w", state, model.ErrInvalidState)
	}
	if !bytes.Equal(raw, s.signed.RawTx) {
		s.mu.Unlock()
		return "", fmt.Errorf("broadcast: transaction is not the one last signed: %w", model.ErrInvalidState)
	}
	s.inFlight = true
	s.mu.Unlock()

	defer func(started time.Time) {
		s.metrics.Observe(s.backend.Name(), "broadcast", err, started)
	}(time.Now())

	txid, err = s.broadcaster.Broadcast(ctx, raw)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if err != nil {
		return "", fmt.Errorf("broadcast: %w", err)
	}
	s.state = StateBroadcast
	s.signed = nil
	s.logger.Info("transaction broadcast", zap.String("backend", s.backend.Name()), zap.String("txid", txid))
	return txid, nil
}

// SignMessage signs message with the key behind address.
func (s *Session) SignMessage(ctx context.Context, address, message string) (signature string, err error) {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()
	if state == StateDisconnected {
		return "", fmt.Errorf("sign message in state %s: %w", state, model.ErrInvalidState)
	}
	defer func(started time.Time) {
		s.metrics.Observe(s.backend.Name(), "sign_message", err, started)
	}(time.Now())

	return s.backend.SignMessage(ctx, address, message)
}

// Disconnect forgets the wallet's addresses and any unbroadcast transaction.
func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateDisconnected
	s.addresses = model.Addresses{}
	s.signed = nil
}

// begin claims the session for one call when it is in one of allowed.
func (s *Session) begin(allowed ...State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return fmt.Errorf("call while %s in progress: %w", s.state, model.ErrInvalidState)
	}
	for _, st := range allowed {
		if s.state == st {
			s.inFlight = true
			return nil
		}
	}
	return fmt.Errorf("call in state %s: %w", s.state, model.ErrInvalidState)
}
