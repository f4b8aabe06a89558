package model

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// GrammarError reports malformed protostone or requirement text, or a dangling reference.
type GrammarError struct {
	Input  string
	Reason string
}

func (e *GrammarError) Error() string {
	if e.Input == "" {
		return "grammar: " + e.Reason
	}
	return fmt.Sprintf("grammar: %s: %q", e.Reason, e.Input)
}

// InsufficientFundsError reports an unmet input requirement.
type InsufficientFundsError struct {
	Asset     AssetID
	Required  Amount
	Available Amount
	Shortfall Amount
	// LockedSats is base currency held by asset-bearing outputs that fee funding may not touch.
	LockedSats uint64
}

// NewInsufficientFunds computes the shortfall from required and available.
func NewInsufficientFunds(asset AssetID, required, available Amount) *InsufficientFundsError {
	e := &InsufficientFundsError{Asset: asset, Required: required, Available: available}
	if required.Gt(&available) {
		e.Shortfall.Sub(&required, &available)
	}
	return e
}

func (e *InsufficientFundsError) Error() string {
	unit := "units of " + e.Asset.String()
	if e.Asset.IsBase() {
		unit = "sats from clean outputs"
	}
	msg := fmt.Sprintf("insufficient funds: need %s %s, have %s, short %s",
		e.Required.Dec(), unit, e.Available.Dec(), e.Shortfall.Dec())
	if e.LockedSats > 0 {
		msg += fmt.Sprintf(" (%d sats held by asset-bearing outputs are not spendable for fees)", e.LockedSats)
	}
	return msg
}

// LockViolationError reports an asset-bearing output that would be spent purely for fees.
type LockViolationError struct {
	Outpoint Outpoint
	Assets   []AssetID
}

func (e *LockViolationError) Error() string {
	ids := make([]string, 0, len(e.Assets))
	for _, a := range e.Assets {
		ids = append(ids, a.String())
	}
	return fmt.Sprintf("lock violation: %s carries [%s] and no requirement names it", e.Outpoint, strings.Join(ids, " "))
}

// UnresolvedReferenceError reports a reference that names no output or instruction.
type UnresolvedReferenceError struct {
	Ref    AddressReference
	Reason string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("unresolved reference %s: %s", e.Ref, e.Reason)
}

// CapabilityUnsupportedError reports a wallet backend lacking a capability.
type CapabilityUnsupportedError struct {
	Backend    string
	Capability string
}

func (e *CapabilityUnsupportedError) Error() string {
	return fmt.Sprintf("%s does not support %s", e.Backend, e.Capability)
}

// TransientNetworkError is safe to retry with backoff.
type TransientNetworkError struct {
	Op          string
	StatusCode  int
	RateLimited bool
	Err         error
}

func (e *TransientNetworkError) Error() string {
	switch {
	case e.RateLimited:
		return fmt.Sprintf("%s: rate limited: %v", e.Op, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: http %d: %v", e.Op, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *TransientNetworkError) Unwrap() error { return e.Err }

// TimeoutError reports a network call that exceeded its deadline.
type TimeoutError struct {
	Op  string
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: timed out: %v", e.Op, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// ProtocolExecutionError carries a remote execution failure verbatim.
type ProtocolExecutionError struct {
	Target  string
	Message string
}

func (e *ProtocolExecutionError) Error() string {
	return fmt.Sprintf("execution of %s failed: %s", e.Target, e.Message)
}

// ErrInvalidState is returned when a wallet session call is made out of order.
var ErrInvalidState = errors.New("invalid wallet session state")

// IsTransient reports whether err is safe to retry.
func IsTransient(err error) bool {
	var t *TransientNetworkError
	return errors.As(err, &t)
}

// IsTimeout reports whether err is a deadline failure.
func IsTimeout(err error) bool {
	var t *TimeoutError
	if errors.As(err, &t) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// IsConstruction reports errors raised before any network or signing call.
func IsConstruction(err error) bool {
	var (
		g *GrammarError
		i *InsufficientFundsError
		l *LockViolationError
		u *UnresolvedReferenceError
	)
	return errors.As(err, &g) || errors.As(err, &i) || errors.As(err, &l) || errors.As(err, &u)
}
