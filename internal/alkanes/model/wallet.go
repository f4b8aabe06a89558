package model

import "time"

// AddressPurpose tags an address the way purpose-aware wallets do.
type AddressPurpose string

var (
	PurposePayment  AddressPurpose = "payment"
	PurposeOrdinals AddressPurpose = "ordinals"
)

// WalletAddress is one address exposed by a connected wallet.
type WalletAddress struct {
	Address   string
	PublicKey string
	Type      AddressType
	Purpose   AddressPurpose
}

// AddressMode reports how many address types a wallet exposes.
type AddressMode string

var (
	SingleAddress AddressMode = "single"
	DualAddress   AddressMode = "dual"
)

// Addresses is the result of connecting to a wallet.
type Addresses struct {
	// Taproot receives alkanes.
	Taproot *WalletAddress
	// Payment funds fees and receives base-currency change.
	Payment *WalletAddress
}

// Mode is DualAddress only when both address types are present and distinct.
func (a Addresses) Mode() AddressMode {
	if a.Taproot != nil && a.Payment != nil && a.Taproot.Address != a.Payment.Address {
		return DualAddress
	}
	return SingleAddress
}

// Empty reports whether no address was discovered.
func (a Addresses) Empty() bool {
	return a.Taproot == nil && a.Payment == nil
}

// Primary is the single address used in single-address mode.
func (a Addresses) Primary() *WalletAddress {
	if a.Taproot != nil {
		return a.Taproot
	}
	return a.Payment
}

// AssetAddress receives alkanes and asset change.
func (a Addresses) AssetAddress() string {
	if p := a.Primary(); p != nil {
		return p.Address
	}
	return ""
}

// ChangeAddress receives base-currency change: the payment address in dual mode,
// the one address otherwise.
func (a Addresses) ChangeAddress() string {
	if a.Mode() == DualAddress {
		return a.Payment.Address
	}
	return a.AssetAddress()
}

// All returns the distinct addresses, asset address first.
func (a Addresses) All() []WalletAddress {
	var out []WalletAddress
	if a.Taproot != nil {
		out = append(out, *a.Taproot)
	}
	if a.Payment != nil && (a.Taproot == nil || a.Payment.Address != a.Taproot.Address) {
		out = append(out, *a.Payment)
	}
	return out
}

// BroadcastRecord is a journal row written after a successful broadcast.
type BroadcastRecord struct {
	Network      Network
	TxID         string
	Operation    string
	Protostones  string
	Requirements string
	Fee          uint64
	VSize        uint64
	FeeRate      float64
	InputCount   uint32
	OutputCount  uint32
	Sender       string
	BroadcastAt  time.Time
}
