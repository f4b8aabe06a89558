// Package extension adapts browser-extension bitcoin wallets to signer.Backend. Each wallet is a
// closed variant; its method names and payload shapes never leave this package.
package extension

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/bitcoin"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/signer"
)

// Kind names a supported wallet.
type Kind string

var (
	Xverse    Kind = "xverse"
	Oyl       Kind = "oyl"
	Unisat    Kind = "unisat"
	OKX       Kind = "okx"
	Phantom   Kind = "phantom"
	Leather   Kind = "leather"
	MagicEden Kind = "magic-eden"
	Orange    Kind = "orange"
	Tokeo     Kind = "tokeo"
	Wizz      Kind = "wizz"
	Keplr     Kind = "keplr"
)

// Kinds lists every supported wallet.
func Kinds() []Kind {
	return []Kind{Xverse, Oyl, Unisat, OKX, Phantom, Leather, MagicEden, Orange, Tokeo, Wizz, Keplr}
}

// ParseKind accepts a wallet name case-insensitively.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown wallet %q", s)
}

const (
	capabilitySignPSBT    = "sign psbt"
	capabilitySignMessage = "sign message"

	// codeMethodNotFound is what the bridge page reports for a method the provider lacks.
	codeMethodNotFound = -32601
)

// ErrNoAccounts is returned when the wallet connects but exposes no address.
var ErrNoAccounts = errors.New("wallet returned no accounts")

// RemoteError is an error raised by the wallet inside the browser.
type RemoteError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("wallet error %d: %s", e.Code, e.Message)
}

// New returns the backend for kind. network decides how flat address lists are classified.
func New(kind Kind, bridge Bridge, network model.Network) (signer.Backend, error) {
	base := provider{kind: kind, bridge: bridge, network: network}
	switch kind {
	case Unisat:
		return &injected{provider: base.named("unisat"), signs: true, messages: true, autoFinalize: true}, nil
	case Wizz:
		return &injected{provider: base.named("wizz"), signs: true, messages: true, autoFinalize: true}, nil
	case OKX:
		return &okx{provider: base.named("okxwallet.bitcoin")}, nil
	case Keplr:
		return &injected{provider: base.named("bitcoin_keplr"), messages: true}, nil
	case Tokeo:
		return &injected{provider: base.named("tokeo.bitcoin")}, nil
	case Xverse:
		return &satsConnect{provider: base.named("XverseProviders.BitcoinProvider"), signs: true}, nil
	case MagicEden:
		return &satsConnect{provider: base.named("magicEden.bitcoin"), signs: true}, nil
	case Orange:
		return &satsConnect{provider: base.named("OrangeWalletProviders.OrangeBitcoinProvider")}, nil
	case Leather:
		return &leather{provider: base.named("LeatherProvider")}, nil
	case Phantom:
		return &phantom{provider: base.named("phantom.bitcoin")}, nil
	case Oyl:
		return &oyl{provider: base.named("oyl")}, nil
	default:
		return nil, fmt.Errorf("unknown wallet %q", kind)
	}
}

// provider is the state every variant shares.
type provider struct {
	kind    Kind
	name    string
	bridge  Bridge
	network model.Network
}

func (p provider) named(name string) provider {
	p.name = name
	return p
}

func (p provider) Name() string {
	return string(p.kind)
}

func (p provider) call(ctx context.Context, capability, method string, result any, params ...any) error {
	if params == nil {
		params = []any{}
	}
	err := p.bridge.Call(ctx, p.name, method, params, result)
	if err == nil {
		return nil
	}
	var remote *RemoteError
	if errors.As(err, &remote) && remote.Code == codeMethodNotFound {
		return p.unsupported(capability)
	}
	return fmt.Errorf("%s %s: %w", p.kind, method, err)
}

func (p provider) addressType(address string) ([]byte, model.AddressType, error) {
	return bitcoin.AddressScript(p.network, address)
}

func (p provider) unsupported(capability string) error {
	return &model.CapabilityUnsupportedError{Backend: string(p.kind), Capability: capability}
}

// flatAddresses classifies a plain account list: the first taproot address holds assets and the
// first other address pays. publicKey, when known, belongs to the first account.
func (p provider) flatAddresses(accounts []string, publicKey string) (model.Addresses, error) {
	var out model.Addresses
	for i, a := range accounts {
		_, typ, err := p.addressType(a)
		if err != nil {
			return model.Addresses{}, fmt.Errorf("%s account %s: %w", p.kind, a, err)
		}
		wa := &model.WalletAddress{Address: a, Type: typ}
		if i == 0 {
			wa.PublicKey = publicKey
		}
		switch {
		case typ == model.AddressP2TR && out.Taproot == nil:
			wa.Purpose = model.PurposeOrdinals
			out.Taproot = wa
		case typ != model.AddressP2TR && out.Payment == nil:
			wa.Purpose = model.PurposePayment
			out.Payment = wa
		}
	}
	if out.Empty() {
		return model.Addresses{}, ErrNoAccounts
	}
	return out, nil
}

// taggedAddress is an account as purpose-aware wallets describe it.
type taggedAddress struct {
	Address     string `json:"address"`
	PublicKey   string `json:"publicKey"`
	Purpose     string `json:"purpose"`
	AddressType string `json:"addressType"`
}

// taggedAddresses maps purpose-tagged accounts; ordinals accounts hold assets.
func (p provider) taggedAddresses(accounts []taggedAddress) (model.Addresses, error) {
	var out model.Addresses
	for _, a := range accounts {
		_, typ, err := p.addressType(a.Address)
		if err != nil {
			return model.Addresses{}, fmt.Errorf("%s account %s: %w", p.kind, a.Address, err)
		}
		wa := &model.WalletAddress{Address: a.Address, PublicKey: a.PublicKey, Type: typ}
		switch model.AddressPurpose(a.Purpose) {
		case model.PurposeOrdinals:
			if out.Taproot == nil {
				wa.Purpose = model.PurposeOrdinals
				out.Taproot = wa
			}
		case model.PurposePayment:
			if out.Payment == nil {
				wa.Purpose = model.PurposePayment
				out.Payment = wa
			}
		}
	}
	if out.Empty() {
		return model.Addresses{}, ErrNoAccounts
	}
	return out, nil
}

// inputsByAddress groups input indexes by the address that signs them, in address order.
func inputsByAddress(req model.SignRequest) ([]string, map[string][]int) {
	byAddr := make(map[string][]int)
	for _, in := range req.Inputs {
		byAddr[in.Address] = append(byAddr[in.Address], in.Index)
	}
	addrs := make([]string, 0, len(byAddr))
	for a := range byAddr {
		addrs = append(addrs, a)
	}
	sort.Strings(addrs)
	return addrs, byAddr
}

func decodeHex(kind Kind, s string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%s returned malformed hex psbt: %w", kind, err)
	}
	return b, nil
}

func decodeBase64(kind Kind, s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%s returned malformed base64 psbt: %w", kind, err)
	}
	return b, nil
}
