package extension

import (
	"context"
	"encoding/hex"
	"errors"

	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
)

// injected covers the unisat-style API: requestAccounts returns a flat list, PSBTs travel as hex.
type injected struct {
	provider
	signs        bool
	messages     bool
	autoFinalize bool
}

type toSignInput struct {
	Index   int    `json:"index"`
	Address string `json:"address"`
}

type signPsbtOptions struct {
	AutoFinalized bool          `json:"autoFinalized"`
	ToSignInputs  []toSignInput `json:"toSignInputs"`
}

func (w *injected) Connect(ctx context.Context) (model.Addresses, error) {
	var accounts []string
	if err := w.call(ctx, "connect", "requestAccounts", &accounts); err != nil {
		return model.Addresses{}, err
	}
	// Some wallets never expose a public key; taproot inputs then go out without an internal key.
	var publicKey string
	if err := w.call(ctx, "public key", "getPublicKey", &publicKey); err != nil {
		var capErr *model.CapabilityUnsupportedError
		if !errors.As(err, &capErr) {
			return model.Addresses{}, err
		}
	}
	return w.flatAddresses(accounts, publicKey)
}

func (w *injected) SignPSBT(ctx context.Context, req model.SignRequest) ([]byte, bool, error) {
	if !w.signs {
		return nil, false, w.unsupported(capabilitySignPSBT)
	}
	opts := signPsbtOptions{AutoFinalized: w.autoFinalize}
	for _, in := range req.Inputs {
		opts.ToSignInputs = append(opts.ToSignInputs, toSignInput{Index: in.Index, Address: in.Address})
	}
	var signed string
	if err := w.call(ctx, capabilitySignPSBT, "signPsbt", &signed, hex.EncodeToString(req.PSBT), opts); err != nil {
		return nil, false, err
	}
	raw, err := decodeHex(w.kind, signed)
	if err != nil {
		return nil, false, err
	}
	return raw, w.autoFinalize, nil
}

func (w *injected) SignMessage(ctx context.Context, address, message string) (string, error) {
	if !w.messages {
		return "", w.unsupported(capabilitySignMessage)
	}
	var signature string
	if err := w.call(ctx, capabilitySignMessage, "signMessage", &signature, message, "ecdsa"); err != nil {
		return "", err
	}
	return signature, nil
}

// okx speaks the unisat dialect except for connect, which returns a single account object.
type okx struct {
	provider
}

func (w *okx) Connect(ctx context.Context) (model.Addresses, error) {
	var account struct {
		Address   string `json:"address"`
		PublicKey string `json:"publicKey"`
	}
	if err := w.call(ctx, "connect", "connect", &account); err != nil {
		return model.Addresses{}, err
	}
	if account.Address == "" {
		return model.Addresses{}, ErrNoAccounts
	}
	return w.flatAddresses([]string{account.Address}, account.PublicKey)
}

func (w *okx) SignPSBT(ctx context.Context, req model.SignRequest) ([]byte, bool, error) {
	inner := injected{provider: w.provider, signs: true, autoFinalize: true}
	return inner.SignPSBT(ctx, req)
}

func (w *okx) SignMessage(ctx context.Context, address, message string) (string, error) {
	inner := injected{provider: w.provider, messages: true}
	return inner.SignMessage(ctx, address, message)
}
