package extension

import (
	"context"
	"encoding/base64"

	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
)

// phantom passes byte arrays, which the bridge page carries as base64.
type phantom struct {
	provider
}

type phantomInputsToSign struct {
	Address        string `json:"address"`
	SigningIndexes []int  `json:"signingIndexes"`
}

type phantomSignOptions struct {
	InputsToSign []phantomInputsToSign `json:"inputsToSign"`
}

func (w *phantom) Connect(ctx context.Context) (model.Addresses, error) {
	var accounts []taggedAddress
	if err := w.call(ctx, "connect", "requestAccounts", &accounts); err != nil {
		return model.Addresses{}, err
	}
	return w.taggedAddresses(accounts)
}

func (w *phantom) SignPSBT(ctx context.Context, req model.SignRequest) ([]byte, bool, error) {
	addrs, byAddr := inputsByAddress(req)
	var opts phantomSignOptions
	for _, a := range addrs {
		opts.InputsToSign = append(opts.InputsToSign, phantomInputsToSign{Address: a, SigningIndexes: byAddr[a]})
	}
	var signed string
	if err := w.call(ctx, capabilitySignPSBT, "signPSBT", &signed, base64.StdEncoding.EncodeToString(req.PSBT), opts); err != nil {
		return nil, false, err
	}
	raw, err := decodeBase64(w.kind, signed)
	if err != nil {
		return nil, false, err
	}
	return raw, false, nil
}

func (w *phantom) SignMessage(ctx context.Context, address, message string) (string, error) {
	var res struct {
		Signature string `json:"signature"`
	}
	encoded := base64.StdEncoding.EncodeToString([]byte(message))
	if err := w.call(ctx, capabilitySignMessage, "signMessage", &res, address, encoded); err != nil {
		return "", err
	}
	return res.Signature, nil
}
