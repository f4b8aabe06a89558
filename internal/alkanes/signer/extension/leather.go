package extension

import (
	"context"
	"encoding/hex"

	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
)

// leather returns a symbol-tagged address list and signs hex PSBTs by input index.
type leather struct {
	provider
}

type leatherAddress struct {
	Symbol    string `json:"symbol"`
	Type      string `json:"type"`
	Address   string `json:"address"`
	PublicKey string `json:"publicKey"`
}

type leatherSignPsbtParams struct {
	Hex         string `json:"hex"`
	SignAtIndex []int  `json:"signAtIndex"`
	Broadcast   bool   `json:"broadcast"`
}

type leatherSignMessageParams struct {
	Message     string `json:"message"`
	PaymentType string `json:"paymentType"`
}

func (w *leather) Connect(ctx context.Context) (model.Addresses, error) {
	var res satsResponse[struct {
		Addresses []leatherAddress `json:"addresses"`
	}]
	if err := w.call(ctx, "connect", "request", &res, "getAddresses"); err != nil {
		return model.Addresses{}, err
	}
	var tagged []taggedAddress
	for _, a := range res.Result.Addresses {
		if a.Symbol != "BTC" {
			continue
		}
		purpose := model.PurposePayment
		if a.Type == "p2tr" {
			purpose = model.PurposeOrdinals
		}
		tagged = append(tagged, taggedAddress{Address: a.Address, PublicKey: a.PublicKey, Purpose: string(purpose)})
	}
	return w.taggedAddresses(tagged)
}

func (w *leather) SignPSBT(ctx context.Context, req model.SignRequest) ([]byte, bool, error) {
	params := leatherSignPsbtParams{Hex: hex.EncodeToString(req.PSBT)}
	for _, in := range req.Inputs {
		params.SignAtIndex = append(params.SignAtIndex, in.Index)
	}
	var res satsResponse[struct {
		Hex string `json:"hex"`
	}]
	if err := w.call(ctx, capabilitySignPSBT, "request", &res, "signPsbt", params); err != nil {
		return nil, false, err
	}
	raw, err := decodeHex(w.kind, res.Result.Hex)
	if err != nil {
		return nil, false, err
	}
	return raw, false, nil
}

func (w *leather) SignMessage(ctx context.Context, address, message string) (string, error) {
	paymentType := "p2wpkh"
	if _, typ, err := w.addressType(address); err == nil && typ == model.AddressP2TR {
		paymentType = "p2tr"
	}
	var res satsResponse[struct {
		Signature string `json:"signature"`
	}]
	params := leatherSignMessageParams{Message: message, PaymentType: paymentType}
	if err := w.call(ctx, capabilitySignMessage, "request", &res, "signMessage", params); err != nil {
		return "", err
	}
	return res.Result.Signature, nil
}
