package extension

import (
	"context"
	"encoding/hex"

	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
)

// oyl keys its accounts by address type and finalizes on request.
type oyl struct {
	provider
}

type oylAccount struct {
	Address   string `json:"address"`
	PublicKey string `json:"publicKey"`
}

type oylSignPsbtParams struct {
	PSBT      string `json:"psbt"`
	Finalize  bool   `json:"finalize"`
	Broadcast bool   `json:"broadcast"`
}

type oylSignMessageParams struct {
	Address string `json:"address"`
	Message string `json:"message"`
}

func (w *oyl) Connect(ctx context.Context) (model.Addresses, error) {
	var res struct {
		Taproot      *oylAccount `json:"taproot"`
		NativeSegwit *oylAccount `json:"nativeSegwit"`
		NestedSegwit *oylAccount `json:"nestedSegwit"`
		Legacy       *oylAccount `json:"legacy"`
	}
	if err := w.call(ctx, "connect", "getAddresses", &res); err != nil {
		return model.Addresses{}, err
	}
	var tagged []taggedAddress
	if res.Taproot != nil {
		tagged = append(tagged, taggedAddress{Address: res.Taproot.Address, PublicKey: res.Taproot.PublicKey, Purpose: string(model.PurposeOrdinals)})
	}
	for _, a := range []*oylAccount{res.NativeSegwit, res.NestedSegwit, res.Legacy} {
		if a != nil && a.Address != "" {
			tagged = append(tagged, taggedAddress{Address: a.Address, PublicKey: a.PublicKey, Purpose: string(model.PurposePayment)})
		}
	}
	return w.taggedAddresses(tagged)
}

func (w *oyl) SignPSBT(ctx context.Context, req model.SignRequest) ([]byte, bool, error) {
	var res struct {
		PSBT string `json:"psbt"`
	}
	params := oylSignPsbtParams{PSBT: hex.EncodeToString(req.PSBT), Finalize: true}
	if err := w.call(ctx, capabilitySignPSBT, "signPsbt", &res, params); err != nil {
		return nil, false, err
	}
	raw, err := decodeHex(w.kind, res.PSBT)
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (w *oyl) SignMessage(ctx context.Context, address, message string) (string, error) {
	var res struct {
		Signature string `json:"signature"`
	}
	if err := w.call(ctx, capabilitySignMessage, "signMessage", &res, oylSignMessageParams{Address: address, Message: message}); err != nil {
		return "", err
	}
	return res.Signature, nil
}
