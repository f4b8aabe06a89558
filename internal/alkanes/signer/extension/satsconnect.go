package extension

import (
	"context"
	"encoding/base64"

	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
)

// satsConnect covers wallets behind the request(method, params) API: accounts are tagged by
// purpose, PSBTs travel as base64 and come back unfinalized.
type satsConnect struct {
	provider
	signs bool
}

type satsGetAccountsParams struct {
	Purposes []string `json:"purposes"`
	Message  string   `json:"message,omitempty"`
}

type satsSignPsbtParams struct {
	PSBT       string           `json:"psbt"`
	SignInputs map[string][]int `json:"signInputs"`
	Broadcast  bool             `json:"broadcast"`
}

type satsSignMessageParams struct {
	Address string `json:"address"`
	Message string `json:"message"`
}

type satsResponse[T any] struct {
	Result T `json:"result"`
}

func (w *satsConnect) Connect(ctx context.Context) (model.Addresses, error) {
	var res satsResponse[[]taggedAddress]
	params := satsGetAccountsParams{
		Purposes: []string{string(model.PurposePayment), string(model.PurposeOrdinals)},
		Message:  "Connect to alkanes",
	}
	if err := w.call(ctx, "connect", "request", &res, "getAccounts", params); err != nil {
		return model.Addresses{}, err
	}
	return w.taggedAddresses(res.Result)
}

func (w *satsConnect) SignPSBT(ctx context.Context, req model.SignRequest) ([]byte, bool, error) {
	if !w.signs {
		return nil, false, w.unsupported(capabilitySignPSBT)
	}
	_, byAddr := inputsByAddress(req)
	params := satsSignPsbtParams{
		PSBT:       base64.StdEncoding.EncodeToString(req.PSBT),
		SignInputs: byAddr,
	}
	var res satsResponse[struct {
		PSBT string `json:"psbt"`
	}]
	if err := w.call(ctx, capabilitySignPSBT, "request", &res, "signPsbt", params); err != nil {
		return nil, false, err
	}
	raw, err := decodeBase64(w.kind, res.Result.PSBT)
	if err != nil {
		return nil, false, err
	}
	return raw, false, nil
}

func (w *satsConnect) SignMessage(ctx context.Context, address, message string) (string, error) {
	var res satsResponse[struct {
		Signature string `json:"signature"`
	}]
	params := satsSignMessageParams{Address: address, Message: message}
	if err := w.call(ctx, capabilitySignMessage, "request", &res, "signMessage", params); err != nil {
		return "", err
	}
	return res.Result.Signature, nil
}
