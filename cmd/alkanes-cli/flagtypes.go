package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
)

// assetFlag accepts block:tx, or the names frbtc and diesel.
type assetFlag model.AssetID

func (f *assetFlag) UnmarshalFlag(value string) error {
	switch strings.ToLower(value) {
	case "frbtc":
		*f = assetFlag(model.FrBTC)
		return nil
	case "diesel":
		*f = assetFlag(model.Diesel)
		return nil
	}
	id, err := model.ParseAssetID(value)
	if err != nil {
		return err
	}
	*f = assetFlag(id)
	return nil
}

func (f assetFlag) id() model.AssetID {
	return model.AssetID(f)
}

// optionalAsset returns nil for an unset flag.
func optionalAsset(f *assetFlag) *model.AssetID {
	if f == nil {
		return nil
	}
	id := f.id()
	return &id
}

type amountFlag struct {
	model.Amount
}

func (f *amountFlag) UnmarshalFlag(value string) error {
	amount, err := model.ParseAmount(value)
	if err != nil {
		return err
	}
	f.Amount = amount
	return nil
}

// outpointFlag accepts txid:vout.
type outpointFlag model.Outpoint

func (f *outpointFlag) UnmarshalFlag(value string) error {
	txid, vout, ok := strings.Cut(value, ":")
	if !ok || len(txid) != 64 {
		return fmt.Errorf("outpoint %q: want txid:vout", value)
	}
	n, err := strconv.ParseUint(vout, 10, 32)
	if err != nil {
		return fmt.Errorf("outpoint %q: vout: %w", value, err)
	}
	*f = outpointFlag(model.Outpoint{TxID: strings.ToLower(txid), Vout: uint32(n)})
	return nil
}

func outpoints(flags []outpointFlag) []model.Outpoint {
	if len(flags) == 0 {
		return nil
	}
	out := make([]model.Outpoint, 0, len(flags))
	for _, f := range flags {
		out = append(out, model.Outpoint(f))
	}
	return out
}
