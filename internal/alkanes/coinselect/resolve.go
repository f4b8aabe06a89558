// Package coinselect turns input requirements into a concrete set of UTXOs without ever
// spending an alkane-bearing output purely for fees.
package coinselect

import (
	"fmt"

	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
)

// AssetNeed is the summed requirement for one asset.
type AssetNeed struct {
	Asset  model.AssetID
	Amount model.Amount
}

// Resolution is the normalized form of a requirement list.
type Resolution struct {
	// Assets holds one entry per distinct asset, in first-seen order.
	Assets []AssetNeed
	// BaseSats maps a value output index to the sats it must receive.
	BaseSats map[uint32]uint64
}

// Resolve sums requirements per asset and totals base-currency requirements per target output.
// Untargeted base requirements fund v0.
func Resolve(reqs []model.InputRequirement) (Resolution, error) {
	res := Resolution{BaseSats: make(map[uint32]uint64)}
	index := make(map[model.AssetID]int)

	for _, r := range reqs {
		if r.IsBase() {
			target := model.Output(0)
			if r.Target != nil {
				target = *r.Target
			}
			if target.Kind != model.RefOutput {
				return Resolution{}, &model.UnresolvedReferenceError{Ref: target, Reason: "base requirements must target a value output"}
			}
			sum := res.BaseSats[target.Index] + r.Sats
			if sum < r.Sats {
				return Resolution{}, fmt.Errorf("base requirement for %s overflows", target)
			}
			res.BaseSats[target.Index] = sum
			continue
		}

		i, ok := index[r.Asset]
		if !ok {
			index[r.Asset] = len(res.Assets)
			res.Assets = append(res.Assets, AssetNeed{Asset: r.Asset, Amount: r.Amount})
			continue
		}
		need := &res.Assets[i]
		need.Amount.Add(&need.Amount, &r.Amount)
		if need.Amount.BitLen() > model.MaxAmountBits {
			return Resolution{}, fmt.Errorf("requirement for %s exceeds 128 bits", r.Asset)
		}
	}
	return res, nil
}

// Needs reports whether the resolution requires a positive amount of asset.
func (r Resolution) Needs(asset model.AssetID) bool {
	for _, n := range r.Assets {
		if n.Asset == asset {
			return !n.Amount.IsZero()
		}
	}
	return false
}

// Required returns the summed amount for asset.
func (r Resolution) Required(asset model.AssetID) model.Amount {
	for _, n := range r.Assets {
		if n.Asset == asset {
			return n.Amount
		}
	}
	return model.Amount{}
}

// TotalBaseSats sums the base-currency requirements over all targets.
func (r Resolution) TotalBaseSats() uint64 {
	var total uint64
	for _, sats := range r.BaseSats {
		total += sats
	}
	return total
}
