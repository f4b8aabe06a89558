package coinselect

import (
	"sort"

	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
)

// DefaultDust is the smallest change output worth creating.
const DefaultDust = 546

// FeeEstimator returns the fee for a transaction spending inputs, with or without a
// base-currency change output.
type FeeEstimator interface {
	EstimateFee(inputs []model.Utxo, withChange bool) uint64
}

// FeeEstimatorFunc adapts a function to FeeEstimator.
type FeeEstimatorFunc func(inputs []model.Utxo, withChange bool) uint64

// EstimateFee calls f.
func (f FeeEstimatorFunc) EstimateFee(inputs []model.Utxo, withChange bool) uint64 {
	return f(inputs, withChange)
}

// Options tune selection.
type Options struct {
	// Preferred outpoints are spent before any other candidate.
	Preferred []model.Outpoint
	// Dust is the change threshold; zero means DefaultDust.
	Dust uint64
}

func (o Options) dust() uint64 {
	if o.Dust == 0 {
		return DefaultDust
	}
	return o.Dust
}

func (o Options) preferred() map[model.Outpoint]struct{} {
	set := make(map[model.Outpoint]struct{}, len(o.Preferred))
	for _, op := range o.Preferred {
		set[op] = struct{}{}
	}
	return set
}

// AssetSelection is the outcome of the asset phase.
type AssetSelection struct {
	Inputs []model.Utxo
	// Totals is every asset balance carried by Inputs.
	Totals map[model.AssetID]model.Amount
	// Excess is what remains after requirements and must go to asset change.
	Excess map[model.AssetID]model.Amount
}

// Sats sums the base currency carried by the selected asset inputs.
func (s AssetSelection) Sats() uint64 {
	var total uint64
	for _, u := range s.Inputs {
		total += u.ValueSats
	}
	return total
}

// HasExcess reports whether any asset change is left over.
func (s AssetSelection) HasExcess() bool {
	for _, v := range s.Excess {
		if !v.IsZero() {
			return true
		}
	}
	return false
}

// SelectAssets covers every asset need from asset-bearing outputs. For each asset it takes the
// smallest single output that covers the remainder when one exists, and otherwise the largest
// output, repeating until the need is met.
func SelectAssets(available []model.Utxo, res Resolution, opts Options) (AssetSelection, error) {
	sel := AssetSelection{
		Totals: make(map[model.AssetID]model.Amount),
		Excess: make(map[model.AssetID]model.Amount),
	}
	taken := make(map[model.Outpoint]struct{})
	add := func(u model.Utxo) {
		taken[u.Outpoint] = struct{}{}
		sel.Inputs = append(sel.Inputs, u)
		for asset, v := range u.AssetBalances {
			sum := sel.Totals[asset]
			sum.Add(&sum, &v)
			sel.Totals[asset] = sum
		}
	}

	preferred := opts.preferred()
	for _, u := range available {
		if _, ok := preferred[u.Outpoint]; !ok || u.IsClean() {
			continue
		}
		for _, asset := range u.Assets() {
			if !res.Needs(asset) {
				return AssetSelection{}, &model.LockViolationError{Outpoint: u.Outpoint, Assets: u.Assets()}
			}
		}
		add(u)
	}

	for _, need := range res.Assets {
		have := sel.Totals[need.Asset]
		var candidates []model.Utxo
		var supply model.Amount
		for _, u := range available {
			bal := u.Balance(need.Asset)
			if bal.IsZero() {
				continue
			}
			supply.Add(&supply, &bal)
			if _, ok := taken[u.Outpoint]; !ok {
				candidates = append(candidates, u)
			}
		}
		sortByBalance(candidates, need.Asset)

		for have.Lt(&need.Amount) {
			if len(candidates) == 0 {
				return AssetSelection{}, model.NewInsufficientFunds(need.Asset, need.Amount, supply)
			}
			var missing model.Amount
			missing.Sub(&need.Amount, &have)
			pick := pickCovering(candidates, need.Asset, missing)
			u := candidates[pick]
			candidates = append(candidates[:pick], candidates[pick+1:]...)
			add(u)
			have = sel.Totals[need.Asset]
		}
	}

	for asset, total := range sel.Totals {
		required := res.Required(asset)
		if total.Gt(&required) {
			var excess model.Amount
			excess.Sub(&total, &required)
			sel.Excess[asset] = excess
		}
	}
	return sel, nil
}

// sortByBalance orders candidates by descending balance of asset, then by outpoint.
func sortByBalance(utxos []model.Utxo, asset model.AssetID) {
	sort.SliceStable(utxos, func(i, j int) bool {
		bi, bj := utxos[i].Balance(asset), utxos[j].Balance(asset)
		if c := bi.Cmp(&bj); c != 0 {
			return c > 0
		}
		return utxos[i].Outpoint.String() < utxos[j].Outpoint.String()
	})
}

// pickCovering returns the index of the smallest candidate covering missing, or 0 (the largest).
func pickCovering(sorted []model.Utxo, asset model.AssetID, missing model.Amount) int {
	pick := 0
	for i := range sorted {
		bal := sorted[i].Balance(asset)
		if bal.Lt(&missing) {
			break
		}
		pick = i
	}
	return pick
}

// Selection is a complete input set for a transaction.
type Selection struct {
	Inputs []model.PlanInput
	Assets AssetSelection
	// Target is the output value the inputs fund, excluding change.
	Target uint64
	Fee    uint64
	// Change is zero when the remainder was below dust and was left to the fee.
	Change uint64
}

// InputSats sums the selected input values.
func (s Selection) InputSats() uint64 {
	var total uint64
	for _, in := range s.Inputs {
		total += in.Utxo.ValueSats
	}
	return total
}

// SelectFee adds clean outputs, largest first and preferred ones before others, until the
// inputs cover target plus the estimated fee. Asset-bearing outputs are never added here.
func SelectFee(available []model.Utxo, assets AssetSelection, target uint64, est FeeEstimator, opts Options) (Selection, error) {
	taken := make(map[model.Outpoint]struct{}, len(assets.Inputs))
	inputs := make([]model.Utxo, 0, len(assets.Inputs)+1)
	for _, u := range assets.Inputs {
		taken[u.Outpoint] = struct{}{}
		inputs = append(inputs, u)
	}

	var (
		clean  []model.Utxo
		locked uint64
	)
	for _, u := range available {
		if _, ok := taken[u.Outpoint]; ok {
			continue
		}
		if !u.IsClean() {
			locked += u.ValueSats
			continue
		}
		clean = append(clean, u)
	}
	preferred := opts.preferred()
	sort.SliceStable(clean, func(i, j int) bool {
		_, pi := preferred[clean[i].Outpoint]
		_, pj := preferred[clean[j].Outpoint]
		if pi != pj {
			return pi
		}
		if clean[i].ValueSats != clean[j].ValueSats {
			return clean[i].ValueSats > clean[j].ValueSats
		}
		return clean[i].Outpoint.String() < clean[j].Outpoint.String()
	})

	dust := opts.dust()
	total := assets.Sats()
	for {
		fee := est.EstimateFee(inputs, false)
		if len(inputs) > 0 && total >= target+fee {
			sel := Selection{Assets: assets, Target: target, Fee: total - target}
			if feeChange := est.EstimateFee(inputs, true); total >= target+feeChange+dust {
				sel.Fee = feeChange
				sel.Change = total - target - feeChange
			}
			for i, u := range inputs {
				sel.Inputs = append(sel.Inputs, model.PlanInput{Utxo: u, ForAssets: i < len(assets.Inputs)})
			}
			return sel, nil
		}
		if len(clean) == 0 {
			e := model.NewInsufficientFunds(model.BaseAsset, model.Units(target+fee), model.Units(total))
			e.LockedSats = locked
			return Selection{}, e
		}
		inputs = append(inputs, clean[0])
		total += clean[0].ValueSats
		clean = clean[1:]
	}
}

// Select resolves requirements, then covers assets and fees. outputSats is the value of outputs
// not already funded by base requirements.
func Select(available []model.Utxo, reqs []model.InputRequirement, outputSats uint64, est FeeEstimator, opts Options) (Selection, error) {
	res, err := Resolve(reqs)
	if err != nil {
		return Selection{}, err
	}
	assets, err := SelectAssets(available, res, opts)
	if err != nil {
		return Selection{}, err
	}
	sel, err := SelectFee(available, assets, outputSats+res.TotalBaseSats(), est, opts)
	if err != nil {
		return Selection{}, err
	}
	return sel, CheckLock(sel, res)
}

// CheckLock verifies that every asset-bearing input was selected for a required asset.
func CheckLock(sel Selection, res Resolution) error {
	for _, in := range sel.Inputs {
		if in.Utxo.IsClean() {
			continue
		}
		assets := in.Utxo.Assets()
		needed := false
		for _, a := range assets {
			if res.Needs(a) {
				needed = true
				break
			}
		}
		if !in.ForAssets || !needed {
			return &model.LockViolationError{Outpoint: in.Utxo.Outpoint, Assets: assets}
		}
	}
	return nil
}
