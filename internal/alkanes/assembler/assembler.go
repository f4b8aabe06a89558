// Package assembler turns an instruction chain, its requirements and a UTXO snapshot into a
// balanced transaction template.
package assembler

import (
	"fmt"

	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/bitcoin"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/coinselect"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/protostone"
	"github.com/goodnatureofminers/alkanes-txkit/pkg/safe"
)

// Request is everything needed to assemble one transaction.
type Request struct {
	Network      model.Network
	Chain        model.InstructionChain
	Requirements []model.InputRequirement
	// Outputs declares the value outputs; position i is vi.
	Outputs   []model.OutputSpec
	Available []model.Utxo
	// ChangeAddress receives base-currency change.
	ChangeAddress string
	// AssetChangeAddress receives leftover alkanes when no output is declared for them.
	AssetChangeAddress string
	// FeeRate is in sat/vB.
	FeeRate float64
	Options coinselect.Options
}

// Assemble validates the chain, selects inputs and lays out outputs as
// [declared outputs, asset change?, OP_RETURN, change?].
func Assemble(req Request) (model.TransactionPlan, error) {
	if req.FeeRate <= 0 {
		return model.TransactionPlan{}, fmt.Errorf("fee rate must be positive, got %v", req.FeeRate)
	}
	if err := protostone.Validate(req.Chain); err != nil {
		return model.TransactionPlan{}, err
	}
	res, err := coinselect.Resolve(req.Requirements)
	if err != nil {
		return model.TransactionPlan{}, err
	}

	outputs, err := declaredOutputs(req.Network, req.Outputs)
	if err != nil {
		return model.TransactionPlan{}, err
	}
	if err := checkValueReferences(req.Chain, len(outputs)); err != nil {
		return model.TransactionPlan{}, err
	}
	for idx, sats := range res.BaseSats {
		if int(idx) >= len(outputs) {
			return model.TransactionPlan{}, &model.UnresolvedReferenceError{
				Ref:    model.Output(idx),
				Reason: fmt.Sprintf("base requirement targets one of %d declared outputs", len(outputs)),
			}
		}
		if outputs[idx].ValueSats < sats {
			outputs[idx].ValueSats = sats
		}
	}

	assets, err := coinselect.SelectAssets(req.Available, res, req.Options)
	if err != nil {
		return model.TransactionPlan{}, err
	}
	if err := checkEdicts(req.Chain, assets, req.Available); err != nil {
		return model.TransactionPlan{}, err
	}

	assetChange := assetChangeIndex(outputs)
	if assetChange < 0 && assets.HasExcess() {
		out, err := newOutput(req.Network, model.OutputSpec{Role: model.RoleAssetChange, Address: req.AssetChangeAddress})
		if err != nil {
			return model.TransactionPlan{}, fmt.Errorf("asset change output: %w", err)
		}
		assetChange = len(outputs)
		outputs = append(outputs, out)
	}

	changeScript, _, err := bitcoin.AddressScript(req.Network, req.ChangeAddress)
	if err != nil {
		return model.TransactionPlan{}, fmt.Errorf("change output: %w", err)
	}

	runestones := make(map[bool][]byte, 2)
	for _, withChange := range []bool{false, true} {
		layout := protostone.Layout{OutputCount: len(outputs) + 1}
		if withChange {
			layout.OutputCount++
		}
		if assetChange >= 0 {
			p, err := safe.Uint32(assetChange)
			if err != nil {
				return model.TransactionPlan{}, err
			}
			layout.Pointer = &p
		}
		script, err := protostone.Encipher(req.Chain, layout)
		if err != nil {
			return model.TransactionPlan{}, err
		}
		runestones[withChange] = script
	}

	var target uint64
	for _, o := range outputs {
		target += o.ValueSats
	}
	est := coinselect.FeeEstimatorFunc(func(inputs []model.Utxo, withChange bool) uint64 {
		types := make([]model.AddressType, 0, len(inputs))
		for _, u := range inputs {
			types = append(types, u.AddressType)
		}
		scripts := make([][]byte, 0, len(outputs)+2)
		for _, o := range outputs {
			scripts = append(scripts, o.Script)
		}
		scripts = append(scripts, runestones[withChange])
		if withChange {
			scripts = append(scripts, changeScript)
		}
		return FeeForVSize(EstimateVSize(types, scripts), req.FeeRate)
	})
	sel, err := coinselect.SelectFee(req.Available, assets, target, est, req.Options)
	if err != nil {
		return model.TransactionPlan{}, err
	}
	if err := coinselect.CheckLock(sel, res); err != nil {
		return model.TransactionPlan{}, err
	}

	withChange := sel.Change > 0
	outputs = append(outputs, model.PlanOutput{Role: model.RoleRunestone, Script: runestones[withChange]})
	if withChange {
		outputs = append(outputs, model.PlanOutput{Role: model.RoleChange, Address: req.ChangeAddress, Script: changeScript, ValueSats: sel.Change})
	}

	plan := model.TransactionPlan{
		Network:            req.Network,
		Chain:              req.Chain,
		Requirements:       req.Requirements,
		Inputs:             sel.Inputs,
		Outputs:            outputs,
		ChangeAddress:      req.ChangeAddress,
		AssetChangeAddress: req.AssetChangeAddress,
		AssetChange:        assets.Excess,
		FeeRate:            req.FeeRate,
		Fee:                sel.Fee,
	}
	plan.VSize = PlanVSize(plan)
	if err := plan.CheckBalance(); err != nil {
		return model.TransactionPlan{}, err
	}
	return plan, nil
}

// PlanVSize estimates the virtual size of an assembled plan.
func PlanVSize(plan model.TransactionPlan) uint64 {
	types := make([]model.AddressType, 0, len(plan.Inputs))
	for _, in := range plan.Inputs {
		types = append(types, in.Utxo.AddressType)
	}
	scripts := make([][]byte, 0, len(plan.Outputs))
	for _, o := range plan.Outputs {
		scripts = append(scripts, o.Script)
	}
	return EstimateVSize(types, scripts)
}

func declaredOutputs(network model.Network, specs []model.OutputSpec) ([]model.PlanOutput, error) {
	outputs := make([]model.PlanOutput, 0, len(specs)+3)
	for i, spec := range specs {
		out, err := newOutput(network, spec)
		if err != nil {
			return nil, fmt.Errorf("output v%d: %w", i, err)
		}
		outputs = append(outputs, out)
	}
	return outputs, nil
}

func newOutput(network model.Network, spec model.OutputSpec) (model.PlanOutput, error) {
	if spec.Address == "" {
		return model.PlanOutput{}, fmt.Errorf("%s output has no address", spec.Role)
	}
	script, _, err := bitcoin.AddressScript(network, spec.Address)
	if err != nil {
		return model.PlanOutput{}, err
	}
	value := spec.ValueSats
	if value < coinselect.DefaultDust {
		value = coinselect.DefaultDust
	}
	return model.PlanOutput{Role: spec.Role, Address: spec.Address, Script: script, ValueSats: value}, nil
}

func checkValueReferences(chain model.InstructionChain, declared int) error {
	for _, in := range chain {
		for _, ref := range in.References() {
			if ref.Kind == model.RefOutput && int(ref.Index) >= declared {
				return &model.UnresolvedReferenceError{Ref: ref, Reason: fmt.Sprintf("only %d value outputs are declared", declared)}
			}
		}
	}
	return nil
}

// checkEdicts verifies edicted amounts per asset are covered by the selected inputs.
func checkEdicts(chain model.InstructionChain, assets coinselect.AssetSelection, available []model.Utxo) error {
	for asset, edicted := range chain.EdictTotals() {
		have := assets.Totals[asset]
		if !edicted.Gt(&have) {
			continue
		}
		var supply model.Amount
		for _, u := range available {
			bal := u.Balance(asset)
			supply.Add(&supply, &bal)
		}
		return model.NewInsufficientFunds(asset, edicted, supply)
	}
	return nil
}

func assetChangeIndex(outputs []model.PlanOutput) int {
	for i, o := range outputs {
		if o.Role == model.RoleAssetChange {
			return i
		}
	}
	return -1
}
