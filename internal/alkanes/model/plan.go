package model

import "fmt"

// OutputRole describes why an output exists in a plan.
type OutputRole string

var (
	RoleRecipient   OutputRole = "recipient"
	RoleAssetChange OutputRole = "asset_change"
	RoleSigner      OutputRole = "signer"
	RoleRefund      OutputRole = "refund"
	RoleRunestone   OutputRole = "runestone"
	RoleChange      OutputRole = "change"
)

// OutputSpec declares a value output before assembly; its position is its vN index.
type OutputSpec struct {
	Role      OutputRole
	Address   string
	ValueSats uint64
}

// PlanInput pairs a selected UTXO with the purpose it was selected for.
type PlanInput struct {
	Utxo Utxo
	// ForAssets is set when the input was selected to satisfy an asset requirement.
	ForAssets bool
}

// PlanOutput is a concrete output of the assembled template.
type PlanOutput struct {
	Role      OutputRole
	Address   string
	Script    []byte
	ValueSats uint64
}

// TransactionPlan is an assembled, unsigned transaction template.
type TransactionPlan struct {
	Network            Network
	Chain              InstructionChain
	Requirements       []InputRequirement
	Inputs             []PlanInput
	Outputs            []PlanOutput
	ChangeAddress      string
	AssetChangeAddress string
	AssetChange        map[AssetID]Amount
	FeeRate            float64
	VSize              uint64
	Fee                uint64
}

// InputSats sums input values.
func (p TransactionPlan) InputSats() uint64 {
	var total uint64
	for _, in := range p.Inputs {
		total += in.Utxo.ValueSats
	}
	return total
}

// OutputSats sums output values.
func (p TransactionPlan) OutputSats() uint64 {
	var total uint64
	for _, out := range p.Outputs {
		total += out.ValueSats
	}
	return total
}

// CheckBalance verifies sum(inputs) == sum(outputs) + fee.
func (p TransactionPlan) CheckBalance() error {
	in, out := p.InputSats(), p.OutputSats()
	if in < out {
		return fmt.Errorf("plan spends %d sats from %d sats of inputs", out, in)
	}
	if in != out+p.Fee {
		return fmt.Errorf("plan unbalanced: inputs %d != outputs %d + fee %d", in, out, p.Fee)
	}
	return nil
}

// SignRequest carries a serialized PSBT and what the signer needs to know about each input.
type SignRequest struct {
	Network Network
	PSBT    []byte
	Inputs  []SignInput
}

// SignInput names the address whose key must sign input Index.
type SignInput struct {
	Index       int
	Address     string
	AddressType AddressType
}

// SignResult is a fully signed, finalized transaction.
type SignResult struct {
	PSBT  []byte
	RawTx []byte
	TxID  string
}
