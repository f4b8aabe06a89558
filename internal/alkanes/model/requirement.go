package model

// InputRequirement asks for at least Amount of Asset (or Sats of the base currency) to be spent.
type InputRequirement struct {
	Asset  AssetID
	Amount Amount
	Sats   uint64
	// Target is the output the value must ultimately reach; nil means default routing.
	Target *AddressReference
}

// AssetRequirement spends at least amount of asset.
func AssetRequirement(asset AssetID, amount Amount) InputRequirement {
	return InputRequirement{Asset: asset, Amount: amount}
}

// BaseRequirement spends at least sats of the base currency into target.
func BaseRequirement(sats uint64, target AddressReference) InputRequirement {
	return InputRequirement{Asset: BaseAsset, Sats: sats, Target: &target}
}

// IsBase reports whether the requirement is denominated in the base currency.
func (r InputRequirement) IsBase() bool {
	return r.Asset.IsBase()
}
