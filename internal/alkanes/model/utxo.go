package model

import (
	"fmt"
	"sort"
)

// Outpoint references a transaction output.
type Outpoint struct {
	TxID string
	Vout uint32
}

func (o Outpoint) String() string {
	return fmt.Sprintf("%s:%d", o.TxID, o.Vout)
}

// Utxo is a snapshot of a spendable output and the alkanes it carries.
type Utxo struct {
	Outpoint
	ValueSats     uint64
	ScriptPubKey  []byte
	Address       string
	AddressType   AddressType
	PublicKey     []byte
	Height        uint64
	AssetBalances map[AssetID]Amount
}

// IsClean reports whether the output carries no asset balance.
func (u Utxo) IsClean() bool {
	for _, v := range u.AssetBalances {
		if !v.IsZero() {
			return false
		}
	}
	return true
}

// Balance returns the amount of asset held by the output.
func (u Utxo) Balance(asset AssetID) Amount {
	return u.AssetBalances[asset]
}

// Assets lists the assets with a non-zero balance, ordered by id.
func (u Utxo) Assets() []AssetID {
	out := make([]AssetID, 0, len(u.AssetBalances))
	for id, v := range u.AssetBalances {
		if !v.IsZero() {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Block != out[j].Block {
			return out[i].Block < out[j].Block
		}
		return out[i].Tx < out[j].Tx
	})
	return out
}
