// Package bitcoin holds chain parameters, script helpers and the bitcoind node client.
package bitcoin

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
	"github.com/goodnatureofminers/alkanes-txkit/pkg/safe"
)

// ChainParams returns the btcd parameters of network.
func ChainParams(network model.Network) (*chaincfg.Params, error) {
	switch strings.ToLower(string(network)) {
	case "main", "mainnet", "bitcoin":
		return &chaincfg.MainNetParams, nil
	case "testnet", "testnet3":
		return &chaincfg.TestNet3Params, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	case "signet":
		return &chaincfg.SigNetParams, nil
	default:
		return nil, fmt.Errorf("unsupported network %q", network)
	}
}

// AddressScript decodes address for network and returns its output script and type.
func AddressScript(network model.Network, address string) ([]byte, model.AddressType, error) {
	params, err := ChainParams(network)
	if err != nil {
		return nil, model.AddressUnknown, err
	}
	addr, err := btcutil.DecodeAddress(address, params)
	if err != nil {
		return nil, model.AddressUnknown, fmt.Errorf("decode address %q: %w", address, err)
	}
	if !addr.IsForNet(params) {
		return nil, model.AddressUnknown, fmt.Errorf("address %q is not for %s", address, network)
	}
	script, err := txscript.PayToAddrScript(addr)
	if err != nil {
		return nil, model.AddressUnknown, fmt.Errorf("script for %q: %w", address, err)
	}
	return script, ClassifyScript(script), nil
}

// ScriptAddress renders script as an address of network, or "" for non-standard scripts.
func ScriptAddress(network model.Network, script []byte) (string, error) {
	params, err := ChainParams(network)
	if err != nil {
		return "", err
	}
	_, addrs, _, err := txscript.ExtractPkScriptAddrs(script, params)
	if err != nil {
		return "", err
	}
	if len(addrs) != 1 {
		return "", nil
	}
	return addrs[0].EncodeAddress(), nil
}

// ClassifyScript maps an output script to the address types the fee model knows.
func ClassifyScript(script []byte) model.AddressType {
	switch txscript.GetScriptClass(script) {
	case txscript.WitnessV1TaprootTy:
		return model.AddressP2TR
	case txscript.WitnessV0PubKeyHashTy:
		return model.AddressP2WPKH
	case txscript.ScriptHashTy:
		return model.AddressP2SH
	case txscript.PubKeyHashTy:
		return model.AddressP2PKH
	case txscript.NullDataTy:
		return model.AddressOpReturn
	}
	if len(script) > 0 && script[0] == txscript.OP_RETURN {
		return model.AddressOpReturn
	}
	return model.AddressUnknown
}

// BtcToSatoshis converts BTC amount to satoshis with overflow checks.
func BtcToSatoshis(value float64) (uint64, error) {
	amt, err := btcutil.NewAmount(value)
	if err != nil {
		return 0, err
	}
	if amt < 0 {
		return 0, fmt.Errorf("negative amount: %d", amt)
	}
	return safe.Uint64(int64(amt))
}
