package model

// Network names a bitcoin network.
type Network string

var (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
	Signet  Network = "signet"
	Regtest Network = "regtest"
)

// AddressType classifies an output script.
type AddressType string

var (
	AddressUnknown    AddressType = ""
	AddressP2TR       AddressType = "p2tr"
	AddressP2WPKH     AddressType = "p2wpkh"
	AddressP2SHP2WPKH AddressType = "p2sh-p2wpkh"
	AddressP2SH       AddressType = "p2sh"
	AddressP2PKH      AddressType = "p2pkh"
	AddressOpReturn   AddressType = "op_return"
)
