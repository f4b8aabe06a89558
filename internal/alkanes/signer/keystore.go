package signer

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/bitcoin"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
	"github.com/tyler-smith/go-bip39"
)

const (
	purposeTaproot = 86
	purposeSegwit  = 84

	signedMessageMagic = "Bitcoin Signed Message:\n"
)

// ErrInvalidMnemonic is returned for a mnemonic that fails the BIP39 checksum.
var ErrInvalidMnemonic = errors.New("invalid mnemonic")

type keystoreKey struct {
	priv     *btcec.PrivateKey
	address  string
	script   []byte
	addrType model.AddressType
}

// Keystore signs locally with keys derived from a BIP39 mnemonic: the first BIP86 taproot key
// and the first BIP84 segwit key of account 0.
type Keystore struct {
	taproot keystoreKey
	segwit  keystoreKey
}

func NewKeystore(mnemonic, passphrase string, network model.Network) (*Keystore, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	params, err := bitcoin.ChainParams(network)
	if err != nil {
		return nil, err
	}
	master, err := hdkeychain.NewMaster(bip39.NewSeed(mnemonic, passphrase), params)
	if err != nil {
		return nil, fmt.Errorf("master key: %w", err)
	}
	coin := uint32(1)
	if network == model.Mainnet {
		coin = 0
	}

	taprootPriv, err := deriveKey(master, purposeTaproot, coin)
	if err != nil {
		return nil, err
	}
	outputKey := txscript.ComputeTaprootKeyNoScript(taprootPriv.PubKey())
	taprootAddr, err := btcutil.NewAddressTaproot(schnorr.SerializePubKey(outputKey), params)
	if err != nil {
		return nil, fmt.Errorf("taproot address: %w", err)
	}

	segwitPriv, err := deriveKey(master, purposeSegwit, coin)
	if err != nil {
		return nil, err
	}
	segwitAddr, err := btcutil.NewAddressWitnessPubKeyHash(btcutil.Hash160(segwitPriv.PubKey().SerializeCompressed()), params)
	if err != nil {
		return nil, fmt.Errorf("segwit address: %w", err)
	}

	ks := &Keystore{}
	ks.taproot, err = newKeystoreKey(taprootPriv, taprootAddr, model.AddressP2TR)
	if err != nil {
		return nil, err
	}
	ks.segwit, err = newKeystoreKey(segwitPriv, segwitAddr, model.AddressP2WPKH)
	if err != nil {
		return nil, err
	}
	return ks, nil
}

// NewMnemonic returns a fresh 12-word mnemonic.
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(128)
	if err != nil {
		return "", fmt.Errorf("entropy: %w", err)
	}
	return bip39.NewMnemonic(entropy)
}

func newKeystoreKey(priv *btcec.PrivateKey, addr btcutil.Address, addrType model.AddressType) (keystoreKey, error) {
	script, err := txscript.PayToAddrScript(addr)
	if err != nil {
		return keystoreKey{}, fmt.Errorf("script for %s: %w", addr, err)
	}
	return keystoreKey{priv: priv, address: addr.EncodeAddress(), script: script, addrType: addrType}, nil
}

// deriveKey walks m/purpose'/coin'/0'/0/0.
func deriveKey(master *hdkeychain.ExtendedKey, purpose, coin uint32) (*btcec.PrivateKey, error) {
	path := []uint32{
		hdkeychain.HardenedKeyStart + purpose,
		hdkeychain.HardenedKeyStart + coin,
		hdkeychain.HardenedKeyStart,
		0,
		0,
	}
	key := master
	for _, idx := range path {
		var err error
		if key, err = key.Derive(idx); err != nil {
			return nil, fmt.Errorf("derive m/%d'/%d'/0'/0/0: %w", purpose, coin, err)
		}
	}
	priv, err := key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("private key: %w", err)
	}
	return priv, nil
}

func (k *Keystore) Name() string {
	return "keystore"
}

// Connect returns both derived addresses; the keystore is always in dual-address mode.
func (k *Keystore) Connect(context.Context) (model.Addresses, error) {
	return model.Addresses{
		Taproot: &model.WalletAddress{
			Address:   k.taproot.address,
			PublicKey: hex.EncodeToString(schnorr.SerializePubKey(k.taproot.priv.PubKey())),
			Type:      model.AddressP2TR,
			Purpose:   model.PurposeOrdinals,
		},
		Payment: &model.WalletAddress{
			Address:   k.segwit.address,
			PublicKey: hex.EncodeToString(k.segwit.priv.PubKey().SerializeCompressed()),
			Type:      model.AddressP2WPKH,
			Purpose:   model.PurposePayment,
		},
	}, nil
}

// SignPSBT signs every input paying to one of the keystore's addresses and finalizes the packet.
func (k *Keystore) SignPSBT(_ context.Context, req model.SignRequest) ([]byte, bool, error) {
	packet, err := parsePacket(req.PSBT)
	if err != nil {
		return nil, false, err
	}
	tx := packet.UnsignedTx

	fetcher := txscript.NewMultiPrevOutFetcher(nil)
	prevOuts := make([]*wire.TxOut, len(tx.TxIn))
	for i, in := range packet.Inputs {
		prevOut, err := spentOutput(in, tx.TxIn[i].PreviousOutPoint)
		if err != nil {
			return nil, false, fmt.Errorf("input %d: %w", i, err)
		}
		prevOuts[i] = prevOut
		fetcher.AddPrevOut(tx.TxIn[i].PreviousOutPoint, prevOut)
	}
	sigHashes := txscript.NewTxSigHashes(tx, fetcher)

	updater, err := psbt.NewUpdater(packet)
	if err != nil {
		return nil, false, fmt.Errorf("psbt updater: %w", err)
	}
	for i, prevOut := range prevOuts {
		if isFinal(packet.Inputs[i]) {
			continue
		}
		switch {
		case bytes.Equal(prevOut.PkScript, k.taproot.script):
			sig, err := txscript.RawTxInTaprootSignature(tx, sigHashes, i, prevOut.Value, prevOut.PkScript, nil, txscript.SigHashDefault, k.taproot.priv)
			if err != nil {
				return nil, false, fmt.Errorf("sign input %d: %w", i, err)
			}
			packet.Inputs[i].TaprootKeySpendSig = sig
		case bytes.Equal(prevOut.PkScript, k.segwit.script):
			sig, err := txscript.RawTxInWitnessSignature(tx, sigHashes, i, prevOut.Value, prevOut.PkScript, txscript.SigHashAll, k.segwit.priv)
			if err != nil {
				return nil, false, fmt.Errorf("sign input %d: %w", i, err)
			}
			outcome, err := updater.Sign(i, sig, k.segwit.priv.PubKey().SerializeCompressed(), nil, nil)
			if err != nil {
				return nil, false, fmt.Errorf("sign input %d: %w", i, err)
			}
			if outcome != psbt.SignSuccesful {
				return nil, false, fmt.Errorf("sign input %d: outcome %d", i, outcome)
			}
		default:
			return nil, false, fmt.Errorf("input %d pays to a script the keystore does not own", i)
		}
	}

	if err := Finalize(packet); err != nil {
		return nil, false, err
	}
	var buf bytes.Buffer
	if err := packet.Serialize(&buf); err != nil {
		return nil, false, fmt.Errorf("serialize psbt: %w", err)
	}
	return buf.Bytes(), true, nil
}

func spentOutput(in psbt.PInput, op wire.OutPoint) (*wire.TxOut, error) {
	switch {
	case in.WitnessUtxo != nil:
		return in.WitnessUtxo, nil
	case in.NonWitnessUtxo != nil:
		if int(op.Index) >= len(in.NonWitnessUtxo.TxOut) {
			return nil, fmt.Errorf("previous transaction has no output %d", op.Index)
		}
		return in.NonWitnessUtxo.TxOut[op.Index], nil
	default:
		return nil, errors.New("missing previous output")
	}
}

// SignMessage returns a base64 compact signature in the Bitcoin Signed Message format.
func (k *Keystore) SignMessage(_ context.Context, address, message string) (string, error) {
	var priv *btcec.PrivateKey
	switch address {
	case k.taproot.address:
		priv = k.taproot.priv
	case k.segwit.address:
		priv = k.segwit.priv
	default:
		return "", fmt.Errorf("address %s is not in the keystore", address)
	}
	hash, err := signedMessageHash(message)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(ecdsa.SignCompact(priv, hash, true)), nil
}

// VerifyMessage checks a compact signature against the public key it recovers.
func VerifyMessage(pubKey []byte, message, signature string) (bool, error) {
	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false, fmt.Errorf("decode signature: %w", err)
	}
	hash, err := signedMessageHash(message)
	if err != nil {
		return false, err
	}
	recovered, _, err := ecdsa.RecoverCompact(sig, hash)
	if err != nil {
		return false, fmt.Errorf("recover key: %w", err)
	}
	return bytes.Equal(recovered.SerializeCompressed(), pubKey), nil
}

func signedMessageHash(message string) ([]byte, error) {
	var buf bytes.Buffer
	if err := wire.WriteVarString(&buf, 0, signedMessageMagic); err != nil {
		return nil, err
	}
	if err := wire.WriteVarString(&buf, 0, message); err != nil {
		return nil, err
	}
	return chainhash.DoubleHashB(buf.Bytes()), nil
}
