package assembler

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
	"github.com/goodnatureofminers/alkanes-txkit/pkg/safe"
)

const (
	txVersion = 2
	// rbfSequence signals replaceability.
	rbfSequence = wire.MaxTxInSequenceNum - 2
)

// PrevTxs maps a txid to its raw transaction. Legacy inputs need the full previous transaction.
type PrevTxs map[string][]byte

// ToPSBT renders the plan as an unsigned PSBT with the metadata signers need.
func ToPSBT(plan model.TransactionPlan, prev PrevTxs) (*psbt.Packet, error) {
	outpoints := make([]*wire.OutPoint, 0, len(plan.Inputs))
	sequences := make([]uint32, 0, len(plan.Inputs))
	for _, in := range plan.Inputs {
		hash, err := chainhash.NewHashFromStr(in.Utxo.TxID)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", in.Utxo.Outpoint, err)
		}
		outpoints = append(outpoints, wire.NewOutPoint(hash, in.Utxo.Vout))
		sequences = append(sequences, rbfSequence)
	}
	txOuts := make([]*wire.TxOut, 0, len(plan.Outputs))
	for i, out := range plan.Outputs {
		value, err := safe.Int64(out.ValueSats)
		if err != nil {
			return nil, fmt.Errorf("output %d: %w", i, err)
		}
		txOuts = append(txOuts, wire.NewTxOut(value, out.Script))
	}

	packet, err := psbt.New(outpoints, txOuts, txVersion, 0, sequences)
	if err != nil {
		return nil, fmt.Errorf("create psbt: %w", err)
	}
	updater, err := psbt.NewUpdater(packet)
	if err != nil {
		return nil, fmt.Errorf("psbt updater: %w", err)
	}

	for i, in := range plan.Inputs {
		u := in.Utxo
		if u.AddressType == model.AddressP2PKH {
			raw, ok := prev[u.TxID]
			if !ok {
				return nil, fmt.Errorf("input %d (%s): legacy input needs its previous transaction", i, u.Outpoint)
			}
			var tx wire.MsgTx
			if err := tx.Deserialize(bytes.NewReader(raw)); err != nil {
				return nil, fmt.Errorf("input %d: decode previous transaction: %w", i, err)
			}
			if err := updater.AddInNonWitnessUtxo(&tx, i); err != nil {
				return nil, fmt.Errorf("input %d: %w", i, err)
			}
			continue
		}

		value, err := safe.Int64(u.ValueSats)
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		if err := updater.AddInWitnessUtxo(wire.NewTxOut(value, u.ScriptPubKey), i); err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		if len(u.PublicKey) == 0 {
			continue
		}
		switch u.AddressType {
		case model.AddressP2TR:
			xonly, err := xOnlyKey(u.PublicKey)
			if err != nil {
				return nil, fmt.Errorf("input %d: %w", i, err)
			}
			packet.Inputs[i].TaprootInternalKey = xonly
		case model.AddressP2SHP2WPKH:
			// 0014<hash160>: the nested witness program.
			redeem := append([]byte{0x00, 0x14}, btcutil.Hash160(u.PublicKey)...)
			if err := updater.AddInRedeemScript(redeem, i); err != nil {
				return nil, fmt.Errorf("input %d: %w", i, err)
			}
		}
	}
	return packet, nil
}

func xOnlyKey(pub []byte) ([]byte, error) {
	if len(pub) == schnorr.PubKeyBytesLen {
		if _, err := schnorr.ParsePubKey(pub); err != nil {
			return nil, fmt.Errorf("parse x-only key: %w", err)
		}
		return pub, nil
	}
	key, err := btcec.ParsePubKey(pub)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	return schnorr.SerializePubKey(key), nil
}

// NewSignRequest serializes the plan's PSBT and pairs each input with the address that must sign it.
func NewSignRequest(plan model.TransactionPlan, prev PrevTxs) (model.SignRequest, error) {
	packet, err := ToPSBT(plan, prev)
	if err != nil {
		return model.SignRequest{}, err
	}
	var buf bytes.Buffer
	if err := packet.Serialize(&buf); err != nil {
		return model.SignRequest{}, fmt.Errorf("serialize psbt: %w", err)
	}
	req := model.SignRequest{Network: plan.Network, PSBT: buf.Bytes()}
	for i, in := range plan.Inputs {
		req.Inputs = append(req.Inputs, model.SignInput{Index: i, Address: in.Utxo.Address, AddressType: in.Utxo.AddressType})
	}
	return req, nil
}

// LegacyInputs lists the txids whose full transactions ToPSBT needs.
func LegacyInputs(plan model.TransactionPlan) []string {
	var ids []string
	seen := make(map[string]struct{})
	for _, in := range plan.Inputs {
		if in.Utxo.AddressType != model.AddressP2PKH {
			continue
		}
		if _, ok := seen[in.Utxo.TxID]; ok {
			continue
		}
		seen[in.Utxo.TxID] = struct{}{}
		ids = append(ids, in.Utxo.TxID)
	}
	return ids
}

// DecodePrevTx is a helper for callers holding hex transactions.
func DecodePrevTx(prev PrevTxs, txid, rawHex string) error {
	raw, err := hex.DecodeString(rawHex)
	if err != nil {
		return fmt.Errorf("decode %s: %w", txid, err)
	}
	prev[txid] = raw
	return nil
}
