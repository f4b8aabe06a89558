package signer

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
)

// Finalize fills the final witness or script of every signed input. Inputs that are already final
// are left untouched, so calling it twice is harmless.
func Finalize(packet *psbt.Packet) error {
	for i := range packet.Inputs {
		if isFinal(packet.Inputs[i]) {
			continue
		}
		if err := psbt.Finalize(packet, i); err != nil {
			return fmt.Errorf("finalize input %d: %w", i, err)
		}
	}
	return nil
}

func isFinal(in psbt.PInput) bool {
	return len(in.FinalScriptWitness) > 0 || len(in.FinalScriptSig) > 0
}

// Extract finalizes packet if needed and returns the network transaction.
func Extract(packet *psbt.Packet) (model.SignResult, error) {
	if err := Finalize(packet); err != nil {
		return model.SignResult{}, err
	}
	tx, err := psbt.Extract(packet)
	if err != nil {
		return model.SignResult{}, fmt.Errorf("extract transaction: %w", err)
	}

	var raw, serialized bytes.Buffer
	if err := tx.Serialize(&raw); err != nil {
		return model.SignResult{}, fmt.Errorf("serialize transaction: %w", err)
	}
	if err := packet.Serialize(&serialized); err != nil {
		return model.SignResult{}, fmt.Errorf("serialize psbt: %w", err)
	}
	return model.SignResult{
		PSBT:  serialized.Bytes(),
		RawTx: raw.Bytes(),
		TxID:  tx.TxHash().String(),
	}, nil
}

// parsePacket accepts a binary PSBT.
func parsePacket(b []byte) (*psbt.Packet, error) {
	packet, err := psbt.NewFromRawBytes(bytes.NewReader(b), false)
	if err != nil {
		return nil, fmt.Errorf("parse psbt: %w", err)
	}
	return packet, nil
}
