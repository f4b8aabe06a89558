package sandshrew

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
	"github.com/holiman/uint256"
)

// flexUint accepts a JSON number or a decimal string.
type flexUint uint64

func (f *flexUint) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("parse integer %s: %w", b, err)
	}
	*f = flexUint(v)
	return nil
}

// flexAmount accepts a JSON number, a decimal string or a 0x hex string no wider than 128 bits.
type flexAmount struct {
	uint256.Int
}

func (a *flexAmount) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	a.Clear()
	switch {
	case s == "" || s == "null":
		return nil
	case strings.HasPrefix(s, "0x"):
		digits := strings.TrimLeft(s[2:], "0")
		if digits == "" {
			return nil
		}
		if err := a.SetFromHex("0x" + digits); err != nil {
			return fmt.Errorf("parse amount %s: %w", b, err)
		}
	default:
		if err := a.SetFromDecimal(s); err != nil {
			return fmt.Errorf("parse amount %s: %w", b, err)
		}
	}
	if a.BitLen() > 128 {
		return fmt.Errorf("amount %s exceeds 128 bits", b)
	}
	return nil
}

// hexBytes decodes an optionally 0x-prefixed hex string.
type hexBytes []byte

func (h *hexBytes) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		if string(b) == "null" {
			*h = nil
			return nil
		}
		return err
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return fmt.Errorf("decode hex: %w", err)
	}
	*h = raw
	return nil
}

type rpcAlkaneID struct {
	Block flexUint `json:"block"`
	Tx    flexUint `json:"tx"`
}

func (id rpcAlkaneID) model() model.AssetID {
	return model.AssetID{Block: uint64(id.Block), Tx: uint64(id.Tx)}
}

// rpcBalance covers both balance shapes the indexer returns: flat {block, tx, amount} and nested
// {id|alkane_id, value}.
type rpcBalance struct {
	Block    flexUint     `json:"block"`
	Tx       flexUint     `json:"tx"`
	Amount   flexAmount   `json:"amount"`
	ID       *rpcAlkaneID `json:"id"`
	AlkaneID *rpcAlkaneID `json:"alkane_id"`
	Value    *flexAmount  `json:"value"`
}

func (b rpcBalance) model() (model.AssetID, model.Amount) {
	id := model.AssetID{Block: uint64(b.Block), Tx: uint64(b.Tx)}
	switch {
	case b.ID != nil:
		id = b.ID.model()
	case b.AlkaneID != nil:
		id = b.AlkaneID.model()
	}
	amount := b.Amount.Int
	if b.Value != nil {
		amount = b.Value.Int
	}
	return id, amount
}

type rpcBalanceSheet struct {
	Cached struct {
		Balances []rpcBalance `json:"balances"`
	} `json:"cached"`
}

type rpcOutpointEntry struct {
	Outpoint struct {
		TxID     string       `json:"txid"`
		Vout     uint32       `json:"vout"`
		Balances []rpcBalance `json:"balances"`
	} `json:"outpoint"`
	Output struct {
		Value  flexUint `json:"value"`
		Script hexBytes `json:"script"`
	} `json:"output"`
	BalanceSheet rpcBalanceSheet `json:"balance_sheet"`
}

func (e rpcOutpointEntry) balances() map[model.AssetID]model.Amount {
	out := make(map[model.AssetID]model.Amount)
	add := func(list []rpcBalance) {
		for _, b := range list {
			id, amount := b.model()
			if amount.IsZero() {
				continue
			}
			sum := out[id]
			sum.Add(&sum, &amount)
			out[id] = sum
		}
	}
	add(e.BalanceSheet.Cached.Balances)
	if len(out) == 0 {
		add(e.Outpoint.Balances)
	}
	return out
}

// OutpointBalances is the alkanes an outpoint carries.
type OutpointBalances struct {
	Outpoint     model.Outpoint
	ValueSats    uint64
	ScriptPubKey []byte
	Balances     map[model.AssetID]model.Amount
}

// EsploraUtxo is one entry of esplora's address utxo listing.
type EsploraUtxo struct {
	TxID   string `json:"txid"`
	Vout   uint32 `json:"vout"`
	Value  uint64 `json:"value"`
	Status struct {
		Confirmed   bool   `json:"confirmed"`
		BlockHeight uint64 `json:"block_height"`
	} `json:"status"`
}

// AlkaneTransfer is an amount of one alkane moving into or out of a simulated call.
type AlkaneTransfer struct {
	ID    model.AssetID
	Value model.Amount
}

// SimulateRequest describes a read-only contract call.
type SimulateRequest struct {
	Target model.AssetID
	// Inputs is the opcode followed by its arguments.
	Inputs  []model.Amount
	Alkanes []AlkaneTransfer
	Height  uint64
}

// Execution is the outcome of a simulated call.
type Execution struct {
	Alkanes []AlkaneTransfer
	Data    []byte
}

type rpcSimulateAlkane struct {
	ID    rpcAlkaneIDString `json:"id"`
	Value string            `json:"value"`
}

type rpcAlkaneIDString struct {
	Block string `json:"block"`
	Tx    string `json:"tx"`
}

type rpcSimulateParams struct {
	Target      string              `json:"target"`
	Inputs      []string            `json:"inputs"`
	Alkanes     []rpcSimulateAlkane `json:"alkanes"`
	Transaction string              `json:"transaction"`
	Block       string              `json:"block"`
	Height      string              `json:"height"`
	TxIndex     uint32              `json:"txindex"`
	Vout        uint32              `json:"vout"`
}

func (r SimulateRequest) params() rpcSimulateParams {
	p := rpcSimulateParams{
		Target:      r.Target.String(),
		Inputs:      make([]string, 0, len(r.Inputs)),
		Alkanes:     make([]rpcSimulateAlkane, 0, len(r.Alkanes)),
		Transaction: "0x",
		Block:       "0x",
		Height:      strconv.FormatUint(r.Height, 10),
	}
	for i := range r.Inputs {
		p.Inputs = append(p.Inputs, r.Inputs[i].Dec())
	}
	for _, a := range r.Alkanes {
		p.Alkanes = append(p.Alkanes, rpcSimulateAlkane{
			ID:    rpcAlkaneIDString{Block: strconv.FormatUint(a.ID.Block, 10), Tx: strconv.FormatUint(a.ID.Tx, 10)},
			Value: a.Value.Dec(),
		})
	}
	return p
}

type rpcSimulateResult struct {
	Status    int `json:"status"`
	Execution struct {
		Alkanes []rpcBalance `json:"alkanes"`
		Data    hexBytes     `json:"data"`
		Error   *string      `json:"error"`
	} `json:"execution"`
}
