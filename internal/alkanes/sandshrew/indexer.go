package sandshrew

import (
	"context"
	"fmt"

	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
)

// alkanesProtocolTag selects alkanes balances among protorune subprotocols.
const alkanesProtocolTag = "1"

// Height returns the indexer's processed height.
func (c *Client) Height(ctx context.Context) (uint64, error) {
	var h flexUint
	if err := c.call(ctx, "metashrew_height", "metashrew_height", nil, &h); err != nil {
		return 0, err
	}
	return uint64(h), nil
}

// Simulate runs a read-only contract call. An execution failure is returned verbatim as
// ProtocolExecutionError.
func (c *Client) Simulate(ctx context.Context, req SimulateRequest) (Execution, error) {
	var res rpcSimulateResult
	if err := c.call(ctx, "alkanes_simulate", "alkanes_simulate", []any{req.params()}, &res); err != nil {
		return Execution{}, err
	}
	if res.Execution.Error != nil && *res.Execution.Error != "" {
		return Execution{}, &model.ProtocolExecutionError{Target: req.Target.String(), Message: *res.Execution.Error}
	}
	exec := Execution{Data: res.Execution.Data}
	for _, a := range res.Execution.Alkanes {
		id, value := a.model()
		exec.Alkanes = append(exec.Alkanes, AlkaneTransfer{ID: id, Value: value})
	}
	return exec, nil
}

// ProtorunesByAddress lists the outpoints of address holding alkanes.
func (c *Client) ProtorunesByAddress(ctx context.Context, address string) ([]OutpointBalances, error) {
	var res struct {
		Outpoints []rpcOutpointEntry `json:"outpoints"`
	}
	params := []any{map[string]string{"address": address, "protocolTag": alkanesProtocolTag}}
	if err := c.call(ctx, "alkanes_protorunesbyaddress", "alkanes_protorunesbyaddress", params, &res); err != nil {
		return nil, err
	}
	out := make([]OutpointBalances, 0, len(res.Outpoints))
	for _, e := range res.Outpoints {
		out = append(out, OutpointBalances{
			Outpoint:     model.Outpoint{TxID: e.Outpoint.TxID, Vout: e.Outpoint.Vout},
			ValueSats:    uint64(e.Output.Value),
			ScriptPubKey: e.Output.Script,
			Balances:     e.balances(),
		})
	}
	return out, nil
}

// ProtorunesByOutpoint returns the alkanes a single outpoint carries.
func (c *Client) ProtorunesByOutpoint(ctx context.Context, outpoint model.Outpoint) (map[model.AssetID]model.Amount, error) {
	var res rpcOutpointEntry
	params := []any{map[string]any{"txid": outpoint.TxID, "vout": outpoint.Vout, "protocolTag": alkanesProtocolTag}}
	if err := c.call(ctx, "alkanes_protorunesbyoutpoint", "alkanes_protorunesbyoutpoint", params, &res); err != nil {
		return nil, fmt.Errorf("outpoint %s: %w", outpoint, err)
	}
	return res.balances(), nil
}
