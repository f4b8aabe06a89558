package sandshrew

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/bitcoin"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
	"golang.org/x/sync/errgroup"
)

// AddressUtxos lists the unspent outputs of address, confirmed or not.
func (c *Client) AddressUtxos(ctx context.Context, address string) ([]EsploraUtxo, error) {
	var utxos []EsploraUtxo
	if err := c.call(ctx, "esplora_address_utxo", "esplora_address::utxo", []any{address}, &utxos); err != nil {
		return nil, err
	}
	return utxos, nil
}

// TxHex returns the raw transaction hex for txid.
func (c *Client) TxHex(ctx context.Context, txid string) (string, error) {
	var raw string
	if err := c.call(ctx, "esplora_tx_hex", "esplora_tx::hex", []any{txid}, &raw); err != nil {
		return "", err
	}
	return raw, nil
}

// Broadcast submits a signed transaction and returns its txid.
func (c *Client) Broadcast(ctx context.Context, raw []byte) (string, error) {
	var txid string
	if err := c.call(ctx, "btc_sendrawtransaction", "btc_sendrawtransaction", []any{hex.EncodeToString(raw)}, &txid); err != nil {
		return "", err
	}
	return txid, nil
}

// GenerateToAddress mines blocks on regtest.
func (c *Client) GenerateToAddress(ctx context.Context, blocks uint32, address string) ([]string, error) {
	if c.network != model.Regtest {
		return nil, fmt.Errorf("generate to address is regtest only, endpoint serves %s", c.network)
	}
	var hashes []string
	if err := c.call(ctx, "btc_generatetoaddress", "btc_generatetoaddress", []any{blocks, address}, &hashes); err != nil {
		return nil, err
	}
	return hashes, nil
}

// WalletUtxos joins esplora's spendable outputs of address with the alkanes each one carries.
func (c *Client) WalletUtxos(ctx context.Context, address string) ([]model.Utxo, error) {
	script, addrType, err := bitcoin.AddressScript(c.network, address)
	if err != nil {
		return nil, err
	}

	var (
		spendable []EsploraUtxo
		bearing   []OutpointBalances
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		spendable, err = c.AddressUtxos(gctx, address)
		return err
	})
	g.Go(func() error {
		var err error
		bearing, err = c.ProtorunesByAddress(gctx, address)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("wallet utxos %s: %w", address, err)
	}

	balances := make(map[model.Outpoint]map[model.AssetID]model.Amount, len(bearing))
	for _, b := range bearing {
		if len(b.Balances) > 0 {
			balances[b.Outpoint] = b.Balances
		}
	}
	out := make([]model.Utxo, 0, len(spendable))
	for _, u := range spendable {
		op := model.Outpoint{TxID: u.TxID, Vout: u.Vout}
		out = append(out, model.Utxo{
			Outpoint:      op,
			ValueSats:     u.Value,
			ScriptPubKey:  script,
			Address:       address,
			AddressType:   addrType,
			Height:        u.Status.BlockHeight,
			AssetBalances: balances[op],
		})
	}
	return out, nil
}
