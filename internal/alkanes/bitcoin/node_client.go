package bitcoin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/rpcclient"
	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
	"github.com/goodnatureofminers/alkanes-txkit/pkg/safe"
)

// NodeClient talks to bitcoind for height, broadcast and regtest mining.
type NodeClient struct {
	client     RPCClient
	rpcMetrics RPCMetrics
	params     *chaincfg.Params
}

// NewNodeClient constructs an instrumented node client.
func NewNodeClient(client RPCClient, rpcMetrics RPCMetrics, network model.Network) (*NodeClient, error) {
	params, err := ChainParams(network)
	if err != nil {
		return nil, err
	}
	return &NodeClient{
		client:     client,
		rpcMetrics: rpcMetrics,
		params:     params,
	}, nil
}

// DialNode opens an HTTP POST mode rpcclient for rawURL.
func DialNode(rawURL, user, password string) (*rpcclient.Client, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse rpc url: %w", err)
	}
	if parsed.Scheme != "http" {
		return nil, fmt.Errorf("rpc url scheme %q not supported, use http", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, errors.New("rpc url missing host")
	}
	return rpcclient.New(&rpcclient.ConnConfig{
		Host:         parsed.Host,
		User:         user,
		Pass:         password,
		HTTPPostMode: true,
		DisableTLS:   true,
	}, nil)
}

// Height returns the node's block count.
func (n *NodeClient) Height(ctx context.Context) (height uint64, err error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	started := time.Now()
	defer func() {
		n.rpcMetrics.Observe("get_block_count", err, started)
	}()
	count, err := n.client.GetBlockCount()
	if err != nil {
		return 0, err
	}
	return safe.Uint64(count)
}

// Broadcast submits a raw transaction and returns its txid.
func (n *NodeClient) Broadcast(ctx context.Context, raw []byte) (txid string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var tx wire.MsgTx
	if err := tx.Deserialize(bytes.NewReader(raw)); err != nil {
		return "", fmt.Errorf("decode raw transaction: %w", err)
	}

	started := time.Now()
	defer func() {
		n.rpcMetrics.Observe("send_raw_transaction", err, started)
	}()
	hash, err := n.client.SendRawTransaction(&tx, false)
	if err != nil {
		return "", err
	}
	return hash.String(), nil
}

// GenerateToAddress mines blocks to address. Regtest only.
func (n *NodeClient) GenerateToAddress(ctx context.Context, blocks uint32, address string) (hashes []string, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	addr, err := btcutil.DecodeAddress(address, n.params)
	if err != nil {
		return nil, fmt.Errorf("decode address %q: %w", address, err)
	}

	started := time.Now()
	defer func() {
		n.rpcMetrics.Observe("generate_to_address", err, started)
	}()
	res, err := n.client.GenerateToAddress(int64(blocks), addr, nil)
	if err != nil {
		return nil, err
	}
	hashes = make([]string, 0, len(res))
	for _, h := range res {
		hashes = append(hashes, h.String())
	}
	return hashes, nil
}
