package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/protostone"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/service"
	"go.uber.org/zap"
)

// txOptions are shared by every command that builds a transaction.
type txOptions struct {
	Prefer []outpointFlag `long:"prefer" description:"outpoint (txid:vout) to spend first; repeatable"`
}

func (o txOptions) options() service.Options {
	return service.Options{Preferred: outpoints(o.Prefer)}
}

// transact plans with build, prints the plan and, unless --dry-run is set, signs and broadcasts it.
func (c *cli) transact(build func(ctx context.Context, svc *service.Service) (service.Plan, error)) error {
	a, err := c.open(true)
	if err != nil {
		return err
	}
	defer a.Close()

	plan, err := build(c.ctx, a.service)
	if err != nil {
		return err
	}
	if err := printPlan(c.out, plan); err != nil {
		return err
	}
	if c.opts.DryRun {
		c.logger.Info("dry run, transaction not signed", zap.String("operation", string(plan.Operation)))
		return nil
	}

	receipt, err := a.service.Execute(c.ctx, plan)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.out, "txid: %s\n", receipt.TxID)
	return err
}

type transferCommand struct {
	cli *cli
	txOptions
	Asset  assetFlag  `long:"asset" description:"alkane id (block:tx)" required:"true"`
	Amount amountFlag `long:"amount" description:"amount in base units" required:"true"`
	To     string     `long:"to" description:"recipient address" required:"true"`
}

func (cmd *transferCommand) Execute([]string) error {
	return cmd.cli.transact(func(ctx context.Context, svc *service.Service) (service.Plan, error) {
		return svc.Transfer(ctx, service.TransferRequest{
			Options:   cmd.options(),
			Asset:     cmd.Asset.id(),
			Amount:    cmd.Amount.Amount,
			Recipient: cmd.To,
		})
	})
}

type wrapCommand struct {
	cli *cli
	txOptions
	Sats uint64 `long:"sats" description:"base currency to wrap" required:"true"`
	To   string `long:"to" description:"frBTC recipient; defaults to the wallet's asset address"`
}

func (cmd *wrapCommand) Execute([]string) error {
	return cmd.cli.transact(func(ctx context.Context, svc *service.Service) (service.Plan, error) {
		return svc.Wrap(ctx, service.WrapRequest{Options: cmd.options(), Sats: cmd.Sats, Recipient: cmd.To})
	})
}

type unwrapCommand struct {
	cli *cli
	txOptions
	Amount amountFlag `long:"amount" description:"frBTC to unwrap" required:"true"`
	To     string     `long:"to" description:"base currency recipient; defaults to the wallet's change address"`
}

func (cmd *unwrapCommand) Execute([]string) error {
	return cmd.cli.transact(func(ctx context.Context, svc *service.Service) (service.Plan, error) {
		return svc.Unwrap(ctx, service.UnwrapRequest{Options: cmd.options(), Amount: cmd.Amount.Amount, Recipient: cmd.To})
	})
}

type swapCommand struct {
	cli *cli
	txOptions
	Sell   assetFlag  `long:"sell" description:"alkane to sell" required:"true"`
	Buy    assetFlag  `long:"buy" description:"alkane to buy" required:"true"`
	Amount amountFlag `long:"amount" description:"amount to sell" required:"true"`
	MinOut amountFlag `long:"min-out" description:"smallest acceptable amount bought"`
	Pool   *assetFlag `long:"pool" description:"swap through this pool instead of the factory"`
	To     string     `long:"to" description:"recipient of the bought alkane; defaults to the wallet's asset address"`
}

func (cmd *swapCommand) Execute([]string) error {
	return cmd.cli.transact(func(ctx context.Context, svc *service.Service) (service.Plan, error) {
		return svc.Swap(ctx, service.SwapRequest{
			Options:   cmd.options(),
			Sell:      cmd.Sell.id(),
			Buy:       cmd.Buy.id(),
			Amount:    cmd.Amount.Amount,
			MinOut:    cmd.MinOut.Amount,
			Pool:      optionalAsset(cmd.Pool),
			Recipient: cmd.To,
		})
	})
}

type wrapSwapCommand struct {
	cli *cli
	txOptions
	Sats   uint64     `long:"sats" description:"base currency to wrap" required:"true"`
	Buy    assetFlag  `long:"buy" description:"alkane to buy with the minted frBTC" required:"true"`
	MinOut amountFlag `long:"min-out" description:"smallest acceptable amount bought"`
	Pool   *assetFlag `long:"pool" description:"swap through this pool instead of the factory"`
	To     string     `long:"to" description:"recipient of the bought alkane; defaults to the wallet's asset address"`
}

func (cmd *wrapSwapCommand) Execute([]string) error {
	return cmd.cli.transact(func(ctx context.Context, svc *service.Service) (service.Plan, error) {
		return svc.WrapSwap(ctx, service.WrapSwapRequest{
			Options:   cmd.options(),
			Sats:      cmd.Sats,
			Buy:       cmd.Buy.id(),
			MinOut:    cmd.MinOut.Amount,
			Pool:      optionalAsset(cmd.Pool),
			Recipient: cmd.To,
		})
	})
}

type swapUnwrapCommand struct {
	cli *cli
	txOptions
	Sell   assetFlag  `long:"sell" description:"alkane to sell for frBTC" required:"true"`
	Amount amountFlag `long:"amount" description:"amount to sell" required:"true"`
	MinOut amountFlag `long:"min-out" description:"smallest acceptable frBTC bought"`
	Pool   *assetFlag `long:"pool" description:"swap through this pool instead of the factory"`
	To     string     `long:"to" description:"base currency recipient; defaults to the wallet's change address"`
}

func (cmd *swapUnwrapCommand) Execute([]string) error {
	return cmd.cli.transact(func(ctx context.Context, svc *service.Service) (service.Plan, error) {
		return svc.SwapUnwrap(ctx, service.SwapUnwrapRequest{
			Options:   cmd.options(),
			Sell:      cmd.Sell.id(),
			Amount:    cmd.Amount.Amount,
			MinOut:    cmd.MinOut.Amount,
			Pool:      optionalAsset(cmd.Pool),
			Recipient: cmd.To,
		})
	})
}

type balanceCommand struct {
	cli       *cli
	Addresses []string   `long:"address" description:"address to inspect instead of the wallet; repeatable"`
	Asset     *assetFlag `long:"asset" description:"only sum this alkane"`
}

func (cmd *balanceCommand) Execute([]string) error {
	c := cmd.cli
	a, err := c.open(len(cmd.Addresses) == 0)
	if err != nil {
		return err
	}
	defer a.Close()

	addresses := cmd.Addresses
	if len(addresses) == 0 {
		if cmd.Asset == nil {
			balances, err := a.service.Balances(c.ctx)
			if err != nil {
				return err
			}
			return printBalances(c.out, balances)
		}
		for _, wa := range a.session.Addresses().All() {
			addresses = append(addresses, wa.Address)
		}
	}

	if cmd.Asset != nil {
		amount, err := a.reconciler.AssetBalance(c.ctx, addresses, cmd.Asset.id())
		if err != nil {
			return err
		}
		return printBalances(c.out, map[model.AssetID]model.Amount{cmd.Asset.id(): amount})
	}
	balances, err := a.reconciler.Snapshot(c.ctx, addresses)
	if err != nil {
		return err
	}
	return printBalances(c.out, balances)
}

type encodeCommand struct {
	cli     *cli
	Outputs int     `long:"outputs" description:"number of transaction outputs, OP_RETURN included" required:"true"`
	Pointer *uint32 `long:"pointer" description:"default output for unallocated alkanes"`
	Args    struct {
		Protostones string `positional-arg-name:"protostones" description:"protostone text, e.g. [2:0:100:v0]:v1:v1"`
	} `positional-args:"yes" required:"yes"`
}

func (cmd *encodeCommand) Execute([]string) error {
	chain, err := protostone.Decode(cmd.Args.Protostones)
	if err != nil {
		return err
	}
	script, err := protostone.Encipher(chain, protostone.Layout{OutputCount: cmd.Outputs, Pointer: cmd.Pointer})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.cli.out, hex.EncodeToString(script))
	return err
}

type decodeCommand struct {
	cli     *cli
	Outputs int `long:"outputs" description:"number of transaction outputs, OP_RETURN included" required:"true"`
	Args    struct {
		Script string `positional-arg-name:"script" description:"hex OP_RETURN script"`
	} `positional-args:"yes" required:"yes"`
}

func (cmd *decodeCommand) Execute([]string) error {
	script, err := hex.DecodeString(strings.TrimPrefix(cmd.Args.Script, "0x"))
	if err != nil {
		return fmt.Errorf("decode script hex: %w", err)
	}
	rs, err := protostone.Decipher(script)
	if err != nil {
		return err
	}
	chain, err := protostone.DecodeChain(rs, cmd.Outputs)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.cli.out, protostone.Encode(chain))
	return err
}

type poolsCommand struct {
	cli   *cli
	Pools []assetFlag `long:"pool" description:"pool whose reserves to show; repeatable"`
}

func (cmd *poolsCommand) Execute([]string) error {
	c := cmd.cli
	a, err := c.open(false)
	if err != nil {
		return err
	}
	defer a.Close()

	count, err := a.reconciler.NumPools(c.ctx)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(c.out, "pools: %d\n", count); err != nil {
		return err
	}
	for _, pool := range cmd.Pools {
		reserves, err := a.reconciler.PoolReserves(c.ctx, pool.id())
		if err != nil {
			return err
		}
		if err := printReserves(c.out, pool.id(), reserves); err != nil {
			return err
		}
	}
	return nil
}

type quoteCommand struct {
	cli    *cli
	Sell   assetFlag  `long:"sell" description:"alkane to sell" required:"true"`
	Buy    assetFlag  `long:"buy" description:"alkane to buy" required:"true"`
	Amount amountFlag `long:"amount" description:"amount to sell" required:"true"`
}

func (cmd *quoteCommand) Execute([]string) error {
	c := cmd.cli
	a, err := c.open(false)
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.reconciler.SwapQuote(c.ctx, cmd.Sell.id(), cmd.Buy.id(), cmd.Amount.Amount)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.out, "%s %s -> %s %s\n", cmd.Amount.Dec(), cmd.Sell.id(), out.Dec(), cmd.Buy.id())
	return err
}

type waitCommand struct {
	cli     *cli
	Height  uint64        `long:"height" description:"indexer height to wait for" required:"true"`
	Timeout time.Duration `long:"timeout" description:"give up after this long" default:"10m"`
}

func (cmd *waitCommand) Execute([]string) error {
	c := cmd.cli
	a, err := c.open(false)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.service.WaitForIndexer(c.ctx, cmd.Height, cmd.Timeout)
}

type mineCommand struct {
	cli     *cli
	Blocks  uint32        `long:"blocks" description:"number of blocks to mine" default:"1"`
	To      string        `long:"to" description:"address receiving the coinbase" required:"true"`
	NoWait  bool          `long:"no-wait" description:"return without waiting for the indexer"`
	Timeout time.Duration `long:"timeout" description:"how long to wait for the indexer" default:"2m"`
}

func (cmd *mineCommand) Execute([]string) error {
	c := cmd.cli
	if c.opts.Network != model.Regtest {
		return errors.New("mining is only available on regtest")
	}
	a, err := c.open(false)
	if err != nil {
		return err
	}
	defer a.Close()

	var (
		height uint64
		hashes []string
	)
	if a.node != nil {
		if height, err = a.node.Height(c.ctx); err != nil {
			return err
		}
		hashes, err = a.node.GenerateToAddress(c.ctx, cmd.Blocks, cmd.To)
	} else {
		if height, err = a.indexer.Height(c.ctx); err != nil {
			return err
		}
		hashes, err = a.indexer.GenerateToAddress(c.ctx, cmd.Blocks, cmd.To)
	}
	if err != nil {
		return err
	}
	for _, h := range hashes {
		if _, err := fmt.Fprintln(c.out, h); err != nil {
			return err
		}
	}
	if cmd.NoWait {
		return nil
	}
	return a.service.WaitForIndexer(c.ctx, height+uint64(cmd.Blocks), cmd.Timeout)
}

type historyCommand struct {
	cli    *cli
	Sender string `long:"sender" description:"sender address" required:"true"`
	Limit  uint64 `long:"limit" description:"number of broadcasts to show" default:"20"`
}

func (cmd *historyCommand) Execute([]string) error {
	c := cmd.cli
	if c.opts.ClickhouseDSN == "" {
		return errors.New("history needs --clickhouse-dsn")
	}
	a, err := c.open(false)
	if err != nil {
		return err
	}
	defer a.Close()

	records, err := a.repo.BroadcastsBySender(c.ctx, c.opts.Network, cmd.Sender, cmd.Limit)
	if err != nil {
		return err
	}
	return printRecords(c.out, records)
}
