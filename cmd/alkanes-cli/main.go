package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
)

type options struct {
	RPCURL      string        `long:"rpc-url" env:"ALKANES_RPC_URL" description:"Sandshrew JSON-RPC endpoint" default:"http://localhost:18888"`
	RPCRPS      int           `long:"rpc-rps" env:"ALKANES_RPC_RPS" description:"client-side request rate limit, 0 disables it" default:"10"`
	HTTPTimeout time.Duration `long:"http-timeout" env:"ALKANES_HTTP_TIMEOUT" description:"HTTP timeout for RPC requests" default:"30s"`
	Network     model.Network `long:"network" env:"ALKANES_NETWORK" description:"mainnet, testnet, signet or regtest" default:"regtest"`

	NodeURL      string `long:"node-url" env:"ALKANES_NODE_URL" description:"bitcoind RPC URL; when set, transactions are broadcast through it"`
	NodeUser     string `long:"node-user" env:"ALKANES_NODE_USER" description:"bitcoind RPC username"`
	NodePassword string `long:"node-password" env:"ALKANES_NODE_PASSWORD" description:"bitcoind RPC password"`

	Wallet        string        `long:"wallet" env:"ALKANES_WALLET" description:"keystore or a browser wallet name (xverse, oyl, unisat, okx, phantom, leather, magic-eden, orange, tokeo, wizz, keplr)" default:"keystore"`
	Mnemonic      string        `long:"mnemonic" env:"ALKANES_MNEMONIC" description:"BIP39 mnemonic for the keystore wallet"`
	Passphrase    string        `long:"passphrase" env:"ALKANES_PASSPHRASE" description:"BIP39 passphrase for the keystore wallet"`
	BridgeAddr    string        `long:"bridge-addr" env:"ALKANES_BRIDGE_ADDR" description:"listen address of the browser wallet bridge" default:"127.0.0.1:8765"`
	BridgeOrigins []string      `long:"bridge-origin" env:"ALKANES_BRIDGE_ORIGINS" env-delim:"," description:"origins allowed to attach to the bridge"`
	BridgeWait    time.Duration `long:"bridge-wait" env:"ALKANES_BRIDGE_WAIT" description:"how long to wait for the bridge page to attach" default:"2m"`

	FeeRate       float64 `long:"fee-rate" env:"ALKANES_FEE_RATE" description:"fee rate in sat/vB" default:"2"`
	Dust          uint64  `long:"dust" env:"ALKANES_DUST" description:"smallest change output in sats" default:"546"`
	SignerAddress string  `long:"signer-address" env:"ALKANES_SIGNER_ADDRESS" description:"frBTC signer address; resolved from the contract when empty"`
	DryRun        bool    `long:"dry-run" env:"ALKANES_DRY_RUN" description:"plan transactions without signing or broadcasting"`

	ClickhouseDSN string `long:"clickhouse-dsn" env:"ALKANES_CLICKHOUSE_DSN" description:"ClickHouse DSN of the broadcast journal"`
	MetricsAddr   string `long:"metrics-addr" env:"ALKANES_METRICS_ADDR" description:"address for metrics server"`
	Verbose       bool   `short:"v" long:"verbose" description:"log at debug level"`
}

// cli is shared by every command. ctx and logger are set before a command runs.
type cli struct {
	opts   options
	ctx    context.Context
	logger *zap.Logger
	out    io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &cli{ctx: ctx, out: os.Stdout, logger: zap.NewNop()}
	parser := newParser(c)
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		logger, err := newLogger(c.opts.Verbose)
		if err != nil {
			return err
		}
		defer func() {
			_ = logger.Sync()
		}()
		c.logger = logger
		return cmd.Execute(args)
	}

	if _, err := parser.Parse(); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

func newParser(c *cli) *flags.Parser {
	parser := flags.NewParser(&c.opts, flags.Default)
	parser.ShortDescription = "alkanes transaction toolkit"

	commands := []struct {
		name, short, long string
		data              any
	}{
		{"transfer", "Send alkanes", "Transfer an amount of an alkane to a recipient.", &transferCommand{cli: c}},
		{"wrap", "Mint frBTC", "Wrap base currency into frBTC.", &wrapCommand{cli: c}},
		{"unwrap", "Burn frBTC", "Unwrap frBTC back into base currency.", &unwrapCommand{cli: c}},
		{"swap", "Swap alkanes", "Swap one alkane for another through the AMM factory or a pool.", &swapCommand{cli: c}},
		{"wrap-swap", "Wrap then swap", "Wrap base currency and swap the minted frBTC in one transaction.", &wrapSwapCommand{cli: c}},
		{"swap-unwrap", "Swap then unwrap", "Swap into frBTC and unwrap it in one transaction.", &swapUnwrapCommand{cli: c}},
		{"balance", "Show balances", "Sum the alkanes held by the wallet or by the given addresses.", &balanceCommand{cli: c}},
		{"encode", "Encode protostones", "Render protostone text as an OP_RETURN runestone script.", &encodeCommand{cli: c}},
		{"decode", "Decode protostones", "Render an OP_RETURN runestone script as protostone text.", &decodeCommand{cli: c}},
		{"pools", "Inspect pools", "Show the factory pool count and pool reserves.", &poolsCommand{cli: c}},
		{"quote", "Quote a swap", "Simulate a factory swap and print the amount it yields.", &quoteCommand{cli: c}},
		{"wait", "Wait for the indexer", "Block until the indexer reaches a height.", &waitCommand{cli: c}},
		{"mine", "Mine regtest blocks", "Mine blocks to an address and wait for the indexer to follow.", &mineCommand{cli: c}},
		{"history", "Show journaled broadcasts", "List the latest broadcasts journaled for a sender.", &historyCommand{cli: c}},
	}
	for _, cmd := range commands {
		if _, err := parser.AddCommand(cmd.name, cmd.short, cmd.long, cmd.data); err != nil {
			panic("register command " + cmd.name + ": " + err.Error())
		}
	}
	return parser
}
