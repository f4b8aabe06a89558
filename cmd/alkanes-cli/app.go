package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/balance"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/bitcoin"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/builder"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/repository/clickhouse"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/sandshrew"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/service"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/signer"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/signer/extension"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/signer/wsbridge"
	"github.com/goodnatureofminers/alkanes-txkit/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	keystoreWallet       = "keystore"
	journalFlushSize     = 100
	journalFlushInterval = 5 * time.Second
	shutdownTimeout      = 5 * time.Second
)

// app holds the components a command runs against. Optional parts stay nil when not configured.
type app struct {
	indexer    *sandshrew.Client
	node       *bitcoin.NodeClient
	reconciler *balance.Reconciler
	session    *signer.Session
	repo       *clickhouse.Repository
	service    *service.Service

	closers []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// open wires the components. The wallet is connected only when withWallet is set.
// Components wired before a failure are released before open returns.
func (c *cli) open(withWallet bool) (_ *app, err error) {
	opts := c.opts
	if _, err := bitcoin.ChainParams(opts.Network); err != nil {
		return nil, err
	}

	a := &app{}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	if opts.MetricsAddr != "" {
		a.closers = append(a.closers, startMetricsServer(opts.MetricsAddr, c.logger))
	}

	a.indexer = sandshrew.NewClient(
		opts.RPCURL,
		&http.Client{Timeout: opts.HTTPTimeout},
		opts.RPCRPS,
		metrics.NewRPCClient("sandshrew", opts.Network),
		opts.Network,
	)

	var broadcaster signer.Broadcaster = a.indexer
	if opts.NodeURL != "" {
		rpc, err := bitcoin.DialNode(opts.NodeURL, opts.NodeUser, opts.NodePassword)
		if err != nil {
			return nil, fmt.Errorf("init node rpc client: %w", err)
		}
		a.closers = append(a.closers, func() {
			rpc.Shutdown()
			rpc.WaitForShutdown()
		})
		a.node, err = bitcoin.NewNodeClient(rpc, metrics.NewRPCClient("bitcoind", opts.Network), opts.Network)
		if err != nil {
			return nil, err
		}
		broadcaster = a.node
	}

	cfg := builder.DefaultConfig()
	a.reconciler = balance.NewReconciler(a.indexer, balance.Contracts{Factory: cfg.Factory, FrBTC: cfg.FrBTC}, 0)

	var journal service.Journal
	if opts.ClickhouseDSN != "" {
		a.repo, err = clickhouse.NewRepository(opts.ClickhouseDSN, metrics.NewClickhouseRepository())
		if err != nil {
			return nil, fmt.Errorf("init repository: %w", err)
		}
		repo := a.repo
		a.closers = append(a.closers, func() {
			if err := repo.Close(); err != nil {
				c.logger.Warn("close repository", zap.Error(err))
			}
		})
		j := clickhouse.NewJournal(a.repo, c.logger, journalFlushSize, journalFlushInterval)
		j.Start(context.WithoutCancel(c.ctx))
		a.closers = append(a.closers, j.Stop)
		journal = j
	}

	var wallet service.Wallet
	if withWallet {
		backend, err := c.backend(a)
		if err != nil {
			return nil, err
		}
		a.session = signer.NewSession(backend, broadcaster, metrics.NewWallet(), c.logger)
		if _, err := a.session.Connect(c.ctx); err != nil {
			return nil, err
		}
		wallet = a.session
	}

	a.service = service.New(
		service.Config{
			Network:       opts.Network,
			FeeRate:       opts.FeeRate,
			SignerAddress: opts.SignerAddress,
			Dust:          opts.Dust,
		},
		a.indexer,
		builder.New(cfg, a.indexer),
		wallet,
		a.reconciler,
		journal,
		metrics.NewService(opts.Network),
		c.logger,
	)
	return a, nil
}

// backend builds the configured wallet. Browser wallets are reached through the bridge page.
func (c *cli) backend(a *app) (signer.Backend, error) {
	opts := c.opts
	if opts.Wallet == keystoreWallet {
		if opts.Mnemonic == "" {
			return nil, errors.New("keystore wallet needs --mnemonic")
		}
		return signer.NewKeystore(opts.Mnemonic, opts.Passphrase, opts.Network)
	}

	kind, err := extension.ParseKind(opts.Wallet)
	if err != nil {
		return nil, err
	}
	hub := wsbridge.NewHub(c.logger, metrics.NewBridge(), opts.BridgeOrigins)
	a.closers = append(a.closers, serve(opts.BridgeAddr, hub.Handler(), "bridge", c.logger))

	c.logger.Info("waiting for the bridge page to attach",
		zap.String("wallet", string(kind)),
		zap.String("addr", opts.BridgeAddr),
	)
	ctx, cancel := context.WithTimeout(c.ctx, opts.BridgeWait)
	defer cancel()
	if err := hub.WaitAttached(ctx); err != nil {
		return nil, fmt.Errorf("bridge page did not attach: %w", err)
	}
	return extension.New(kind, hub, opts.Network)
}

func startMetricsServer(addr string, logger *zap.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return serve(addr, mux, "metrics", logger)
}

// serve runs handler on addr until the returned func is called.
func serve(addr string, handler http.Handler, name string, logger *zap.Logger) func() {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting "+name+" server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(name+" server failed", zap.Error(err))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("failed to shutdown "+name+" server", zap.Error(err))
		}
	}
}
