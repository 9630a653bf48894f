package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/Strob0t/basenames/internal/adapter/basenameapi"
	"github.com/Strob0t/basenames/internal/adapter/ethrpc"
	"github.com/Strob0t/basenames/internal/config"
	"github.com/Strob0t/basenames/internal/logger"
	"github.com/Strob0t/basenames/internal/port/chain"
	"github.com/Strob0t/basenames/internal/port/nameservice"
	"github.com/Strob0t/basenames/internal/resilience"
)

// backends groups the outbound adapters. Unavailable ones stay nil
// interfaces so the availability cascade skips them.
type backends struct {
	eth       *ethclient.Client
	api       nameservice.Client
	registrar chain.RegistrarReader
	registry  chain.RegistryReader
	wallet    chain.Wallet
}

func (b *backends) Close() {
	if b.eth != nil {
		b.eth.Close()
	}
}

// loadConfig loads configuration and installs the process-wide logger.
func loadConfig() (*config.Config, logger.Closer, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, closer := logger.New(cfg.Logging)
	slog.SetDefault(log)
	return cfg, closer, nil
}

func newBreaker(name string, cfg config.Breaker) *resilience.Breaker {
	b := resilience.NewBreaker(name, cfg.MaxFailures, cfg.Timeout)
	b.OnStateChange(func(name string, from, to resilience.State) {
		slog.Warn("circuit breaker state changed", "breaker", name, "from", string(from), "to", string(to))
	})
	return b
}

// buildBackends wires the name-service client and, when the RPC endpoint is
// reachable, the contract readers and the optional signing wallet.
// walletKey overrides cfg.Chain.WalletKey when non-empty.
func buildBackends(ctx context.Context, cfg *config.Config, walletKey string) (*backends, error) {
	b := &backends{}

	if cfg.NameService.URL != "" {
		api := basenameapi.NewClient(cfg.NameService.URL, cfg.NameService.Timeout)
		api.SetBreaker(newBreaker("nameservice", cfg.Breaker))
		b.api = api
	}

	if walletKey == "" {
		walletKey = cfg.Chain.WalletKey
	}

	// Reads work against any endpoint; signing must target the configured chain.
	var wantChainID int64
	if walletKey != "" {
		wantChainID = cfg.Chain.ChainID
	}
	dialCtx, cancel := context.WithTimeout(ctx, cfg.Chain.CallTimeout)
	eth, err := ethrpc.Dial(dialCtx, cfg.Chain.RPCURL, wantChainID)
	cancel()
	if err != nil {
		if walletKey != "" {
			return nil, fmt.Errorf("rpc: %w", err)
		}
		slog.Warn("rpc unavailable, contract checks disabled", "url", cfg.Chain.RPCURL, "error", err)
		return b, nil
	}
	b.eth = eth

	// The registrar and registry trip independently so a failing controller never
	// blocks the registry fallback.
	bulkhead := resilience.NewBulkhead(cfg.Chain.MaxConcurrentCalls)
	registrar := ethrpc.NewRegistrar(eth, cfg.Chain.RegistrarController)
	registrar.SetBreaker(newBreaker("registrar", cfg.Breaker))
	registrar.SetBulkhead(bulkhead)
	registrar.SetCallTimeout(cfg.Chain.CallTimeout)
	b.registrar = registrar

	registry := ethrpc.NewRegistry(eth, cfg.Chain.Registry)
	registry.SetBreaker(newBreaker("registry", cfg.Breaker))
	registry.SetBulkhead(bulkhead)
	registry.SetCallTimeout(cfg.Chain.CallTimeout)
	b.registry = registry

	if walletKey != "" {
		wallet, err := ethrpc.NewWallet(eth, cfg.Chain.RegistrarController, walletKey, cfg.Chain.ChainID)
		if err != nil {
			eth.Close()
			return nil, fmt.Errorf("wallet: %w", err)
		}
		wallet.SetBreaker(newBreaker("wallet", cfg.Breaker))
		b.wallet = wallet
		slog.Info("wallet connected", "address", wallet.Address(), "chain_id", cfg.Chain.ChainID)
	}
	return b, nil
}
