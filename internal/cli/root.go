// Package cli implements the bloomcheck command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/vietddude/stylelog"

	"github.com/vietddude/bloomcheck/internal/checker"
	"github.com/vietddude/bloomcheck/internal/core/config"
	"github.com/vietddude/bloomcheck/internal/core/domain"
	"github.com/vietddude/bloomcheck/internal/infra/chain/evm"
	redisclient "github.com/vietddude/bloomcheck/internal/infra/redis"
	"github.com/vietddude/bloomcheck/internal/infra/rpc"
	"github.com/vietddude/bloomcheck/internal/infra/storage/postgres"
)

var (
	cfgPath string
	rpcURL  string
	isDebug bool
)

var rootCmd = &cobra.Command{
	Use:   "bloomcheck",
	Short: "Block log-bloom soundness checker",
	Long: `bloomcheck tests whether a contract address or event topic could have
produced logs in a block, using only the header's logsBloom field, and
optionally verifies the result against the exact on-chain log count.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "config file (default is config.yaml)")
	rootCmd.PersistentFlags().StringVar(&rpcURL, "rpc", "", "RPC endpoint URL (overrides config and RPC_URL env)")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")
}

// loadConfig reads the config file, falling back to an ad-hoc single
// provider from --rpc or the RPC_URL env so the tool runs without any
// config file.
func loadConfig() (*config.AppConfig, error) {
	_ = godotenv.Load()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		// A missing config file is fine when an endpoint comes from the
		// command line or environment.
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = &config.AppConfig{}
		cfg.ApplyDefaults()
	}

	url := rpcURL
	if url == "" && len(cfg.Chain.Providers) == 0 {
		url = os.Getenv("RPC_URL")
	}
	if url != "" {
		// Explicit endpoint replaces the configured provider list.
		cfg.Chain.Providers = []config.ProviderConfig{{
			Name:    "cli",
			URL:     url,
			Timeout: 30 * time.Second,
		}}
	}

	if len(cfg.Chain.Providers) == 0 {
		return nil, fmt.Errorf("no RPC endpoint: use --rpc, set RPC_URL, or configure providers in %s", cfgPath)
	}
	return cfg, nil
}

// setupLogging initializes stylelog with tint options.
func setupLogging(cfg *config.AppConfig) {
	slogLevel := slog.LevelInfo
	if isDebug || cfg.Logging.Level == "debug" {
		slogLevel = slog.LevelDebug
	}

	stylelog.InitDefault(&tint.Options{
		Level:      slogLevel,
		TimeFormat: time.RFC3339,
	})
}

// app bundles the wired dependencies for one command invocation.
type app struct {
	cfg     *config.AppConfig
	chainID domain.ChainID
	svc     *checker.Service
	closers []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

// setup wires providers, chain client, optional Redis cache and Postgres
// audit store into a checker service.
func setup(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	setupLogging(cfg)

	a := &app{cfg: cfg}

	providers := make([]rpc.RPCProvider, 0, len(cfg.Chain.Providers))
	for _, p := range cfg.Chain.Providers {
		providers = append(providers, rpc.NewHTTPProvider(p.Name, p.URL, p.Timeout))
	}
	client := rpc.NewClient(providers...)
	a.closers = append(a.closers, client.Close)

	evmClient := evm.NewClient(client)
	chainID, err := evmClient.ChainID(ctx)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	a.chainID = chainID
	slog.Info("Connected", "network", chainID.Name(), "chain_id", chainID.String())

	opts := []checker.Option{
		checker.WithScanWorkers(cfg.Checker.ScanConcurrency),
	}

	if cfg.Redis.URL != "" {
		cache, err := redisclient.NewClient(cfg.Redis)
		if err != nil {
			slog.Warn("Redis unavailable, header cache disabled", "error", err)
		} else {
			a.closers = append(a.closers, cache.Close)
			opts = append(opts, checker.WithCache(cache, cfg.Checker.HeaderCacheTTL))
		}
	}

	if cfg.Database.URL != "" {
		db, err := postgres.NewDB(ctx, cfg.Database)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to init db: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		if err := db.Migrate("migrations"); err != nil {
			a.Close()
			return nil, err
		}
		opts = append(opts, checker.WithRecorder(postgres.NewCheckRepo(db)))
	}

	a.svc = checker.NewService(chainID, evmClient, evmClient, opts...)
	return a, nil
}
