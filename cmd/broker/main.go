package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nft-escrow-broker/config"
	httpHandler "nft-escrow-broker/internal/adapter/http/handler"
	"nft-escrow-broker/internal/adapter/ledger"
	pgStorage "nft-escrow-broker/internal/adapter/storage/postgres"
	redisStorage "nft-escrow-broker/internal/adapter/storage/redis"
	"nft-escrow-broker/internal/core/ports"
	"nft-escrow-broker/internal/observability"
	"nft-escrow-broker/internal/service"
	"nft-escrow-broker/pkg/logger"
)

func main() {
	issueToken := flag.String("issue-token", "", "print a service token for the given subject and exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Operator shortcut: mint a service token for the storefront backend.
	if *issueToken != "" {
		token, expiry, err := tokenSvc.Generate(*issueToken)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to issue service token")
		}
		fmt.Printf("%s\n", token)
		fmt.Fprintf(os.Stderr, "expires: %s\n", expiry.UTC().Format(time.RFC3339))
		return
	}

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting NFT Escrow Broker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Broker signing identity. Without it no ledger operation can be signed.
	brokerWallet, err := ledger.NewWallet(cfg.Ledger.BrokerSeed)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to derive broker wallet")
	}
	log.Info().Str("address", brokerWallet.Address()).Msg("Broker wallet loaded")

	// Seed vault for external issuer keys.
	vault, err := service.NewAESVaultService(cfg.Vault.Passphrase, cfg.Vault.Salt)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize seed vault")
	}

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// Repositories and stores
	escrowRepo := pgStorage.NewEscrowRepo(pool)
	projectRepo := pgStorage.NewProjectRepo(pool)
	dedupStore := redisStorage.NewPaymentDedupStore(rdb)

	metrics := observability.New()

	// Ledger connection: one subscription stream plus submissions.
	ledgerClient := ledger.NewClient(cfg.Ledger, brokerWallet.Address(), metrics, log)
	go ledgerClient.Run(ctx)

	walletFactory := func(seed string) (ports.Signer, error) {
		return ledger.NewWallet(seed)
	}

	// Engine services
	mintSvc := service.NewMintService(ledgerClient, vault, projectRepo, brokerWallet, walletFactory, log)
	offerSvc := service.NewOfferService(ledgerClient, vault, brokerWallet, walletFactory, log)
	payoutSvc := service.NewPayoutService(ledgerClient, brokerWallet, log)
	txFilter := service.NewTxFilter(brokerWallet.Address(), log)
	escrowSvc := service.NewEscrowService(escrowRepo, txFilter, dedupStore, mintSvc, offerSvc, payoutSvc, metrics, log)

	// The single engine worker: consumes the ledger stream in order.
	engineDone := make(chan struct{})
	go func() {
		defer close(engineDone)
		escrowSvc.Run(ctx, ledgerClient.Transactions())
	}()

	// Management API
	mgmtSvc := service.NewManagementService(escrowRepo, projectRepo, vault, brokerWallet.Address(), log)
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		ManagementSvc: mgmtSvc,
		TokenSvc:      tokenSvc,
		HealthCheckers: []ports.HealthChecker{
			pgStorage.NewHealthCheck(pool),
			redisStorage.NewHealthCheck(rdb),
		},
		Metrics: metrics,
		Logger:  log,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown: signal cancels ctx, which stops the ledger client
	// and the engine worker; then the HTTP server drains.
	<-ctx.Done()
	log.Info().Msg("Shutting down broker...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	select {
	case <-engineDone:
	case <-shutdownCtx.Done():
		log.Warn().Msg("Engine worker did not stop in time")
	}

	log.Info().Msg("Broker exited")
}
