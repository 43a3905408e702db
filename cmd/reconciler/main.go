package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/trackbuddy/trackbuddy-backend/internal/cursor"
	"github.com/trackbuddy/trackbuddy-backend/internal/indexer"
	"github.com/trackbuddy/trackbuddy-backend/internal/metrics"
	"github.com/trackbuddy/trackbuddy-backend/internal/repository/postgres"
	"github.com/trackbuddy/trackbuddy-backend/internal/service/bridge"
	"github.com/trackbuddy/trackbuddy-backend/internal/service/calls"
	"github.com/trackbuddy/trackbuddy-backend/internal/service/listener"
	"github.com/trackbuddy/trackbuddy-backend/internal/service/pricing"
	"github.com/trackbuddy/trackbuddy-backend/internal/service/reconciler"
	"github.com/trackbuddy/trackbuddy-backend/internal/service/sandbox"
	"github.com/trackbuddy/trackbuddy-backend/internal/transport"
	"go.uber.org/zap"
)

var config struct {
	Addr             string        `long:"addr" env:"RECONCILER_ADDR" description:"http listen addr" default:":8080"`
	PostgresDSN      string        `long:"postgres-dsn" env:"RECONCILER_POSTGRES_DSN" description:"postgres dsn"`
	CursorPath       string        `long:"cursor-path" env:"RECONCILER_CURSOR_PATH" description:"cursor db path" default:"reconciler.db"`
	IndexerURL       string        `long:"indexer-url" env:"RECONCILER_INDEXER_URL" description:"indexer base url" default:"https://testnet-idx.algonode.cloud"`
	AppID            uint64        `long:"app-id" env:"RECONCILER_APP_ID" description:"contract application id"`
	PollInterval     time.Duration `long:"poll-interval" env:"RECONCILER_POLL_INTERVAL" description:"ledger poll interval" default:"5s"`
	PriceAPIURL      string        `long:"price-api-url" env:"RECONCILER_PRICE_API_URL" description:"price api base url" default:"https://api.coingecko.com/api/v3"`
	PayoutProvider   string        `long:"payout-provider" env:"RECONCILER_PAYOUT_PROVIDER" description:"payout provider" choice:"sandbox" choice:"production" default:"sandbox"`
	PayoutAPIURL     string        `long:"payout-api-url" env:"RECONCILER_PAYOUT_API_URL" description:"production payout api base url"`
	PayoutAPIKey     string        `long:"payout-api-key" env:"RECONCILER_PAYOUT_API_KEY" description:"production payout api key"`
	PayoutWebhookURL string        `long:"payout-webhook-url" env:"RECONCILER_PAYOUT_WEBHOOK_URL" description:"webhook url the sandbox calls back" default:"http://localhost:8080/api/bridge/webhook"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()
	if _, err := flags.ParseArgs(&config, os.Args); err != nil {
		logger.Fatal("Failed to parse arguments", zap.Error(err))
	}

	repo, err := postgres.NewRepository(config.PostgresDSN, metrics.NewRepository())
	if err != nil {
		logger.Fatal("Connect to postgres", zap.Error(err))
	}
	defer func() {
		_ = repo.Close()
	}()

	cursorStore, err := cursor.Open(config.CursorPath)
	if err != nil {
		logger.Fatal("Open cursor store", zap.Error(err))
	}
	defer func() {
		_ = cursorStore.Close()
	}()

	indexerClient, err := indexer.NewClient(config.IndexerURL, logger.Named("indexer"))
	if err != nil {
		logger.Fatal("Create indexer client", zap.Error(err))
	}

	oracle := pricing.NewOracle(config.PriceAPIURL, logger.Named("pricing"))

	var (
		provider       bridge.PayoutProvider
		sandboxHandler *transport.SandboxHandler
	)
	switch config.PayoutProvider {
	case "production":
		provider = bridge.NewHTTPProvider(config.PayoutAPIURL, config.PayoutAPIKey, logger.Named("payout"))
	default:
		sandboxProvider := sandbox.NewProvider(config.PayoutWebhookURL, logger.Named("sandbox"))
		provider = bridge.NewSandboxProvider(sandboxProvider)
		sandboxHandler = transport.NewSandboxHandler(sandboxProvider)
	}

	orchestrator, err := bridge.NewOrchestrator(repo, oracle, provider, logger.Named("bridge"))
	if err != nil {
		logger.Fatal("Create payout orchestrator", zap.Error(err))
	}

	notifier := calls.NewNotifier(calls.NewSimulatedDialer(logger.Named("dialer")), logger.Named("calls"))
	router, err := reconciler.NewRouter(repo, notifier, metrics.NewReconciler(), logger.Named("reconciler"))
	if err != nil {
		logger.Fatal("Create reconciler", zap.Error(err))
	}

	listenerService, err := listener.NewService(
		config.AppID,
		config.PollInterval,
		indexerClient,
		cursorStore,
		router,
		metrics.NewListener(),
		logger.Named("listener"),
	)
	if err != nil {
		logger.Fatal("Create listener", zap.Error(err))
	}
	go func() {
		if runErr := listenerService.Run(ctx); runErr != nil {
			logger.Error("Listener stopped", zap.Error(runErr))
		}
	}()

	bridgeHandler := transport.NewBridgeHandler(orchestrator, oracle, logger.Named("http"))

	mux := http.NewServeMux()
	mux.Handle("/", transport.NewRouter(bridgeHandler, sandboxHandler))
	mux.Handle("/metrics", promhttp.Handler())

	s := &http.Server{
		Addr:              config.Addr,
		Handler:           cors.Default().Handler(mux),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down the http server")
		if err := s.Shutdown(context.Background()); err != nil {
			logger.Error("Failed to shutdown http server", zap.Error(err))
		}
	}()

	logger.Info("Starting HTTP server", zap.String("addr", config.Addr))
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Failed to listen and serve", zap.Error(err))
	}
}
