// Package main runs the dust-sweep service: the HTTP control surface, the
// queue worker and, when configured, the Telegram bot.
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/DUSTBOT313/DUST-BOT/internal/api"
	"github.com/DUSTBOT313/DUST-BOT/internal/bot"
	"github.com/DUSTBOT313/DUST-BOT/internal/config"
	"github.com/DUSTBOT313/DUST-BOT/internal/incinerator"
	"github.com/DUSTBOT313/DUST-BOT/internal/jupiter"
	"github.com/DUSTBOT313/DUST-BOT/internal/logbuf"
	"github.com/DUSTBOT313/DUST-BOT/internal/market"
	"github.com/DUSTBOT313/DUST-BOT/internal/observability"
	"github.com/DUSTBOT313/DUST-BOT/internal/queue"
	solrpc "github.com/DUSTBOT313/DUST-BOT/internal/solana"
	"github.com/DUSTBOT313/DUST-BOT/internal/stats"
	"github.com/DUSTBOT313/DUST-BOT/internal/sweep"
	"github.com/DUSTBOT313/DUST-BOT/internal/wallet"
	"github.com/DUSTBOT313/DUST-BOT/internal/ws"
)

func main() {
	// A missing .env file is fine, the environment may be set externally.
	godotenv.Load()

	addr := flag.String("addr", "", "HTTP listen address (overrides ADDR)")
	flag.Parse()

	logRing := logbuf.New(0)
	logger := log.New(io.MultiWriter(os.Stdout, logRing), "[server] ", log.LstdFlags)

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	w, err := wallet.Load(cfg.WalletPrivateKey, cfg.WalletAddress)
	if err != nil {
		logger.Fatalf("wallet: %v", err)
	}
	logger.Printf("wallet loaded: %s", w.Address())

	rpc := solrpc.NewHTTPClient(cfg.RPCEndpoint)
	metrics := observability.NewMetrics("dust_bot")
	counters := stats.New()

	filter := market.NewFilter(market.FilterOptions{
		Listing:     market.NewListingClient(cfg.ListingURL),
		MarketData:  market.NewMarketDataClient(cfg.MarketDataURL),
		LookupDelay: cfg.LookupDelay,
		Logger:      log.New(io.MultiWriter(os.Stdout, logRing), "[market] ", log.LstdFlags),
	})

	aggregator := jupiter.NewClient(cfg.QuoteURL, cfg.SwapURL,
		jupiter.WithLogger(log.New(io.MultiWriter(os.Stdout, logRing), "[jupiter] ", log.LstdFlags)),
	)

	var burnService sweep.BurnService
	if cfg.IncineratorKey != "" {
		burnService = incinerator.NewClient(cfg.IncineratorURL, cfg.IncineratorKey, w.Address())
	}

	engine := sweep.New(sweep.Options{
		Discovery:       filter,
		Aggregator:      aggregator,
		RPC:             rpc,
		Wallet:          w,
		BurnService:     burnService,
		Counters:        counters,
		Metrics:         metrics,
		Logger:          log.New(io.MultiWriter(os.Stdout, logRing), "[sweep] ", log.LstdFlags),
		VolumeThreshold: &cfg.VolumeThreshold,
		BalanceFloor:    &cfg.BalanceFloor,
		MaxDustAmount:   &cfg.MaxDustAmount,
		FeeFraction:     &cfg.FeeFraction,
		SwapLamports:    cfg.SwapLamports,
		CandidateDelay:  cfg.CandidateDelay,
		BatchSize:       cfg.BatchSize,
		FeeWallet:       cfg.FeeWallet,
	})

	jobQueue, err := openQueue(cfg, logger)
	if err != nil {
		logger.Fatalf("queue: %v", err)
	}
	defer jobQueue.Close()

	hub := ws.NewHub(func() (int64, uint64, int64) {
		return counters.SuccessfulBuys(), counters.TotalFeeLamports(), counters.SweepRuns()
	}, logger)
	defer hub.Close()

	worker := queue.NewWorker(queue.WorkerOptions{
		Queue:    jobQueue,
		Pipeline: engine,
		Events:   hub,
		Metrics:  metrics,
		Wait:     cfg.QueueWait,
		Logger:   log.New(io.MultiWriter(os.Stdout, logRing), "[worker] ", log.LstdFlags),
	})
	worker.Start()

	apiServer := api.New(api.Options{
		Runner:    engine,
		Counters:  counters,
		FeeWallet: cfg.FeeWallet,
		Logs:      logRing,
		WSHandler: hub,
		Metrics:   observability.Handler(),
		Logger:    logger,
	})

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: apiServer.Routes(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.TelegramToken != "" {
		tg, err := bot.New(bot.Options{
			Token:      cfg.TelegramToken,
			Queue:      jobQueue,
			Counters:   counters,
			Metrics:    metrics,
			MiniAppURL: cfg.MiniAppURL,
			Logger:     log.New(io.MultiWriter(os.Stdout, logRing), "[telegram] ", log.LstdFlags),
		})
		if err != nil {
			logger.Fatalf("telegram: %v", err)
		}
		go func() {
			if err := tg.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Printf("telegram bot stopped: %v", err)
			}
		}()
	}

	go func() {
		logger.Printf("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Printf("received %v, shutting down", sig)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Printf("HTTP shutdown: %v", err)
	}

	// Drains the in-flight job before returning.
	worker.Close()
	logger.Println("shutdown complete")
}

// openQueue selects Redis when configured, else the in-memory queue.
func openQueue(cfg *config.Config, logger *log.Logger) (queue.Queue, error) {
	if cfg.RedisURL == "" {
		logger.Println("REDIS_URL not set, using in-memory job queue")
		return queue.NewMemoryQueue(), nil
	}
	q, err := queue.NewRedisQueue(cfg.RedisURL, cfg.QueueKey)
	if err != nil {
		return nil, err
	}
	logger.Printf("connected to redis job queue %q", cfg.QueueKey)
	return q, nil
}
