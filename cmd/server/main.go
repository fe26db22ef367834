package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Dantetripodi/gestor-perfumes/internal/config"
	"github.com/Dantetripodi/gestor-perfumes/internal/infra"
	"github.com/Dantetripodi/gestor-perfumes/internal/rates"
	"github.com/Dantetripodi/gestor-perfumes/internal/repository"
	"github.com/Dantetripodi/gestor-perfumes/internal/router"
	"github.com/Dantetripodi/gestor-perfumes/internal/service"
	"github.com/Dantetripodi/gestor-perfumes/internal/snapshot"
	"github.com/Dantetripodi/gestor-perfumes/internal/worker"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	// Redis is optional: without it the app runs with no offline snapshots
	// and no async receipts, but sells fine.
	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, snapshots and receipts disabled")
		rdb = nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := rates.NewDolarAPIFeed(cfg.RateFeedURL)
	provider := rates.NewProvider(feed)

	productRepo := repository.NewProductRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	saleRepo := repository.NewSaleRepository(db)

	state := service.NewState()
	snap := snapshot.New(rdb)
	dispatcher := worker.NewDispatcher(rdb)

	inventorySvc := service.NewInventoryService(state, productRepo, purchaseRepo, provider, snap)
	saleSvc := service.NewSaleService(state, saleRepo, productRepo, provider, snap, dispatcher)
	metricsSvc := service.NewMetricsService(state, provider)
	store := service.NewStore(state, productRepo, purchaseRepo, saleRepo, provider, snap, inventorySvc)

	if err := store.LoadAll(ctx); err != nil {
		log.Warn().Err(err).Msg("initial load degraded")
	}
	store.RefreshRate(ctx)

	if rdb != nil {
		receipts := worker.NewReceiptWorker(saleRepo, cfg.ReceiptStoragePath)
		worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, receipts)
	}

	// Periodic refresh keeps the automatic quote current; the provider
	// ignores ticks while a manual rate is pinned.
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.RateRefreshMinutes) * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				store.RefreshRate(ctx)
			}
		}
	}()

	r := router.New(router.Deps{
		Cfg:       cfg,
		DB:        db,
		RDB:       rdb,
		Store:     store,
		Inventory: inventorySvc,
		Sales:     saleSvc,
		Metrics:   metricsSvc,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("gestor-perfumes backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
