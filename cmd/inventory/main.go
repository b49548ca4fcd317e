package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/go5u/foodflow-inventory/internal/app"
	"github.com/go5u/foodflow-inventory/internal/inventory"
	"github.com/go5u/foodflow-inventory/internal/observability"
	"github.com/go5u/foodflow-inventory/internal/platform/db"
	"github.com/go5u/foodflow-inventory/internal/platform/stream"
)

// eventPublisher adapts the async Kafka writer to the inventory publisher port.
type eventPublisher struct {
	writer *stream.AsyncWriter
}

func (p eventPublisher) Publish(evt inventory.Event) {
	p.writer.Publish(strconv.FormatInt(evt.ProductID, 10), evt,
		kafka.Header{Key: "event-type", Value: []byte(evt.Status)})
}

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	eventWriter := stream.NewAsyncWriter(stream.NewWriter(cfg.Brokers(), cfg.InventoryTopic), logger)
	defer func() {
		if err := eventWriter.Close(); err != nil {
			logger.Warn("event writer close", slog.Any("error", err))
		}
	}()

	repo := inventory.NewRepository(pool)
	service := inventory.NewService(repo, eventPublisher{writer: eventWriter}, logger)
	metrics := observability.NewMetrics()
	inventoryHandler := inventory.NewHandler(logger, service)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		InventoryHandler: inventoryHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
