package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"

	"github.com/go5u/foodflow-inventory/internal/app"
	"github.com/go5u/foodflow-inventory/internal/inventory"
	"github.com/go5u/foodflow-inventory/internal/menu"
	"github.com/go5u/foodflow-inventory/internal/observability"
	"github.com/go5u/foodflow-inventory/internal/platform/cache"
	"github.com/go5u/foodflow-inventory/internal/platform/db"
	"github.com/go5u/foodflow-inventory/internal/platform/stream"
	"github.com/go5u/foodflow-inventory/internal/reconcile"
	"github.com/go5u/foodflow-inventory/internal/shared"
	"github.com/go5u/foodflow-inventory/jobs"
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

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, order dedup disabled", slog.Any("error", err))
		redisClient = nil
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	eventWriter := stream.NewAsyncWriter(stream.NewWriter(cfg.Brokers(), cfg.InventoryTopic), logger)
	defer func() {
		if err := eventWriter.Close(); err != nil {
			logger.Warn("event writer close", slog.Any("error", err))
		}
	}()

	repo := inventory.NewRepository(pool)
	service := inventory.NewService(repo, eventPublisher{writer: eventWriter}, logger)
	metrics := observability.NewMetrics()

	resolver := menu.NewClient(cfg.MenuBaseURL, logger)
	engine := reconcile.NewEngine(resolver, service, logger)
	dedup := shared.NewOrderDedup(redisClient, cfg.OrderDedupTTL)

	reader := stream.NewReader(cfg.Brokers(), cfg.OrdersTopic, cfg.ConsumerGroup)
	defer func() {
		if err := reader.Close(); err != nil {
			logger.Warn("kafka reader close", slog.Any("error", err))
		}
	}()

	consumer := reconcile.NewConsumer(reader, engine, dedup, metrics, logger)

	sweepJob := jobs.NewExpirySweepJob(service, logger)
	sweepTask, err := jobs.NewExpirySweepTask(time.Now().UTC(), 500)
	if err != nil {
		logger.Error("build expiry sweep task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskExpirySweep, Handler: sweepJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 3 * * *", Task: sweepTask},
		},
	})
	if err != nil {
		logger.Error("configure worker", slog.Any("error", err))
		os.Exit(1)
	}
	worker.LogStartup()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("starting order event consumer",
			slog.String("topic", cfg.OrdersTopic),
			slog.String("group", cfg.ConsumerGroup))
		return consumer.Run(groupCtx)
	})
	group.Go(func() error {
		return worker.Run(groupCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("runtime stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}
