package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/ghuser/auctionhouse/pkg/app"
	"github.com/ghuser/auctionhouse/pkg/cache"
	"github.com/ghuser/auctionhouse/pkg/config"
	"github.com/ghuser/auctionhouse/pkg/database"
	"github.com/ghuser/auctionhouse/pkg/events"
	"github.com/ghuser/auctionhouse/pkg/logger"
	"github.com/ghuser/auctionhouse/pkg/telemetry"
	pkgworkflows "github.com/ghuser/auctionhouse/pkg/workflows"
	"github.com/ghuser/auctionhouse/services/auction/application/consumers"
	appsvcs "github.com/ghuser/auctionhouse/services/auction/application/services"
	auctionworkflows "github.com/ghuser/auctionhouse/services/auction/application/workflows"
	domainevents "github.com/ghuser/auctionhouse/services/auction/domain/events"
	"github.com/ghuser/auctionhouse/services/auction/infrastructure/persistence/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx := context.Background()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close()
	log.Info("database pool connected")

	// Forwarder mode, like the api process: the FinishAuction activity
	// publishes auction.finished through a tx-bound publisher, which never
	// initializes topic schemas itself. Routing through the forwarder queue
	// lets the forwarder's auto-initializing target publisher create the
	// topic on first delivery.
	eventBus, err := events.NewEventBusWithForwarder(cfg, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	if err := eventBus.StartForwarder(ctx); err != nil {
		log.Error("failed to start event forwarder", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	temporalClient, err := pkgworkflows.NewTemporalClient(ctx, cfg.TemporalHostPort, cfg.TemporalNamespace, log)
	if err != nil {
		log.Error("failed to initialize temporal client", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer temporalClient.Close()

	appConfig := &app.Application{
		Db:             pool,
		Logger:         log,
		EventBus:       eventBus,
		Redis:          redisClient,
		TemporalClient: temporalClient,
	}

	svcs := appsvcs.New(appConfig)

	// Temporal worker resolving auctions after their end time.
	w := worker.New(temporalClient.Client, auctionworkflows.TaskQueue, worker.Options{})
	w.RegisterWorkflow(auctionworkflows.AuctionEndWorkflow)
	w.RegisterActivity(auctionworkflows.NewActivities(svcs.Auction))
	if err := w.Start(); err != nil {
		log.Error("failed to start temporal worker", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer w.Stop()
	log.Info("temporal worker started", "task_queue", auctionworkflows.TaskQueue)

	if err := registerSubscribers(ctx, appConfig); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	// EventBus.Close() (via defer) waits up to 30s for in-flight handlers.
	log.Info("worker stopped")
}

// registerSubscribers wires all event handlers.
// Add new topics here as more services publish events.
func registerSubscribers(ctx context.Context, a *app.Application) error {
	repo := postgres.NewAuctionRepository(a.Db, nil) // consumer never re-publishes
	bidConsumer := consumers.NewBidPlacedConsumer(repo, a.EventBus, a.Logger)

	if err := subscribe(ctx, a, domainevents.TopicBidPlaced, bidConsumer.Handle); err != nil {
		return err
	}
	if err := subscribe(ctx, a, domainevents.TopicAuctionCreated, handleAuctionCreated(a)); err != nil {
		return err
	}

	a.Logger.Info("event subscribers registered", "topics", []string{
		domainevents.TopicBidPlaced,
		domainevents.TopicAuctionCreated,
	})
	return nil
}

// subscribe registers handler on topic and drains subscriber errors in the
// background so the channel never blocks.
func subscribe(ctx context.Context, a *app.Application, topic string, handler func(context.Context, *message.Message) error) error {
	errCh, err := a.EventBus.Subscribe(ctx, topic, handler)
	if err != nil {
		return err
	}
	go func() {
		for err := range errCh {
			a.Logger.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
		}
	}()
	return nil
}

// handleAuctionCreated starts the end-of-auction workflow for each new
// auction. The workflow ID is derived from the auction ID and
// WorkflowExecutionErrorWhenAlreadyStarted stays false, so redelivered
// auction.created events collapse into the already-running execution.
func handleAuctionCreated(a *app.Application) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		var evt domainevents.AuctionCreatedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			a.Logger.ErrorContext(ctx, "auction.created: unparseable payload, dropping",
				"message_id", msg.UUID, "error", err)
			return nil
		}

		run, err := a.TemporalClient.Client.ExecuteWorkflow(ctx,
			client.StartWorkflowOptions{
				ID:        auctionworkflows.WorkflowID(evt.Auction.ID),
				TaskQueue: auctionworkflows.TaskQueue,
			},
			auctionworkflows.AuctionEndWorkflow,
			auctionworkflows.AuctionEndInput{
				AuctionID:  evt.Auction.ID,
				AuctionEnd: evt.Auction.AuctionEnd,
			},
		)
		if err != nil {
			return err
		}

		a.Logger.InfoContext(ctx, "auction-end workflow scheduled",
			"auction_id", evt.Auction.ID,
			"workflow_id", run.GetID(),
			"auction_end", evt.Auction.AuctionEnd,
		)
		return nil
	}
}
