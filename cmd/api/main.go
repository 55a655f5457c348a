package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	httptransport "github.com/servicedesk/sla-agent/internal/api/http"
	"github.com/servicedesk/sla-agent/internal/api/http/handlers"
	"github.com/servicedesk/sla-agent/internal/config"
	"github.com/servicedesk/sla-agent/internal/events"
	"github.com/servicedesk/sla-agent/internal/observability"
	"github.com/servicedesk/sla-agent/internal/service"
	"github.com/servicedesk/sla-agent/internal/sla"
	"github.com/servicedesk/sla-agent/internal/store"
	"github.com/servicedesk/sla-agent/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck
	for _, warning := range cfg.Warnings {
		logger.Warn("config value ignored", zap.String("detail", warning))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, closeSource := newDatasetSource(ctx, cfg, logger)
	defer closeSource()

	dispatcher := events.NewInMemoryDispatcher()
	service.NewAlertService(dispatcher, logger, cfg.Notification, nil).RegisterHandlers()

	ticketStore := store.New(store.Dependencies{
		Source:      source,
		Normalizer:  sla.NewNormalizer(sla.WithLogger(logger)),
		Dispatcher:  dispatcher,
		Logger:      logger,
		LoadTimeout: cfg.Dataset.LoadTimeout(),
	})
	// a failed first load leaves an empty snapshot; the service still starts
	_ = ticketStore.Reload(ctx)

	refresher, err := worker.StartRefreshWorker(cfg.Dataset.RefreshSchedule, ticketStore, logger)
	if err != nil {
		logger.Warn("dataset refresh disabled", zap.Error(err))
	}
	defer refresher.Stop()

	ticketService := service.NewTicketService(ticketStore)
	chatService := service.NewChatService(ticketStore, cfg.Chat.SupportContact)
	metrics := observability.NewMetrics()

	app := httptransport.NewApp(cfg.App.Name, logger, metrics, cfg.CORS, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name),
		Tickets: handlers.NewTicketsHandler(ticketService),
		Metrics: handlers.NewMetricsHandler(ticketService),
		Chat:    handlers.NewChatHandler(chatService),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		return app.Listen(cfg.App.Addr())
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
	}

	stats := metrics.Snapshot()
	logger.Info("request totals",
		zap.Int64("requests", stats.TotalRequests),
		zap.Int("error_kinds", len(stats.Errors)),
		zap.Duration("total_latency", stats.TotalDuration))
}
