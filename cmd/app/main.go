package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/osse101/Credence_Go/internal/bootstrap"
	"github.com/osse101/Credence_Go/internal/config"
	"github.com/osse101/Credence_Go/internal/logger"
	"github.com/osse101/Credence_Go/internal/notification"
	"github.com/osse101/Credence_Go/internal/server"
	"github.com/osse101/Credence_Go/internal/sse"
	"github.com/osse101/Credence_Go/internal/worker"
)

func main() {
	if err := run(); err != nil {
		logger.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	if warnings, err := config.ValidateEnvWithWarnings(); err != nil {
		logger.Warn("Environment validation failed", "error", err)
	} else {
		for _, w := range warnings {
			logger.Warn(w)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	bus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		return err
	}

	svcs := bootstrap.NewServices(cfg, store, publisher)
	deadlines := worker.NewDeadlineWorker(svcs.Lifecycle)
	stream := sse.NewHub()
	stream.Start()

	if err := bootstrap.RegisterEventHandlers(bootstrap.EventHandlerDependencies{
		EventBus:       bus,
		Notifier:       notification.LogNotifier{},
		DeadlineWorker: deadlines,
		EventStream:    stream,
	}); err != nil {
		stream.Stop()
		return err
	}

	if _, err := bootstrap.ReconcileOnStartup(ctx, svcs.Accounts); err != nil {
		stream.Stop()
		return err
	}
	deadlines.Start(ctx)
	sweepPool, sweepScheduler := bootstrap.StartSweep(cfg, svcs.Lifecycle)

	srv := server.NewServer(server.Options{
		Port:           cfg.Port,
		AdminAPIKey:    cfg.AdminAPIKey,
		TrustedProxies: cfg.TrustedProxies,
		Limits: server.DetectorConfig{
			MaxRequests: cfg.RateLimitRequests,
			Window:      cfg.RateLimitWindow,
		},
		Version:     cfg.Version,
		Environment: cfg.Environment,
		Events:      sse.Handler(stream),
	}, store, svcs.Accounts, svcs.Lifecycle)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
	case err = <-serverErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		EventStream:        stream,
		Server:             srv,
		Scheduler:          sweepScheduler,
		SweepPool:          sweepPool,
		DeadlineWorker:     deadlines,
		Services:           svcs,
		ResilientPublisher: publisher,
	})
	return err
}
