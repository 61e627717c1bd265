package bootstrap

import (
	"context"

	"github.com/osse101/Credence_Go/internal/event"
	"github.com/osse101/Credence_Go/internal/logger"
	"github.com/osse101/Credence_Go/internal/scheduler"
	"github.com/osse101/Credence_Go/internal/server"
	"github.com/osse101/Credence_Go/internal/sse"
	"github.com/osse101/Credence_Go/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
// Nil fields are skipped.
type ShutdownComponents struct {
	EventStream        *sse.Hub
	Server             *server.Server
	Scheduler          *scheduler.Scheduler
	SweepPool          *worker.Pool
	DeadlineWorker     *worker.DeadlineWorker
	Services           *Services
	ResilientPublisher *event.ResilientPublisher
}

// GracefulShutdown stops components in dependency order:
//  1. event stream, whose open connections would hold up the HTTP server
//  2. HTTP server, so no new requests arrive
//  3. background sweep and deadline timers
//  4. services, which wait for their in-flight publishes
//  5. the resilient publisher, which flushes its retry queue
//
// Errors are logged and do not stop the sequence.
func GracefulShutdown(ctx context.Context, c ShutdownComponents) {
	if c.EventStream != nil {
		logger.Info(LogMsgClosingEventStream)
		c.EventStream.Stop()
	}

	logger.Info(LogMsgShuttingDownServer)
	if c.Server != nil {
		if err := c.Server.Stop(ctx); err != nil {
			logger.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}
	if c.SweepPool != nil {
		c.SweepPool.Stop()
	}
	if c.DeadlineWorker != nil {
		if err := c.DeadlineWorker.Shutdown(ctx); err != nil {
			logger.Error(LogMsgDeadlineWorkerFailed, "error", err)
		}
	}

	if c.Services != nil {
		shutdownService(ctx, ServiceNameCommitment, c.Services.Commitments)
		shutdownService(ctx, ServiceNameResolution, c.Services.Resolutions)
		shutdownService(ctx, ServiceNameLifecycle, c.Services.Lifecycle)
	}

	if c.ResilientPublisher != nil {
		logger.Info(LogMsgShuttingDownEventPublisher)
		if err := c.ResilientPublisher.Shutdown(ctx); err != nil {
			logger.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	logger.Info(LogMsgServerStopped)
}

type shutdownableService interface {
	Shutdown(context.Context) error
}

func shutdownService(ctx context.Context, name string, service shutdownableService) {
	if err := service.Shutdown(ctx); err != nil {
		logger.Error(LogMsgServiceShutdownFailed, "service", name, "error", err)
	}
}
