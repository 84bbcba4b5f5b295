package bootstrap

import (
	"context"

	"github.com/osse101/playcredits/internal/event"
	"github.com/osse101/playcredits/internal/logger"
	"github.com/osse101/playcredits/internal/server"
)

// ShutdownComponents holds all components that need graceful shutdown.
// Nil fields are skipped.
type ShutdownComponents struct {
	Server             *server.Server
	Workers            *Workers
	ResilientPublisher *event.ResilientPublisher
}

// GracefulShutdown stops components in dependency order:
//  1. HTTP server (stop accepting new requests)
//  2. Scheduler, rollover timers and the worker pool
//  3. Event publisher (flush pending retries)
//
// Errors are logged and do not stop the sequence.
func GracefulShutdown(ctx context.Context, c ShutdownComponents) {
	if c.Server != nil {
		logger.Info(LogMsgShuttingDownServer)
		if err := c.Server.Stop(ctx); err != nil {
			logger.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if w := c.Workers; w != nil {
		logger.Info(LogMsgShuttingDownWorkers)
		if w.Scheduler != nil {
			w.Scheduler.Stop()
			logger.Info(LogMsgSchedulerStopped, "jobs", w.Scheduler.Stats())
		}
		if w.Rollover != nil {
			if err := w.Rollover.Shutdown(ctx); err != nil {
				logger.Error(LogMsgRolloverShutdownFailed, "error", err)
			}
		}
		if w.Pool != nil {
			w.Pool.Stop()
		}
	}

	if c.ResilientPublisher != nil {
		logger.Info(LogMsgShuttingDownEventPublisher)
		if err := c.ResilientPublisher.Shutdown(ctx); err != nil {
			logger.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	logger.Info(LogMsgServerStopped)
}
