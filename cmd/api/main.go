package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ledger/internal/interfaces/scheduler"
	"ledger/internal/shared/config"
	"ledger/internal/shared/logger"
	"ledger/internal/shared/telemetry"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Options{
		Mode:     cfg.Log.Mode,
		Level:    cfg.Log.Level,
		Redact:   cfg.Log.Redact,
		HashSalt: cfg.Log.HashSalt,
	})
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry.Enabled {
		shutdownTelemetry, err := telemetry.Init(ctx, cfg.Telemetry, log)
		if err != nil {
			return err
		}
		defer func() {
			tctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTelemetry(tctx); err != nil {
				log.Error("Telemetry shutdown failed", "error", err)
			}
		}()
	}

	deps, err := NewDependencies(cfg, log)
	if err != nil {
		return err
	}
	defer deps.Close()

	if cfg.Scheduler.Enabled {
		sched, err := scheduler.New(scheduler.Config{
			ScheduleTimes: cfg.Scheduler.ScheduleTimes,
			WorkerCount:   cfg.Scheduler.WorkerCount,
			JobDelay:      cfg.Scheduler.JobDelay,
			QueueSize:     cfg.Scheduler.QueueSize,
			RunOnStartup:  cfg.Scheduler.RunOnStartup,
			JobProvider:   scheduler.Housekeeping(log, deps.Pruners),
		}, log)
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Shutdown(shutdownTimeout)
	} else {
		log.Info("Scheduler is disabled")
	}

	handler := SetupRoutes(deps, cfg, log)
	srv, redirectSrv, errc := StartServers(NewServerConfigFromConfig(handler, cfg), log)

	select {
	case <-ctx.Done():
	case err := <-errc:
		GracefulShutdown(srv, redirectSrv, log, shutdownTimeout)
		return fmt.Errorf("server: %w", err)
	}

	GracefulShutdown(srv, redirectSrv, log, shutdownTimeout)
	return nil
}
