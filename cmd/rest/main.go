package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"session-insight-be/internal/bootstrap"
	"session-insight-be/internal/config"
	"session-insight-be/internal/server"
	"session-insight-be/internal/tracer"
	"session-insight-be/pkg/database"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// 2. Initialize Database (optional, memory stores otherwise)
	var gormDB *gorm.DB
	if cfg.Database.Connection != "" {
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection, !cfg.IsProduction())
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
		gormDB = db
	}

	// 3. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(gormDB, cfg)
	if err != nil {
		log.Fatalf("Bootstrap failed: %v", err)
	}
	defer container.Close()

	// 4. Initialize Tracer
	shutdownTracer := tracer.InitTracer(cfg.Telemetry.OtelEnabled, cfg.Telemetry.OtelEndpoint, container.Logger)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(ctx)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, container)
	g, gctx := errgroup.WithContext(ctx)

	// 5. Background Services
	if err := container.ConsumerService.Consume(gctx); err != nil {
		log.Fatalf("Consumer failed to subscribe: %v", err)
	}
	for _, sweeper := range container.Sweepers {
		g.Go(func() error { return sweeper.Run(gctx) })
	}

	// 6. Run Server
	g.Go(srv.Run)
	g.Go(func() error {
		<-gctx.Done()
		container.Logger.Info("SERVER", "Shutting down", nil)
		return srv.Shutdown()
	})

	if err := g.Wait(); err != nil {
		container.Logger.Error("SERVER", "Server stopped with error", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
