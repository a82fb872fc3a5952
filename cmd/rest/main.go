package main

import (
	"context"
	"log"

	"news-agent-be/internal/bootstrap"
	"news-agent-be/internal/config"
	"news-agent-be/internal/server"
	"news-agent-be/internal/tracer"
	"news-agent-be/pkg/database"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	cfg := config.Load()

	gormDB, err := database.NewGormDBWithPool(cfg.Database.Connection, cfg.Database.MaxIdleConns, cfg.Database.MaxOpenConns)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	// Background refresh worker plus its periodic scheduler.
	ctx := context.Background()
	log.Println("Background: Starting refresh consumer...")
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Printf("Background consumer error: %v", err)
	}
	container.ConsumerService.StartScheduler(ctx, cfg.Tracking.RefreshInterval)

	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
