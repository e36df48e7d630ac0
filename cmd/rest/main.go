package main

import (
	"context"
	"log"
	"time"

	"tapcard-be/internal/bootstrap"
	"tapcard-be/internal/config"
	"tapcard-be/internal/server"
	"tapcard-be/internal/tracer"
	"tapcard-be/pkg/database"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := container.ConsumerService.Start(ctx); err != nil {
		log.Panicf("Unable to start event consumer: %v", err)
	}

	go container.SweepService.Run(ctx, time.Duration(cfg.Entitlement.SweepIntervalMinutes)*time.Minute)

	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
