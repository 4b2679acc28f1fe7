package main

import (
	"context"
	"log"

	"shopflow-be/internal/bootstrap"
	"shopflow-be/internal/config"
	"shopflow-be/internal/server"
	"shopflow-be/internal/tracer"
	"shopflow-be/pkg/database"
)

func main() {
	cfg := config.Load()

	shutdownTracer := tracer.Init(cfg.Tracing)
	defer shutdownTracer(context.Background())

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	// Mail delivery runs off the request path.
	go func() {
		if err := container.MailDispatcher.Consume(context.Background()); err != nil {
			log.Printf("Background mail consumer error: %v", err)
		}
	}()

	srv := server.New(cfg, container)

	log.Fatal(srv.Run())
}
