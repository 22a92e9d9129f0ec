package main

import (
	"context"
	"log"

	"github.com/academy-challenge/backend/internal/server"
	"github.com/academy-challenge/backend/internal/server/config"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Fatalf("init error: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
