package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/courierops/internal/config"
	"github.com/example/courierops/internal/routes"
	"github.com/example/courierops/internal/storage"
	"github.com/example/courierops/internal/store"
)

func main() {
	cfg := config.Load()

	backing, err := storage.Open(cfg)
	if err != nil {
		log.Fatalf("failed to open storage: %v", err)
	}

	ctx := context.Background()
	stores := routes.Stores{
		Deliveries:  store.NewDeliveryLedger(backing),
		Pickups:     store.NewPickupLedger(backing),
		Credentials: store.NewCredentialStore(backing),
		Settings:    store.NewSettingsStore(backing),
	}
	stores.Deliveries.Load(ctx)
	stores.Pickups.Load(ctx)
	stores.Credentials.Load(ctx)
	stores.Settings.Load(ctx)

	app := fiber.New(fiber.Config{
		AppName: "CourierOps Backend",
	})

	app.Use(recover.New())
	app.Use(logger.New())

	routes.Register(app, backing, stores, cfg)

	log.Printf("Starting server on :%s (storage driver %s)", cfg.AppPort, cfg.StorageDriver)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}
