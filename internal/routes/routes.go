package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/courierops/internal/config"
	"github.com/example/courierops/internal/handlers"
	"github.com/example/courierops/internal/middleware"
	"github.com/example/courierops/internal/models"
	"github.com/example/courierops/internal/storage"
	"github.com/example/courierops/internal/store"
)

// Stores bundles the four persistent stores handed to the handlers.
type Stores struct {
	Deliveries  *store.DeliveryLedger
	Pickups     *store.PickupLedger
	Credentials *store.CredentialStore
	Settings    *store.SettingsStore
}

// Register wires up all HTTP routes.
func Register(app *fiber.App, backing storage.Store, stores Stores, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(stores.Credentials, cfg)
	deliveryHandler := handlers.NewDeliveryHandler(stores.Deliveries, stores.Pickups, stores.Credentials)
	pickupHandler := handlers.NewPickupHandler(stores.Pickups, stores.Credentials)
	messengerHandler := handlers.NewMessengerHandler(stores.Credentials)
	userHandler := handlers.NewUserHandler(stores.Credentials)
	settingsHandler := handlers.NewSettingsHandler(stores.Settings)
	dashboardHandler := handlers.NewDashboardHandler(stores.Deliveries, stores.Pickups, stores.Credentials)
	healthHandler := handlers.NewHealthHandler(backing)

	api := app.Group("/api")

	api.Get("/health", healthHandler.Health)

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Everything below requires a valid bearer token.
	protected := api.Group("", middleware.AuthMiddleware(cfg, stores.Credentials))

	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/auth/session", authHandler.Session)

	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleScheduler)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	deliveries := protected.Group("/deliveries")
	deliveries.Get("/", deliveryHandler.List)
	deliveries.Get("/stats", deliveryHandler.Stats)
	deliveries.Post("/", staff, deliveryHandler.Create)
	deliveries.Get("/:id", deliveryHandler.Get)
	deliveries.Put("/:id", staff, deliveryHandler.Update)
	deliveries.Put("/:id/status", deliveryHandler.UpdateStatus)
	deliveries.Put("/:id/assign", staff, deliveryHandler.Assign)
	deliveries.Delete("/:id", staff, deliveryHandler.Delete)

	pickups := protected.Group("/pickups")
	pickups.Get("/", pickupHandler.List)
	pickups.Get("/stats", pickupHandler.Stats)
	pickups.Post("/", staff, pickupHandler.Create)
	pickups.Get("/:id", pickupHandler.Get)
	pickups.Put("/:id", staff, pickupHandler.Update)
	pickups.Put("/:id/status", pickupHandler.UpdateStatus)
	pickups.Put("/:id/assign", staff, pickupHandler.Assign)
	pickups.Delete("/:id", staff, pickupHandler.Delete)

	messengers := protected.Group("/messengers")
	messengers.Get("/", staff, messengerHandler.List)
	messengers.Get("/available", staff, messengerHandler.ListAvailable)
	messengers.Get("/locations", staff, messengerHandler.Locations)
	messengers.Put("/:id/availability", messengerHandler.SetAvailability)
	messengers.Put("/:id/location", messengerHandler.ReportLocation)

	users := protected.Group("/users", adminOnly)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.Get)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	protected.Get("/settings", settingsHandler.Get)
	protected.Put("/settings", adminOnly, settingsHandler.Update)

	protected.Get("/dashboard", dashboardHandler.Stats)
	protected.Get("/zones", dashboardHandler.Zones)
}
