package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/courierops/internal/storage"
)

// pinger is implemented by storage backends with a live connection.
type pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports process and storage health.
type HealthHandler struct {
	store     storage.Store
	startTime time.Time
}

// NewHealthHandler constructs HealthHandler.
func NewHealthHandler(store storage.Store) *HealthHandler {
	return &HealthHandler{store: store, startTime: time.Now()}
}

// Health checks the storage backend and reports uptime.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	status := "ok"
	storageStatus := "ok"

	if p, ok := h.store.(pinger); ok {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			status = "degraded"
			storageStatus = err.Error()
		}
	}

	code := fiber.StatusOK
	if status != "ok" {
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status":  status,
		"uptime":  time.Since(h.startTime).String(),
		"storage": storageStatus,
	})
}
