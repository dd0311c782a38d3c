package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/courierops/internal/models"
	"github.com/example/courierops/internal/store"
)

// DashboardHandler serves the aggregate view the role dashboards render.
type DashboardHandler struct {
	deliveries  *store.DeliveryLedger
	pickups     *store.PickupLedger
	credentials *store.CredentialStore
}

// NewDashboardHandler constructs DashboardHandler.
func NewDashboardHandler(deliveries *store.DeliveryLedger, pickups *store.PickupLedger, credentials *store.CredentialStore) *DashboardHandler {
	return &DashboardHandler{deliveries: deliveries, pickups: pickups, credentials: credentials}
}

// Stats combines delivery, pickup and messenger counters.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	messengers := h.credentials.Messengers()
	available := 0
	for _, m := range messengers {
		if m.IsAvailable {
			available++
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"deliveries":          h.deliveries.Stats(),
			"pickups":             h.pickups.Stats(),
			"totalMessengers":     len(messengers),
			"availableMessengers": available,
		},
	})
}

// Zones lists the fixed delivery areas with labels and shipping costs.
func (h *DashboardHandler) Zones(c *fiber.Ctx) error {
	type zoneInfo struct {
		Zone         models.Zone `json:"zone"`
		Label        string      `json:"label"`
		ShippingCost float64     `json:"shippingCost"`
	}

	zones := make([]zoneInfo, 0, len(models.AllZones()))
	for _, z := range models.AllZones() {
		zones = append(zones, zoneInfo{Zone: z, Label: z.Label(), ShippingCost: z.ShippingCost()})
	}
	return c.JSON(fiber.Map{"success": true, "data": zones})
}
