package handlers

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/courierops/internal/middleware"
	"github.com/example/courierops/internal/models"
	"github.com/example/courierops/internal/store"
)

// DeliveryHandler manages delivery endpoints.
type DeliveryHandler struct {
	deliveries  *store.DeliveryLedger
	pickups     *store.PickupLedger
	credentials *store.CredentialStore
}

// NewDeliveryHandler constructs DeliveryHandler.
func NewDeliveryHandler(deliveries *store.DeliveryLedger, pickups *store.PickupLedger, credentials *store.CredentialStore) *DeliveryHandler {
	return &DeliveryHandler{deliveries: deliveries, pickups: pickups, credentials: credentials}
}

type createDeliveryRequest struct {
	Sender       models.Person `json:"sender"`
	Receiver     models.Person `json:"receiver"`
	Zone         models.Zone   `json:"zone"`
	PackageCost  float64       `json:"packageCost"`
	ShippingCost *float64      `json:"shippingCost"`
	Description  string        `json:"description"`
	Photos       []string      `json:"photos"`

	// NeedsPickup also schedules a collection at the sender's address
	// in the same request. The two records stay unlinked.
	NeedsPickup   bool   `json:"needsPickup"`
	ScheduledDate string `json:"scheduledDate"`
	ScheduledTime string `json:"scheduledTime"`
	PackageCount  int    `json:"packageCount"`
	PickupNotes   string `json:"pickupNotes"`
}

func validatePerson(p models.Person, label string) error {
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Phone) == "" || strings.TrimSpace(p.Address) == "" {
		return fiber.NewError(fiber.StatusBadRequest, label+" name, phone and address are required")
	}
	return nil
}

// Create records a new delivery, and optionally a pickup bundled with it.
func (h *DeliveryHandler) Create(c *fiber.Ctx) error {
	var req createDeliveryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := validatePerson(req.Sender, "sender"); err != nil {
		return err
	}
	if err := validatePerson(req.Receiver, "receiver"); err != nil {
		return err
	}
	if !req.Zone.IsValid() {
		return fiber.NewError(fiber.StatusBadRequest, "invalid zone")
	}
	if req.PackageCost < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "package cost must not be negative")
	}

	shippingCost := req.Zone.ShippingCost()
	if req.ShippingCost != nil {
		if *req.ShippingCost < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "shipping cost must not be negative")
		}
		shippingCost = *req.ShippingCost
	}

	delivery, err := h.deliveries.Add(c.Context(), models.Delivery{
		Sender:       req.Sender,
		Receiver:     req.Receiver,
		Zone:         req.Zone,
		PackageCost:  req.PackageCost,
		ShippingCost: shippingCost,
		Description:  req.Description,
		Photos:       req.Photos,
	})
	if err != nil {
		return err
	}

	var pickup *models.Pickup
	if req.NeedsPickup {
		created, err := h.pickups.Add(c.Context(), models.Pickup{
			Sender:        req.Sender,
			Zone:          req.Zone,
			ScheduledDate: req.ScheduledDate,
			ScheduledTime: req.ScheduledTime,
			PackageCount:  req.PackageCount,
			Notes:         req.PickupNotes,
		})
		if err != nil {
			// The delivery is already committed; surface the partial
			// result rather than pretending the whole call failed.
			log.Printf("delivery handler: bundled pickup failed: %v", err)
		} else {
			pickup = &created
		}
	}

	response := fiber.Map{"success": true, "data": delivery}
	if pickup != nil {
		response["pickup"] = pickup
	}
	return c.Status(fiber.StatusCreated).JSON(response)
}

// List returns deliveries filtered by status, zone and search term. An
// omitted dimension matches everything.
func (h *DeliveryHandler) List(c *fiber.Ctx) error {
	status := models.DeliveryStatus(c.Query("status"))
	if status != "" && !status.IsValid() {
		return fiber.NewError(fiber.StatusBadRequest, "invalid status filter")
	}
	zone := models.Zone(c.Query("zone"))
	if zone != "" && !zone.IsValid() {
		return fiber.NewError(fiber.StatusBadRequest, "invalid zone filter")
	}

	deliveries := h.deliveries.Filter(status, zone, c.Query("search"))
	return c.JSON(fiber.Map{"success": true, "data": deliveries, "total": len(deliveries)})
}

// Get returns a single delivery by id.
func (h *DeliveryHandler) Get(c *fiber.Ctx) error {
	delivery := h.deliveries.Get(c.Params("id"))
	if delivery == nil {
		return fiber.NewError(fiber.StatusNotFound, "delivery not found")
	}
	return c.JSON(fiber.Map{"success": true, "data": delivery})
}

// Update applies a partial-field update.
func (h *DeliveryHandler) Update(c *fiber.Ctx) error {
	var update store.DeliveryUpdate
	if err := c.BodyParser(&update); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if update.Zone != nil && !update.Zone.IsValid() {
		return fiber.NewError(fiber.StatusBadRequest, "invalid zone")
	}
	if update.Status != nil && !update.Status.IsValid() {
		return fiber.NewError(fiber.StatusBadRequest, "invalid status")
	}

	delivery, err := h.deliveries.Update(c.Context(), c.Params("id"), update)
	if err != nil {
		return err
	}
	if delivery == nil {
		return fiber.NewError(fiber.StatusNotFound, "delivery not found")
	}
	return c.JSON(fiber.Map{"success": true, "data": delivery})
}

type updateStatusRequest struct {
	Status             models.DeliveryStatus `json:"status"`
	NotDeliveredReason string                `json:"notDeliveredReason"`
}

// UpdateStatus moves a delivery through its lifecycle. Messengers may
// only touch their own assignments; marking not_delivered requires a
// reason.
func (h *DeliveryHandler) UpdateStatus(c *fiber.Ctx) error {
	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if !req.Status.IsValid() {
		return fiber.NewError(fiber.StatusBadRequest, "invalid status")
	}
	if req.Status == models.DeliveryNotDelivered && strings.TrimSpace(req.NotDeliveredReason) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "a reason is required when marking not delivered")
	}

	id := c.Params("id")
	existing := h.deliveries.Get(id)
	if existing == nil {
		return fiber.NewError(fiber.StatusNotFound, "delivery not found")
	}

	if role, _ := middleware.CurrentUserRole(c); role == models.RoleMessenger {
		userID, _ := middleware.CurrentUserID(c)
		if existing.MessengerID != userID {
			return fiber.NewError(fiber.StatusForbidden, "delivery is assigned to another messenger")
		}
	}

	delivery, err := h.deliveries.UpdateStatus(c.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, store.ErrInvalidTransition) {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return err
	}
	if delivery == nil {
		return fiber.NewError(fiber.StatusNotFound, "delivery not found")
	}

	if req.Status == models.DeliveryNotDelivered {
		reason := strings.TrimSpace(req.NotDeliveredReason)
		delivery, err = h.deliveries.Update(c.Context(), id, store.DeliveryUpdate{NotDeliveredReason: &reason})
		if err != nil {
			return err
		}
	}

	return c.JSON(fiber.Map{"success": true, "data": delivery})
}

type assignRequest struct {
	MessengerID string `json:"messengerId"`
}

// Assign sets the messenger on a delivery. The messenger must exist and
// hold the messenger role; availability is not checked, the scheduler
// decides whom to load.
func (h *DeliveryHandler) Assign(c *fiber.Ctx) error {
	var req assignRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	cred := h.credentials.FindByID(req.MessengerID)
	if cred == nil || cred.Role != models.RoleMessenger {
		return fiber.NewError(fiber.StatusBadRequest, "unknown messenger")
	}

	name := cred.DisplayName()
	delivery, err := h.deliveries.Update(c.Context(), c.Params("id"), store.DeliveryUpdate{
		Messenger:   &name,
		MessengerID: &req.MessengerID,
	})
	if err != nil {
		return err
	}
	if delivery == nil {
		return fiber.NewError(fiber.StatusNotFound, "delivery not found")
	}
	return c.JSON(fiber.Map{"success": true, "data": delivery})
}

// Delete removes a delivery.
func (h *DeliveryHandler) Delete(c *fiber.Ctx) error {
	if h.deliveries.Get(c.Params("id")) == nil {
		return fiber.NewError(fiber.StatusNotFound, "delivery not found")
	}
	if err := h.deliveries.Remove(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Stats returns the derived delivery counters.
func (h *DeliveryHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "data": h.deliveries.Stats()})
}
