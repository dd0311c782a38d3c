package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/courierops/internal/middleware"
	"github.com/example/courierops/internal/models"
	"github.com/example/courierops/internal/store"
)

// PickupHandler manages pickup endpoints.
type PickupHandler struct {
	pickups     *store.PickupLedger
	credentials *store.CredentialStore
}

// NewPickupHandler constructs PickupHandler.
func NewPickupHandler(pickups *store.PickupLedger, credentials *store.CredentialStore) *PickupHandler {
	return &PickupHandler{pickups: pickups, credentials: credentials}
}

type createPickupRequest struct {
	Sender        models.Person `json:"sender"`
	Zone          models.Zone   `json:"zone"`
	ScheduledDate string        `json:"scheduledDate"`
	ScheduledTime string        `json:"scheduledTime"`
	PackageCount  int           `json:"packageCount"`
	Notes         string        `json:"notes"`
	PickupOnly    bool          `json:"pickupOnly"`
	Cost          float64       `json:"cost"`
}

// Create records a standalone pickup.
func (h *PickupHandler) Create(c *fiber.Ctx) error {
	var req createPickupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := validatePerson(req.Sender, "sender"); err != nil {
		return err
	}
	if !req.Zone.IsValid() {
		return fiber.NewError(fiber.StatusBadRequest, "invalid zone")
	}
	if req.Cost < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "cost must not be negative")
	}
	if strings.TrimSpace(req.ScheduledDate) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "scheduled date is required")
	}

	pickup, err := h.pickups.Add(c.Context(), models.Pickup{
		Sender:        req.Sender,
		Zone:          req.Zone,
		ScheduledDate: req.ScheduledDate,
		ScheduledTime: req.ScheduledTime,
		PackageCount:  req.PackageCount,
		Notes:         req.Notes,
		PickupOnly:    req.PickupOnly,
		Cost:          req.Cost,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": pickup})
}

// List returns pickups filtered by status, zone and search term.
func (h *PickupHandler) List(c *fiber.Ctx) error {
	status := models.PickupStatus(c.Query("status"))
	if status != "" && !status.IsValid() {
		return fiber.NewError(fiber.StatusBadRequest, "invalid status filter")
	}
	zone := models.Zone(c.Query("zone"))
	if zone != "" && !zone.IsValid() {
		return fiber.NewError(fiber.StatusBadRequest, "invalid zone filter")
	}

	pickups := h.pickups.Filter(status, zone, c.Query("search"))
	return c.JSON(fiber.Map{"success": true, "data": pickups, "total": len(pickups)})
}

// Get returns a single pickup by id.
func (h *PickupHandler) Get(c *fiber.Ctx) error {
	pickup := h.pickups.Get(c.Params("id"))
	if pickup == nil {
		return fiber.NewError(fiber.StatusNotFound, "pickup not found")
	}
	return c.JSON(fiber.Map{"success": true, "data": pickup})
}

// Update applies a partial-field update.
func (h *PickupHandler) Update(c *fiber.Ctx) error {
	var update store.PickupUpdate
	if err := c.BodyParser(&update); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if update.Zone != nil && !update.Zone.IsValid() {
		return fiber.NewError(fiber.StatusBadRequest, "invalid zone")
	}
	if update.Status != nil && !update.Status.IsValid() {
		return fiber.NewError(fiber.StatusBadRequest, "invalid status")
	}

	pickup, err := h.pickups.Update(c.Context(), c.Params("id"), update)
	if err != nil {
		return err
	}
	if pickup == nil {
		return fiber.NewError(fiber.StatusNotFound, "pickup not found")
	}
	return c.JSON(fiber.Map{"success": true, "data": pickup})
}

type updatePickupStatusRequest struct {
	Status models.PickupStatus `json:"status"`
}

// UpdateStatus moves a pickup through its lifecycle. Messengers may only
// touch their own assignments.
func (h *PickupHandler) UpdateStatus(c *fiber.Ctx) error {
	var req updatePickupStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if !req.Status.IsValid() {
		return fiber.NewError(fiber.StatusBadRequest, "invalid status")
	}

	id := c.Params("id")
	existing := h.pickups.Get(id)
	if existing == nil {
		return fiber.NewError(fiber.StatusNotFound, "pickup not found")
	}

	if role, _ := middleware.CurrentUserRole(c); role == models.RoleMessenger {
		userID, _ := middleware.CurrentUserID(c)
		if existing.MessengerID != userID {
			return fiber.NewError(fiber.StatusForbidden, "pickup is assigned to another messenger")
		}
	}

	pickup, err := h.pickups.UpdateStatus(c.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, store.ErrInvalidTransition) {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return err
	}
	if pickup == nil {
		return fiber.NewError(fiber.StatusNotFound, "pickup not found")
	}
	return c.JSON(fiber.Map{"success": true, "data": pickup})
}

// Assign sets the messenger on a pickup.
func (h *PickupHandler) Assign(c *fiber.Ctx) error {
	var req assignRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	cred := h.credentials.FindByID(req.MessengerID)
	if cred == nil || cred.Role != models.RoleMessenger {
		return fiber.NewError(fiber.StatusBadRequest, "unknown messenger")
	}

	name := cred.DisplayName()
	pickup, err := h.pickups.Update(c.Context(), c.Params("id"), store.PickupUpdate{
		Messenger:   &name,
		MessengerID: &req.MessengerID,
	})
	if err != nil {
		return err
	}
	if pickup == nil {
		return fiber.NewError(fiber.StatusNotFound, "pickup not found")
	}
	return c.JSON(fiber.Map{"success": true, "data": pickup})
}

// Delete removes a pickup.
func (h *PickupHandler) Delete(c *fiber.Ctx) error {
	if h.pickups.Get(c.Params("id")) == nil {
		return fiber.NewError(fiber.StatusNotFound, "pickup not found")
	}
	if err := h.pickups.Remove(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Stats returns the derived pickup counters.
func (h *PickupHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "data": h.pickups.Stats()})
}
