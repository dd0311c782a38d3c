package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/courierops/internal/middleware"
	"github.com/example/courierops/internal/models"
	"github.com/example/courierops/internal/store"
)

// MessengerHandler manages the messenger roster, availability flags and
// reported locations.
type MessengerHandler struct {
	credentials *store.CredentialStore
}

// NewMessengerHandler constructs MessengerHandler.
func NewMessengerHandler(credentials *store.CredentialStore) *MessengerHandler {
	return &MessengerHandler{credentials: credentials}
}

// List returns every messenger joined with its availability flag.
func (h *MessengerHandler) List(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "data": h.credentials.Messengers()})
}

// ListAvailable returns only messengers currently flagged available.
func (h *MessengerHandler) ListAvailable(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "data": h.credentials.AvailableMessengers()})
}

// canManageMessenger allows a messenger to act on itself and an admin to
// act on anyone.
func canManageMessenger(c *fiber.Ctx, messengerID string) bool {
	role, ok := middleware.CurrentUserRole(c)
	if !ok {
		return false
	}
	if role == models.RoleAdmin {
		return true
	}
	userID, _ := middleware.CurrentUserID(c)
	return role == models.RoleMessenger && userID == messengerID
}

type setAvailabilityRequest struct {
	IsAvailable *bool `json:"isAvailable"`
}

// SetAvailability flips or sets a messenger's availability. Only the
// messenger themselves or an admin may change the flag. Without a body
// value the flag is toggled.
func (h *MessengerHandler) SetAvailability(c *fiber.Ctx) error {
	messengerID := c.Params("id")

	if !canManageMessenger(c, messengerID) {
		return fiber.NewError(fiber.StatusForbidden, "availability can only be changed by the messenger or an admin")
	}

	cred := h.credentials.FindByID(messengerID)
	if cred == nil || cred.Role != models.RoleMessenger {
		return fiber.NewError(fiber.StatusNotFound, "messenger not found")
	}

	var req setAvailabilityRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var value bool
	if req.IsAvailable != nil {
		value = *req.IsAvailable
		if err := h.credentials.SetAvailability(c.Context(), messengerID, value); err != nil {
			return err
		}
	} else {
		toggled, err := h.credentials.ToggleAvailability(c.Context(), messengerID)
		if err != nil {
			return err
		}
		value = toggled
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"messengerId": messengerID, "isAvailable": value},
	})
}

type reportLocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ReportLocation records a messenger's position. Same access rule as
// availability.
func (h *MessengerHandler) ReportLocation(c *fiber.Ctx) error {
	messengerID := c.Params("id")

	if !canManageMessenger(c, messengerID) {
		return fiber.NewError(fiber.StatusForbidden, "location can only be reported by the messenger or an admin")
	}

	cred := h.credentials.FindByID(messengerID)
	if cred == nil || cred.Role != models.RoleMessenger {
		return fiber.NewError(fiber.StatusNotFound, "messenger not found")
	}

	var req reportLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid coordinates")
	}

	if err := h.credentials.SetLocation(c.Context(), messengerID, req.Latitude, req.Longitude); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// Locations returns the last reported position of every messenger.
func (h *MessengerHandler) Locations(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "data": h.credentials.Locations()})
}
