package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/courierops/internal/models"
	"github.com/example/courierops/internal/store"
)

// UserHandler manages credential administration. Uniqueness and field
// validation live here; the store itself accepts whatever it is given.
type UserHandler struct {
	credentials *store.CredentialStore
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(credentials *store.CredentialStore) *UserHandler {
	return &UserHandler{credentials: credentials}
}

// List returns every account.
func (h *UserHandler) List(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "data": h.credentials.Credentials()})
}

// Get returns a single account by id.
func (h *UserHandler) Get(c *fiber.Ctx) error {
	cred := h.credentials.FindByID(c.Params("id"))
	if cred == nil {
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	}
	return c.JSON(fiber.Map{"success": true, "data": cred})
}

type createUserRequest struct {
	Username    string             `json:"username"`
	Password    string             `json:"password"`
	Role        models.Role        `json:"role"`
	FirstName   string             `json:"firstName"`
	LastName    string             `json:"lastName"`
	PhoneNumber string             `json:"phoneNumber"`
	Age         int                `json:"age"`
	LicenseType models.LicenseType `json:"licenseType"`
	VehicleType models.VehicleType `json:"vehicleType"`
}

// Create adds a new account.
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	req.Username = strings.TrimSpace(req.Username)
	if len(req.Username) < 3 {
		return fiber.NewError(fiber.StatusBadRequest, "username must be at least 3 characters")
	}
	if len(req.Password) < 6 {
		return fiber.NewError(fiber.StatusBadRequest, "password must be at least 6 characters")
	}
	if !req.Role.IsValid() {
		return fiber.NewError(fiber.StatusBadRequest, "invalid role")
	}
	if strings.TrimSpace(req.FirstName) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "first name is required")
	}
	if req.Role == models.RoleMessenger {
		if req.LicenseType != "" && !req.LicenseType.IsValid() {
			return fiber.NewError(fiber.StatusBadRequest, "invalid license type")
		}
		if req.VehicleType != "" && !req.VehicleType.IsValid() {
			return fiber.NewError(fiber.StatusBadRequest, "invalid vehicle type")
		}
	}
	if h.credentials.UsernameTaken(req.Username, "") {
		return fiber.NewError(fiber.StatusConflict, "username already taken")
	}

	cred, err := h.credentials.AddCredential(c.Context(), models.Credential{
		Username:    req.Username,
		Role:        req.Role,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Age:         req.Age,
		LicenseType: req.LicenseType,
		VehicleType: req.VehicleType,
	}, req.Password)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": cred})
}

// Update applies a partial account update.
func (h *UserHandler) Update(c *fiber.Ctx) error {
	var update store.CredentialUpdate
	if err := c.BodyParser(&update); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	id := c.Params("id")
	if update.Username != nil {
		trimmed := strings.TrimSpace(*update.Username)
		if len(trimmed) < 3 {
			return fiber.NewError(fiber.StatusBadRequest, "username must be at least 3 characters")
		}
		if h.credentials.UsernameTaken(trimmed, id) {
			return fiber.NewError(fiber.StatusConflict, "username already taken")
		}
		update.Username = &trimmed
	}
	if update.Password != nil && *update.Password != "" && len(*update.Password) < 6 {
		return fiber.NewError(fiber.StatusBadRequest, "password must be at least 6 characters")
	}
	if update.Role != nil && !update.Role.IsValid() {
		return fiber.NewError(fiber.StatusBadRequest, "invalid role")
	}
	if update.LicenseType != nil && *update.LicenseType != "" && !update.LicenseType.IsValid() {
		return fiber.NewError(fiber.StatusBadRequest, "invalid license type")
	}
	if update.VehicleType != nil && *update.VehicleType != "" && !update.VehicleType.IsValid() {
		return fiber.NewError(fiber.StatusBadRequest, "invalid vehicle type")
	}

	cred, err := h.credentials.UpdateCredential(c.Context(), id, update)
	if err != nil {
		return err
	}
	if cred == nil {
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	}
	return c.JSON(fiber.Map{"success": true, "data": cred})
}

// Delete removes an account. Deliveries and pickups keep any dangling
// messenger reference, there is no cascade.
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if h.credentials.FindByID(c.Params("id")) == nil {
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	}
	if err := h.credentials.DeleteCredential(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
