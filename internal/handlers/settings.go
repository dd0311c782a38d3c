package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/courierops/internal/store"
)

// SettingsHandler manages the app-wide preference endpoints.
type SettingsHandler struct {
	settings *store.SettingsStore
}

// NewSettingsHandler constructs SettingsHandler.
func NewSettingsHandler(settings *store.SettingsStore) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Get returns the current settings snapshot.
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "data": h.settings.Settings()})
}

type updateSettingsRequest struct {
	LogoURI     *string          `json:"logoUri"`
	CompanyName *string          `json:"companyName"`
	ThemeMode   *store.ThemeMode `json:"themeMode"`
}

// Update applies any subset of the settings. An explicit empty logo URI
// removes the stored logo.
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	var req updateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.ThemeMode != nil && !req.ThemeMode.IsValid() {
		return fiber.NewError(fiber.StatusBadRequest, "theme mode must be light or dark")
	}

	if req.LogoURI != nil {
		if err := h.settings.SetLogo(c.Context(), *req.LogoURI); err != nil {
			return err
		}
	}
	if req.CompanyName != nil {
		if err := h.settings.SetCompanyName(c.Context(), *req.CompanyName); err != nil {
			return err
		}
	}
	if req.ThemeMode != nil {
		if err := h.settings.SetTheme(c.Context(), *req.ThemeMode); err != nil {
			return err
		}
	}

	return c.JSON(fiber.Map{"success": true, "data": h.settings.Settings()})
}
