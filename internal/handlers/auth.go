package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/courierops/internal/config"
	"github.com/example/courierops/internal/middleware"
	"github.com/example/courierops/internal/store"
	"github.com/example/courierops/internal/utils"
)

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	credentials *store.CredentialStore
	cfg         *config.Config
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(credentials *store.CredentialStore, cfg *config.Config) *AuthHandler {
	return &AuthHandler{credentials: credentials, cfg: cfg}
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates the bootstrap admin account. It fails once any
// credential exists.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
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

	user, err := h.credentials.Register(c.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrAdminExists) {
			return fiber.NewError(fiber.StatusConflict, "an administrator is already registered")
		}
		return err
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"user":    user,
		"token":   token,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates an existing account. Unknown usernames and wrong
// passwords produce the same response.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.credentials.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
		}
		return err
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
		"token":   token,
	})
}

// Logout clears the persisted session.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.credentials.Logout(c.Context()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// Session returns the persisted session identity, so a restarted client
// can restore its signed-in state without re-authenticating.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	user := h.credentials.CurrentUser()
	if user == nil {
		return fiber.NewError(fiber.StatusNotFound, "no active session")
	}

	if id, ok := middleware.CurrentUserID(c); ok && id != user.ID {
		return fiber.NewError(fiber.StatusNotFound, "no active session")
	}

	return c.JSON(fiber.Map{"success": true, "user": user})
}
