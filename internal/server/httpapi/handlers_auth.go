package httpapi

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/academy-challenge/backend/internal/common"
	"github.com/academy-challenge/backend/internal/logging"
	"github.com/academy-challenge/backend/internal/server/services"
)

// AuthHandler serves registration, login, and the self-profile route.
type AuthHandler struct {
	users  *services.UserService
	logger logging.Logger
}

func NewAuthHandler(users *services.UserService, logger logging.Logger) *AuthHandler {
	return &AuthHandler{users: users, logger: logger}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid JSON payload")
	}

	result, err := h.users.Register(c.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrValidation):
			return respondError(c, http.StatusBadRequest, "Please provide username, email and password")
		case errors.Is(err, common.ErrEmailTaken):
			return respondError(c, http.StatusBadRequest, "User with this email already exists")
		default:
			h.logger.Error(c.Context(), "registration failed", "error", err)
			return respondError(c, http.StatusInternalServerError, "Server error")
		}
	}

	return respondJSON(c, http.StatusCreated, fiber.Map{
		"message": "User registered successfully",
		"user":    result.User,
		"token":   result.Token,
	})
}

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid JSON payload")
	}

	result, err := h.users.Login(c.Context(), req.Email, req.Password, req.RememberMe)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			return respondError(c, http.StatusBadRequest, "Invalid credentials")
		}
		h.logger.Error(c.Context(), "login failed", "error", err)
		return respondError(c, http.StatusInternalServerError, "Server error")
	}

	return respondJSON(c, http.StatusOK, fiber.Map{
		"message": "Logged in successfully",
		"user":    result.User,
		"token":   result.Token,
	})
}

// Me returns the caller's own sanitized record.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.users.Profile(c.Context(), UserID(c))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "User not found")
		}
		h.logger.Error(c.Context(), "profile fetch failed", "error", err)
		return respondError(c, http.StatusInternalServerError, "Server error")
	}

	return respondJSON(c, http.StatusOK, user)
}
