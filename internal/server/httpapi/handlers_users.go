package httpapi

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/academy-challenge/backend/internal/common"
	"github.com/academy-challenge/backend/internal/logging"
	"github.com/academy-challenge/backend/internal/server/models"
	"github.com/academy-challenge/backend/internal/server/services"
)

// UsersHandler serves the user listing, progress updates, account
// deletion, the public leaderboard, and admin statistics.
type UsersHandler struct {
	users  *services.UserService
	logger logging.Logger
}

func NewUsersHandler(users *services.UserService, logger logging.Logger) *UsersHandler {
	return &UsersHandler{users: users, logger: logger}
}

func (h *UsersHandler) List(c *fiber.Ctx) error {
	list, err := h.users.ListUsers(c.Context())
	if err != nil {
		h.logger.Error(c.Context(), "user listing failed", "error", err)
		return respondError(c, http.StatusInternalServerError, "Server error")
	}

	return respondJSON(c, http.StatusOK, list)
}

// progressRequest uses pointer fields so that absent keys are
// distinguishable from zero values.
type progressRequest struct {
	AcademicPoints  *int64    `json:"academic_points"`
	Level           *int      `json:"level"`
	UnlockedModules *[]string `json:"unlocked_modules"`
}

// UpdateProgress writes the caller's own progress. The target row comes
// from the verified token; any id in the body is ignored.
func (h *UsersHandler) UpdateProgress(c *fiber.Ctx) error {
	var req progressRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid JSON payload")
	}
	if req.AcademicPoints == nil || req.Level == nil || req.UnlockedModules == nil {
		return respondError(c, http.StatusBadRequest, "Please provide all required progress fields")
	}

	user, err := h.users.UpdateProgress(c.Context(), UserID(c), models.Progress{
		AcademicPoints:  *req.AcademicPoints,
		Level:           *req.Level,
		UnlockedModules: *req.UnlockedModules,
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "User not found")
		}
		h.logger.Error(c.Context(), "progress update failed", "error", err)
		return respondError(c, http.StatusInternalServerError, "Server error")
	}

	return respondJSON(c, http.StatusOK, fiber.Map{
		"message": "Progress updated successfully",
		"user":    user,
	})
}

func (h *UsersHandler) DeleteMe(c *fiber.Ctx) error {
	deletedID, err := h.users.DeleteAccount(c.Context(), UserID(c))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "User not found")
		}
		h.logger.Error(c.Context(), "account deletion failed", "error", err)
		return respondError(c, http.StatusInternalServerError, "Server error")
	}

	return respondJSON(c, http.StatusOK, fiber.Map{
		"message": "User account deleted successfully",
		"id":      deletedID,
	})
}

func (h *UsersHandler) Leaderboard(c *fiber.Ctx) error {
	entries, err := h.users.Leaderboard(c.Context())
	if err != nil {
		h.logger.Error(c.Context(), "leaderboard query failed", "error", err)
		return respondError(c, http.StatusInternalServerError, "Server error")
	}

	return respondJSON(c, http.StatusOK, entries)
}

func (h *UsersHandler) RegistrationStats(c *fiber.Ctx) error {
	stats, err := h.users.RegistrationStats(c.Context())
	if err != nil {
		h.logger.Error(c.Context(), "registration stats query failed", "error", err)
		return respondError(c, http.StatusInternalServerError, "Server error")
	}

	return respondJSON(c, http.StatusOK, stats)
}
