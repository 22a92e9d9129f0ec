package httpapi

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/academy-challenge/backend/internal/logging"
)

// HealthHandler exposes a connectivity probe that round-trips a query to
// the database.
type HealthHandler struct {
	db     *sql.DB
	logger logging.Logger
}

func NewHealthHandler(db *sql.DB, logger logging.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	var now time.Time
	if err := h.db.QueryRowContext(c.Context(), `SELECT now()`).Scan(&now); err != nil {
		h.logger.Error(c.Context(), "health probe failed", "error", err)
		return respondError(c, http.StatusInternalServerError, "Database connection failed")
	}

	return respondJSON(c, http.StatusOK, fiber.Map{
		"message":     "Database connection successful!",
		"currentTime": now,
	})
}
