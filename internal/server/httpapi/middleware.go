package httpapi

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/academy-challenge/backend/internal/common"
	"github.com/academy-challenge/backend/internal/logging"
	"github.com/academy-challenge/backend/internal/server/auth"
	"github.com/academy-challenge/backend/internal/server/services"
)

// Locals keys set by the authentication gate.
const (
	localUserID    = "userID"
	localTokenRole = "tokenRole"
)

// UserID returns the authenticated user id attached by RequireAuth, or ""
// when the request did not pass the gate.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(localUserID).(string)
	return id
}

// tokenFromRequest extracts the bearer token: the Authorization header with
// an optional "Bearer " prefix, falling back to X-Auth-Token for older
// clients.
func tokenFromRequest(c *fiber.Ctx) string {
	header := c.Get(common.AuthHeaderName)
	if header != "" {
		if parts := strings.SplitN(header, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return strings.TrimSpace(header)
	}
	return strings.TrimSpace(c.Get(common.LegacyTokenHeaderName))
}

// RequireAuth is the authentication gate. It verifies the bearer token and
// attaches the decoded identity to the request, or stops the chain with a
// 401. Missing and invalid tokens produce distinct log records but the
// same external shape.
func RequireAuth(secretKey []byte, logger logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := tokenFromRequest(c)
		if token == "" {
			return respondError(c, http.StatusUnauthorized, "No token, authorization denied")
		}

		claims, err := auth.ParseToken(token, secretKey)
		if err != nil {
			logger.Warn(c.Context(), "rejected token", "reason", err, "path", c.Path())
			return respondError(c, http.StatusUnauthorized, "Token is not valid")
		}

		c.Locals(localUserID, claims.UserID)
		c.Locals(localTokenRole, claims.Role)
		return c.Next()
	}
}

// RequireAdmin is the authorization gate; it composes after RequireAuth.
// The role is re-read from the store on every request, so a demotion takes
// effect before the old token expires. A vanished identity also yields
// 403, never 404.
func RequireAdmin(users *services.UserService, logger logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := UserID(c)
		if userID == "" {
			return respondError(c, http.StatusUnauthorized, "No token, authorization denied")
		}

		role, err := users.CurrentRole(c.Context(), userID)
		if err != nil {
			logger.Warn(c.Context(), "role lookup failed", "user_id", userID, "error", err)
			return respondError(c, http.StatusForbidden, "Access denied. Admin role required.")
		}
		if role != common.RoleAdmin {
			return respondError(c, http.StatusForbidden, "Access denied. Admin role required.")
		}

		return c.Next()
	}
}
