// Package httpapi exposes the backend over HTTP using Fiber: route
// registration, the authentication and authorization gates, and the JSON
// handlers for auth, users, and comments.
package httpapi

import "github.com/gofiber/fiber/v2"

// ErrorResponse is the uniform error body. Messages stay generic; detail
// goes to the server log.
type ErrorResponse struct {
	Message string `json:"message"`
}

func respondJSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func respondError(c *fiber.Ctx, status int, message string) error {
	return respondJSON(c, status, ErrorResponse{Message: message})
}
