package httpapi

import "github.com/gofiber/fiber/v2"

// RegisterRoutes wires all HTTP routes onto the given Fiber app. Each
// endpoint is defined exactly once; the gates compose left to right.
func RegisterRoutes(
	app *fiber.App,
	authH *AuthHandler,
	usersH *UsersHandler,
	commentsH *CommentsHandler,
	healthH *HealthHandler,
	requireAuth fiber.Handler,
	requireAdmin fiber.Handler,
) {
	api := app.Group("/api")

	api.Get("/health", healthH.Check)
	api.Get("/leaderboard", usersH.Leaderboard)

	a := api.Group("/auth")
	a.Post("/register", authH.Register)
	a.Post("/login", authH.Login)
	a.Get("/me", requireAuth, authH.Me)

	u := api.Group("/users")
	u.Get("/", requireAuth, usersH.List)
	u.Put("/progress", requireAuth, usersH.UpdateProgress)
	u.Delete("/me", requireAuth, usersH.DeleteMe)
	u.Get("/stats/registrations", requireAuth, requireAdmin, usersH.RegistrationStats)

	cm := api.Group("/comments")
	cm.Post("/", requireAuth, commentsH.Create)
	cm.Get("/", commentsH.List)
	cm.Put("/:id", requireAuth, commentsH.Update)
	cm.Delete("/:id", requireAuth, commentsH.Delete)
}
