package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)
	auth.Get("/me", handler.AuthRequired, handler.CurrentUser)
	auth.Delete("/account", handler.AuthRequired, handler.DeleteAccount)

	supplements := api.Group("/supplements", handler.AuthRequired)
	supplements.Get("", handler.GetSupplements)
	supplements.Get("/:id", handler.GetSupplement)

	logs := api.Group("/logs", handler.AuthRequired)
	logs.Get("", handler.GetLogs)
	logs.Post("", handler.CreateLog)
	logs.Delete("/:id", handler.DeleteLog)

	analysis := api.Group("/analysis", handler.AuthRequired)
	analysis.Post("/preview", handler.PreviewAnalysis)

	timeline := api.Group("/timeline", handler.AuthRequired)
	timeline.Get("", handler.GetTimeline)
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
