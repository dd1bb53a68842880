package webserver

import (
	"github.com/gofiber/fiber/v2"
)

func routes(app *fiber.App, controllers Controllers) {
	v1 := app.Group("/v1")

	v1.Get("/health/version", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"version": c.App().Config().AppName})
	})

	v1.Post("/account", controllers.Accounts.Create)
	v1.Get("/account", controllers.RequireSessionMiddleware, controllers.Accounts.Get)
	v1.Post("/account/sessions/email", controllers.Accounts.CreateSession)
	v1.Delete("/account/sessions/:id", controllers.RequireSessionMiddleware, controllers.Accounts.DeleteSession)

	// Profiles are written right after signing up, before any session exists,
	// so only changes to existing documents require one
	documents := v1.Group("/databases/:database/collections/:collection/documents")
	documents.Get("/", controllers.Databases.List)
	documents.Post("/", controllers.Databases.Create)
	documents.Get("/:id", controllers.Databases.Get)
	documents.Patch("/:id", controllers.RequireSessionMiddleware, controllers.Databases.Update)
	documents.Delete("/:id", controllers.RequireSessionMiddleware, controllers.Databases.Delete)

	files := v1.Group("/storage/buckets/:bucket/files")
	files.Post("/", controllers.RequireSessionMiddleware, controllers.Storage.Create)
	files.Delete("/:id", controllers.RequireSessionMiddleware, controllers.Storage.Delete)
	files.Get("/:id/preview", controllers.Storage.Preview)
	files.Get("/:id/view", controllers.Storage.View)

	v1.Get("/avatars/initials", controllers.Avatars.Initials)
}
