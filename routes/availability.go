package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/randv/experience-api/controllers"
	"github.com/randv/experience-api/middleware"
)

// SetupAvailabilityRoutes configures the admin calendar management routes.
func SetupAvailabilityRoutes(app *fiber.App) {
	availability := app.Group("/availability", middleware.Protected(), middleware.RequireAdmin())
	availability.Get("/", controllers.GetAllSlots)
	availability.Post("/", controllers.CreateSlot)
	availability.Post("/:id/block", controllers.BlockSlot)
	availability.Post("/:id/unblock", controllers.UnblockSlot)
}
