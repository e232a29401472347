package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/randv/experience-api/controllers"
	"github.com/randv/experience-api/middleware"
)

// SetupAdminRoutes configures the dashboard overview.
func SetupAdminRoutes(app *fiber.App) {
	admin := app.Group("/admin", middleware.Protected(), middleware.RequireAdmin())
	admin.Get("/dashboard", controllers.GetDashboardOverview)
}
