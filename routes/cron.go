package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/randv/experience-api/controllers"
	"github.com/randv/experience-api/middleware"
)

// SetupCronRoutes exposes the scan entry point for the platform scheduler.
func SetupCronRoutes(app *fiber.App) {
	cronGroup := app.Group("/cron", middleware.CronAuth())
	cronGroup.Get("/send-reminders", controllers.RunReminderScan)
}
