package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/randv/experience-api/controllers"
	"github.com/randv/experience-api/middleware"
)

// SetupBookingRoutes configures the booking flow and the scarcity banner.
func SetupBookingRoutes(app *fiber.App) {
	app.Get("/services", controllers.GetServices)

	bookingGroup := app.Group("/booking")
	bookingGroup.Get("/slots", controllers.GetBookableSlots)
	bookingGroup.Get("/remaining", controllers.GetRemainingSlots)
	bookingGroup.Post("/", middleware.Protected(), controllers.CreateBooking)
	bookingGroup.Get("/mine", middleware.Protected(), controllers.GetMyAppointments)
	bookingGroup.Delete("/:id", middleware.Protected(), controllers.CancelBooking)
	bookingGroup.Post("/:id/complete", middleware.Protected(), middleware.RequireAdmin(), controllers.CompleteBooking)
}
