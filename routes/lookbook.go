package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/randv/experience-api/controllers"
	"github.com/randv/experience-api/middleware"
)

// SetupLookbookRoutes configures the lookbook and swipe-to-like routes.
func SetupLookbookRoutes(app *fiber.App) {
	lookbook := app.Group("/lookbook")
	lookbook.Get("/", controllers.GetLookbook)
	lookbook.Post("/", middleware.Protected(), middleware.RequireAdmin(), controllers.CreateLookbookItem)
	lookbook.Delete("/:id", middleware.Protected(), middleware.RequireAdmin(), controllers.DeleteLookbookItem)
	lookbook.Post("/:id/like", middleware.Protected(), controllers.LikeStyle)
	lookbook.Delete("/:id/like", middleware.Protected(), controllers.UnlikeStyle)
	lookbook.Get("/likes/mine", middleware.Protected(), controllers.GetMyLikes)
}
