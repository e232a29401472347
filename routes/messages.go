package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/randv/experience-api/controllers"
	"github.com/randv/experience-api/middleware"
)

// SetupMessageRoutes configures the client↔admin DM channel.
func SetupMessageRoutes(app *fiber.App) {
	messages := app.Group("/messages", middleware.Protected())
	messages.Get("/", controllers.GetMyConversation)
	messages.Post("/", controllers.SendMessage)
	messages.Post("/attachments", controllers.UploadMessageAttachment)
	messages.Get("/quick-replies", controllers.GetQuickReplies)

	admin := app.Group("/admin/conversations", middleware.Protected(), middleware.RequireAdmin())
	admin.Get("/", controllers.GetAllConversations)
	admin.Post("/:id/reply", controllers.AdminReply)
}
