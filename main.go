package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/randv/experience-api/cron"
	"github.com/randv/experience-api/db"
	"github.com/randv/experience-api/redis"
	"github.com/randv/experience-api/routes"
)

func main() {
	app := fiber.New()
	db.Init()
	redis.InitRedis()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("The Rand V Experience API")
	})

	routes.SetupAuthRoutes(app)
	routes.SetupBookingRoutes(app)
	routes.SetupAvailabilityRoutes(app)
	routes.SetupLookbookRoutes(app)
	routes.SetupMessageRoutes(app)
	routes.SetupAdminRoutes(app)
	routes.SetupCronRoutes(app)

	cron.StartReminderJobs()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	log.Fatal(app.Listen(":" + port))
}
