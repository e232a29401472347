package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/randv/experience-api/db"
	"github.com/randv/experience-api/notifications"
	"github.com/randv/experience-api/reminders"
	"github.com/randv/experience-api/utils"
)

// RunReminderScan is the scan entry point for the external scheduled
// trigger. The scan is idempotent, so an overlapping or repeated trigger is
// harmless; cadence belongs to the hosting environment.
func RunReminderScan(c *fiber.Ctx) error {
	summary, err := reminders.Scan(db.DB, notifications.NewService(), time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to process reminders",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"checked":       summary.Checked,
		"reminders_24h": summary.Reminders24h,
		"reminders_1h":  summary.Reminders1h,
	})
}
