package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/randv/experience-api/booking"
	"github.com/randv/experience-api/db"
	"github.com/randv/experience-api/models"
	"github.com/randv/experience-api/utils"
)

// GetDashboardOverview returns the admin's at-a-glance numbers: appointment
// counts by status, the scarcity count for the rolling week, and the next
// confirmed sessions.
func GetDashboardOverview(c *fiber.Ctx) error {
	var statistics struct {
		TotalAppointments int64     `json:"total_appointments"`
		ConfirmedCount    int64     `json:"confirmed_count"`
		CompletedCount    int64     `json:"completed_count"`
		CancelledCount    int64     `json:"cancelled_count"`
		RemainingThisWeek int       `json:"remaining_this_week"`
		LastUpdated       time.Time `json:"last_updated"`
	}

	db.DB.Model(&models.Appointment{}).Count(&statistics.TotalAppointments)
	db.DB.Model(&models.Appointment{}).Where("status = ?", models.StatusConfirmed).Count(&statistics.ConfirmedCount)
	db.DB.Model(&models.Appointment{}).Where("status = ?", models.StatusCompleted).Count(&statistics.CompletedCount)
	db.DB.Model(&models.Appointment{}).Where("status = ?", models.StatusCancelled).Count(&statistics.CancelledCount)

	now := time.Now()
	remaining, err := booking.NewEngine(db.DB).RemainingSlots(now)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to compute remaining slots",
			Error:   err.Error(),
		})
	}
	statistics.RemainingThisWeek = remaining
	statistics.LastUpdated = now

	var upcoming []models.Appointment
	err = db.DB.Preload("Availability").Preload("User").
		Joins("JOIN availability ON availability.id = appointments.availability_id").
		Where("appointments.status = ? AND availability.date >= ?", models.StatusConfirmed, utils.DayStart(now)).
		Order("availability.date ASC, availability.start_time ASC").
		Limit(10).
		Find(&upcoming).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch upcoming appointments",
			Error:   err.Error(),
		})
	}
	for i := range upcoming {
		upcoming[i].User.Password = ""
	}

	return c.JSON(fiber.Map{
		"statistics": statistics,
		"upcoming":   upcoming,
	})
}
