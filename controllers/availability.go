package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/randv/experience-api/db"
	"github.com/randv/experience-api/models"
	"github.com/randv/experience-api/redis"
	"github.com/randv/experience-api/utils"
)

// GetAllSlots returns all availability slots, optionally filtered by date
// range. Admin calendar view; includes blocked and past slots.
func GetAllSlots(c *fiber.Ctx) error {
	query := db.DB.Model(&models.TimeSlot{}).Order("date ASC, start_time ASC")

	if from := c.Query("from"); from != "" {
		fromDate, err := time.Parse("2006-01-02", from)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Invalid from date, expected YYYY-MM-DD",
			})
		}
		query = query.Where("date >= ?", fromDate)
	}
	if to := c.Query("to"); to != "" {
		toDate, err := time.Parse("2006-01-02", to)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Invalid to date, expected YYYY-MM-DD",
			})
		}
		query = query.Where("date < ?", toDate.AddDate(0, 0, 1))
	}

	var slots []models.TimeSlot
	if err := query.Find(&slots).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch slots",
			Error:   err.Error(),
		})
	}
	return c.JSON(slots)
}

// CreateSlot adds a new availability slot to the calendar.
func CreateSlot(c *fiber.Ctx) error {
	type SlotInput struct {
		Date      string `json:"date"`
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
	}

	input := new(SlotInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	date, err := time.ParseInLocation("2006-01-02", input.Date, utils.ShopLocation())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid date, expected YYYY-MM-DD",
		})
	}

	slot := models.TimeSlot{
		Date:      date,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
	}
	if err := slot.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid slot",
			Error:   err.Error(),
		})
	}

	if err := db.DB.Create(&slot).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create slot",
			Error:   err.Error(),
		})
	}

	redis.InvalidateRemaining()
	return c.Status(fiber.StatusCreated).JSON(slot)
}

// BlockSlot blocks a slot so it is no longer bookable; an optional reason
// is kept for the admin calendar.
func BlockSlot(c *fiber.Ctx) error {
	type BlockInput struct {
		Reason string `json:"reason"`
	}

	id := c.Params("id")
	var slot models.TimeSlot
	if err := db.DB.First(&slot, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Slot not found",
		})
	}

	input := new(BlockInput)
	if err := c.BodyParser(input); err == nil && input.Reason != "" {
		slot.BlockReason = &input.Reason
	}
	slot.IsBlocked = true

	if err := db.DB.Save(&slot).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to block slot",
			Error:   err.Error(),
		})
	}

	redis.InvalidateRemaining()
	return c.JSON(slot)
}

// UnblockSlot makes a blocked slot bookable again.
func UnblockSlot(c *fiber.Ctx) error {
	id := c.Params("id")
	var slot models.TimeSlot
	if err := db.DB.First(&slot, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Slot not found",
		})
	}

	slot.IsBlocked = false
	slot.BlockReason = nil

	if err := db.DB.Save(&slot).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to unblock slot",
			Error:   err.Error(),
		})
	}

	redis.InvalidateRemaining()
	return c.JSON(slot)
}
