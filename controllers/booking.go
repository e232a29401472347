package controllers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/randv/experience-api/booking"
	"github.com/randv/experience-api/db"
	"github.com/randv/experience-api/models"
	"github.com/randv/experience-api/notifications"
	"github.com/randv/experience-api/redis"
	"github.com/randv/experience-api/utils"
)

// GetBookableSlots returns the slots a client can book for a date range
// (defaults to the next 7 days).
func GetBookableSlots(c *fiber.Ctx) error {
	now := time.Now()
	from := now
	to := now.AddDate(0, 0, 7)

	if q := c.Query("from"); q != "" {
		parsed, err := time.ParseInLocation("2006-01-02", q, utils.ShopLocation())
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Invalid from date, expected YYYY-MM-DD",
			})
		}
		from = parsed
	}
	if q := c.Query("to"); q != "" {
		parsed, err := time.ParseInLocation("2006-01-02", q, utils.ShopLocation())
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Invalid to date, expected YYYY-MM-DD",
			})
		}
		to = parsed
	}

	slots, err := booking.NewEngine(db.DB).ListBookable(now, from, to)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch available slots",
			Error:   err.Error(),
		})
	}
	return c.JSON(slots)
}

// GetRemainingSlots returns the scarcity count for the rolling week plus
// the urgency copy the landing banner shows. Cached in Redis with a short
// TTL; every reservation change invalidates the cache.
func GetRemainingSlots(c *fiber.Ctx) error {
	remaining, cached := redis.GetRemaining()
	if !cached {
		var err error
		remaining, err = booking.NewEngine(db.DB).RemainingSlots(time.Now())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to compute remaining slots",
				Error:   err.Error(),
			})
		}
		redis.SetRemaining(remaining)
	}

	message := ""
	switch {
	case remaining == 0:
		message = "This week is fully booked - check next week for availability"
	case remaining <= 3:
		message = "Limited availability - book now to secure your experience"
	}

	return c.JSON(fiber.Map{
		"remaining": remaining,
		"message":   message,
	})
}

// CreateBooking reserves a slot for the authenticated client and kicks off
// the confirmation notifications without blocking on them.
func CreateBooking(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
			Message: "User ID not found in context",
		})
	}

	var req booking.ReserveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	req.UserID = userID

	appointment, err := booking.NewEngine(db.DB).Reserve(time.Now(), req)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrNotAuthenticated):
			return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
				Message: "Authentication required",
			})
		case errors.Is(err, booking.ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: err.Error(),
			})
		case errors.Is(err, booking.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Slot not found",
			})
		case errors.Is(err, booking.ErrSlotUnavailable):
			return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
				Message: "Time slot not available",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to create booking",
				Error:   err.Error(),
			})
		}
	}

	redis.InvalidateRemaining()

	// Fire-and-forget: the reservation stands even if every send fails.
	go sendBookingConfirmation(appointment.ID)

	return c.Status(fiber.StatusCreated).JSON(appointment)
}

// sendBookingConfirmation dispatches the confirmation email and SMS for a
// fresh appointment and marks confirmation_sent after the attempt. Failures
// are logged and dropped; there is no retry queue.
func sendBookingConfirmation(appointmentID uint) {
	var appointment models.Appointment
	err := db.DB.Preload("Availability").Preload("User").First(&appointment, appointmentID).Error
	if err != nil {
		log.Printf("Confirmation dispatch: appointment %d not found: %v", appointmentID, err)
		return
	}

	clientName := appointment.ClientName
	if clientName == "" {
		clientName = appointment.User.Name
	}
	if clientName == "" {
		clientName = "Valued Client"
	}

	startAt := appointment.Availability.StartAt(utils.ShopLocation())
	service := models.ServiceDisplayName(db.DB, appointment.ServiceType)
	date := startAt.Format("Monday, January 2, 2006")
	timeStr := startAt.Format("3:04 PM")

	notifier := notifications.NewService()

	if appointment.ContactEmail != "" {
		subject, body := notifications.ConfirmationEmail(clientName, service, date, timeStr)
		if err := notifier.SendEmail(appointment.ContactEmail, subject, body); err != nil {
			log.Printf("Failed to send confirmation email for appointment %d: %v", appointment.ID, err)
		}
	}
	if appointment.ContactPhone != "" {
		if err := notifier.SendSMS(appointment.ContactPhone, notifications.ConfirmationSMS(clientName, service, date, timeStr)); err != nil {
			log.Printf("Failed to send confirmation SMS for appointment %d: %v", appointment.ID, err)
		}
	}

	if err := db.DB.Model(&appointment).Update("confirmation_sent", true).Error; err != nil {
		log.Printf("Failed to mark confirmation_sent for appointment %d: %v", appointment.ID, err)
	}
}

// GetMyAppointments lists the authenticated client's appointments.
func GetMyAppointments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
			Message: "User ID not found in context",
		})
	}

	var appointments []models.Appointment
	err := db.DB.Preload("Availability").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&appointments).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch appointments",
			Error:   err.Error(),
		})
	}
	return c.JSON(appointments)
}

// CancelBooking cancels a confirmed appointment. Clients can cancel their
// own; the admin can cancel any. The slot becomes bookable again.
func CancelBooking(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)
	role, _ := c.Locals("role").(string)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid appointment ID",
		})
	}

	var appointment models.Appointment
	if err := db.DB.First(&appointment, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Appointment not found",
		})
	}
	if appointment.UserID != userID && role != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Message: "You can only cancel your own appointments",
		})
	}

	cancelled, err := booking.NewEngine(db.DB).Cancel(appointment.ID)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Appointment not found",
			})
		}
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "Failed to cancel appointment",
			Error:   err.Error(),
		})
	}

	redis.InvalidateRemaining()
	return c.JSON(cancelled)
}

// CompleteBooking marks an appointment completed after the session. Admin
// only.
func CompleteBooking(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid appointment ID",
		})
	}

	completed, err := booking.NewEngine(db.DB).Complete(uint(id))
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Appointment not found",
			})
		}
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "Failed to complete appointment",
			Error:   err.Error(),
		})
	}

	return c.JSON(completed)
}

// GetServices lists the service catalog shown on the booking page.
func GetServices(c *fiber.Ctx) error {
	var services []models.Service
	if err := db.DB.Order("cost ASC").Find(&services).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch services",
			Error:   err.Error(),
		})
	}
	return c.JSON(services)
}
