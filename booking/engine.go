package booking

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/randv/experience-api/models"
	"github.com/randv/experience-api/utils"
)

// Engine gates appointment creation against slot availability. All
// coordination lives in the storage layer (one transaction plus the partial
// unique index on confirmed appointments), never in process-local locks,
// so the service can run as multiple stateless instances.
type Engine struct {
	db  *gorm.DB
	loc *time.Location
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db, loc: utils.ShopLocation()}
}

// ReserveRequest carries the booking form input.
type ReserveRequest struct {
	SlotID       uint           `json:"slot_id"`
	UserID       uint           `json:"-"`
	ServiceType  string         `json:"service_type"`
	ClientName   string         `json:"client_name"`
	ContactEmail string         `json:"contact_email"`
	ContactPhone string         `json:"contact_phone"`
	Notes        string         `json:"notes"`
	LikedStyles  datatypes.JSON `json:"liked_styles"`
}

// ListBookable returns the slots a client can still book between from and
// to (inclusive calendar dates): unblocked, no confirmed appointment, and
// not already started relative to now. Ordered by date then start time.
func (e *Engine) ListBookable(now, from, to time.Time) ([]models.TimeSlot, error) {
	var slots []models.TimeSlot
	err := e.db.
		Where("date >= ? AND date < ?", utils.DayStart(from), utils.DayStart(to).AddDate(0, 0, 1)).
		Where("is_blocked = ?", false).
		Order("date ASC, start_time ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return slots, nil
	}

	slotIDs := make([]uint, 0, len(slots))
	for _, slot := range slots {
		slotIDs = append(slotIDs, slot.ID)
	}

	var booked []uint
	err = e.db.Model(&models.Appointment{}).
		Where("availability_id IN ? AND status = ?", slotIDs, models.StatusConfirmed).
		Pluck("availability_id", &booked).Error
	if err != nil {
		return nil, err
	}
	bookedSet := make(map[uint]bool, len(booked))
	for _, id := range booked {
		bookedSet[id] = true
	}

	bookable := make([]models.TimeSlot, 0, len(slots))
	for _, slot := range slots {
		if bookedSet[slot.ID] {
			continue
		}
		if slot.StartAt(e.loc).Before(now) {
			continue
		}
		bookable = append(bookable, slot)
	}
	return bookable, nil
}

// Reserve books a slot for a client. The availability check and the insert
// run in one transaction, and the partial unique index on confirmed
// appointments backstops the check, so two racing clients cannot both win:
// the loser gets ErrSlotUnavailable.
func (e *Engine) Reserve(now time.Time, req ReserveRequest) (*models.Appointment, error) {
	if req.UserID == 0 {
		return nil, ErrNotAuthenticated
	}
	if req.ContactEmail == "" && req.ContactPhone == "" {
		return nil, fmt.Errorf("%w: an email or phone number is required for confirmation", ErrValidation)
	}
	if req.ContactEmail != "" && !utils.IsValidEmail(req.ContactEmail) {
		return nil, fmt.Errorf("%w: contact email is malformed", ErrValidation)
	}
	if req.ServiceType == "" {
		return nil, fmt.Errorf("%w: a service must be selected", ErrValidation)
	}

	appointment := models.Appointment{
		UserID:         req.UserID,
		AvailabilityID: req.SlotID,
		ServiceType:    req.ServiceType,
		ClientName:     req.ClientName,
		Notes:          req.Notes,
		LikedStyles:    req.LikedStyles,
		ContactEmail:   req.ContactEmail,
		ContactPhone:   req.ContactPhone,
		Status:         models.StatusConfirmed,
	}

	err := e.db.Transaction(func(tx *gorm.DB) error {
		var slot models.TimeSlot
		if err := tx.First(&slot, req.SlotID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if slot.IsBlocked {
			return ErrSlotUnavailable
		}
		if slot.StartAt(e.loc).Before(now) {
			return ErrSlotUnavailable
		}

		var confirmed int64
		err := tx.Model(&models.Appointment{}).
			Where("availability_id = ? AND status = ?", slot.ID, models.StatusConfirmed).
			Count(&confirmed).Error
		if err != nil {
			return err
		}
		if confirmed > 0 {
			return ErrSlotUnavailable
		}

		if err := tx.Create(&appointment).Error; err != nil {
			// The index caught a race the pre-check missed.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrSlotUnavailable
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

// Cancel transitions a confirmed appointment to cancelled; the slot becomes
// bookable again for future listings.
func (e *Engine) Cancel(appointmentID uint) (*models.Appointment, error) {
	return e.transition(appointmentID, models.StatusCancelled)
}

// Complete marks a confirmed appointment as completed.
func (e *Engine) Complete(appointmentID uint) (*models.Appointment, error) {
	return e.transition(appointmentID, models.StatusCompleted)
}

func (e *Engine) transition(appointmentID uint, status models.AppointmentStatus) (*models.Appointment, error) {
	var appointment models.Appointment
	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&appointment, appointmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		return appointment.UpdateStatus(tx, status)
	})
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

// RemainingSlots counts the bookable slots in the rolling week starting at
// now. It is a pure function of slot and appointment state; the urgency
// banner recomputes it on every booking change.
func (e *Engine) RemainingSlots(now time.Time) (int, error) {
	slots, err := e.ListBookable(now, now, now.AddDate(0, 0, 7))
	if err != nil {
		return 0, err
	}
	return len(slots), nil
}
