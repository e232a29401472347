package models

import (
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Appointment binds one client to one TimeSlot for one service. The partial
// unique index on availability_id guarantees at most one confirmed
// appointment per slot, even under concurrent bookings; cancelled and
// completed rows fall out of the index and free the slot.
type Appointment struct {
	gorm.Model
	UserID         uint              `json:"user_id" gorm:"not null;index"`
	User           User              `json:"user,omitempty" gorm:"foreignKey:UserID"`
	AvailabilityID uint              `json:"availability_id" gorm:"not null;uniqueIndex:uniq_confirmed_slot,where:status = 'confirmed'"`
	Availability   TimeSlot          `json:"availability,omitempty" gorm:"foreignKey:AvailabilityID"`
	ServiceType    string            `json:"service_type" gorm:"not null"`
	ClientName     string            `json:"client_name"`
	Notes          string            `json:"notes"`
	LikedStyles    datatypes.JSON    `json:"liked_styles"`
	Status         AppointmentStatus `json:"status" gorm:"type:varchar(16);not null;default:'confirmed';index"`
	ContactEmail   string            `json:"contact_email"`
	ContactPhone   string            `json:"contact_phone"`

	ConfirmationSent bool `json:"confirmation_sent" gorm:"default:false"`
	Reminder24hSent  bool `json:"reminder_24h_sent" gorm:"column:reminder_24h_sent;default:false"`
	Reminder1hSent   bool `json:"reminder_1h_sent" gorm:"column:reminder_1h_sent;default:false"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = StatusConfirmed
	}
	return nil
}

// UpdateStatus enforces the appointment lifecycle: confirmed is the only
// live state, completed and cancelled are terminal.
func (a *Appointment) UpdateStatus(tx *gorm.DB, newStatus AppointmentStatus) error {
	switch a.Status {
	case StatusConfirmed:
		if newStatus != StatusCompleted && newStatus != StatusCancelled {
			return fmt.Errorf("invalid transition from confirmed to %s", newStatus)
		}
	case StatusCompleted, StatusCancelled:
		return fmt.Errorf("no transitions allowed from %s", a.Status)
	default:
		return fmt.Errorf("unknown status %s", a.Status)
	}

	a.Status = newStatus
	return tx.Model(a).Update("status", newStatus).Error
}
