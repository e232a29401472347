package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// TimeSlot is one bookable unit of the shop calendar: a date plus a
// start/end time in 24h "HH:MM" format. Slots are created and
// blocked/unblocked by the admin; they are never deleted in the normal flow.
type TimeSlot struct {
	gorm.Model
	Date        time.Time `json:"date" gorm:"type:date;not null;index"`
	StartTime   string    `json:"start_time" gorm:"not null"` // Format "HH:MM" in 24h
	EndTime     string    `json:"end_time" gorm:"not null"`   // Format "HH:MM" in 24h
	IsBlocked   bool      `json:"is_blocked" gorm:"default:false;index"`
	BlockReason *string   `json:"block_reason"`
}

// TableName keeps the table name the product has always used.
func (TimeSlot) TableName() string {
	return "availability"
}

// Validate checks the slot's time range.
func (s *TimeSlot) Validate() error {
	start, err := time.Parse("15:04", s.StartTime)
	if err != nil {
		return fmt.Errorf("invalid start time format: %s", s.StartTime)
	}
	end, err := time.Parse("15:04", s.EndTime)
	if err != nil {
		return fmt.Errorf("invalid end time format: %s", s.EndTime)
	}
	if !start.Before(end) {
		return fmt.Errorf("start time must be before end time")
	}
	return nil
}

func (s *TimeSlot) BeforeCreate(tx *gorm.DB) error {
	return s.Validate()
}

// StartAt combines the slot's date and start time into a single instant
// in the given location.
func (s *TimeSlot) StartAt(loc *time.Location) time.Time {
	start, err := time.Parse("15:04", s.StartTime)
	if err != nil {
		return s.Date
	}
	return time.Date(s.Date.Year(), s.Date.Month(), s.Date.Day(),
		start.Hour(), start.Minute(), 0, 0, loc)
}
