package reminders

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/randv/experience-api/models"
	"github.com/randv/experience-api/notifications"
	"github.com/randv/experience-api/utils"
)

// Counter tallies dispatch outcomes for one reminder threshold.
type Counter struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// Summary is the per-scan report returned to the trigger.
type Summary struct {
	Checked      int     `json:"checked"`
	Reminders24h Counter `json:"reminders_24h"`
	Reminders1h  Counter `json:"reminders_1h"`
}

// The windows are deliberately narrow so a 15-30 minute scan cadence hits
// each appointment inside a window exactly once in the common case. A scan
// outage that skips a window skips that reminder; there is no backfill.
const (
	window24hLow  = 23.0
	window24hHigh = 25.0
	window1hLow   = 0.9
	window1hHigh  = 1.1
)

// Scan walks the confirmed appointments still owed a reminder and fires the
// 24-hour and 1-hour notifications whose windows contain now. The flag for
// a threshold is marked after the dispatch attempt whether or not delivery
// succeeded: a client is never nagged twice, at the cost of dropping a
// reminder when the provider is down. Re-running the scan is harmless.
func Scan(db *gorm.DB, notifier notifications.Notifier, now time.Time) (Summary, error) {
	var summary Summary

	var appointments []models.Appointment
	err := db.Preload("Availability").Preload("User").
		Where("status = ? AND (reminder_24h_sent = ? OR reminder_1h_sent = ?)",
			models.StatusConfirmed, false, false).
		Find(&appointments).Error
	if err != nil {
		return summary, err
	}

	loc := utils.ShopLocation()
	summary.Checked = len(appointments)

	for i := range appointments {
		apt := &appointments[i]
		if apt.Availability.ID == 0 {
			continue
		}

		startAt := apt.Availability.StartAt(loc)
		hoursUntil := startAt.Sub(now).Hours()

		if !apt.Reminder24hSent && hoursUntil > window24hLow && hoursUntil <= window24hHigh {
			dispatch(db, notifier, apt, startAt, notifications.Reminder24h, &summary.Reminders24h)
		}
		if !apt.Reminder1hSent && hoursUntil > window1hLow && hoursUntil <= window1hHigh {
			dispatch(db, notifier, apt, startAt, notifications.Reminder1h, &summary.Reminders1h)
		}
	}

	return summary, nil
}

func dispatch(db *gorm.DB, notifier notifications.Notifier, apt *models.Appointment, startAt time.Time, kind notifications.ReminderKind, counter *Counter) {
	clientName := apt.ClientName
	if clientName == "" {
		clientName = apt.User.Name
	}
	if clientName == "" {
		clientName = "Valued Client"
	}
	service := models.ServiceDisplayName(db, apt.ServiceType)
	date := startAt.Format("Monday, January 2, 2006")
	timeStr := startAt.Format("3:04 PM")

	failed := false
	if apt.ContactEmail != "" {
		subject, body := notifications.ReminderEmail(clientName, service, date, timeStr, kind)
		if err := notifier.SendEmail(apt.ContactEmail, subject, body); err != nil {
			log.Printf("Failed to send %s reminder email for appointment %d: %v", kind, apt.ID, err)
			failed = true
		}
	}
	if apt.ContactPhone != "" {
		if err := notifier.SendSMS(apt.ContactPhone, notifications.ReminderSMS(clientName, date, timeStr, kind)); err != nil {
			log.Printf("Failed to send %s reminder SMS for appointment %d: %v", kind, apt.ID, err)
			failed = true
		}
	}

	// At-most-once beats guaranteed delivery: mark the threshold done even
	// when the send failed, so the client is never reminded twice.
	column := "reminder_24h_sent"
	if kind == notifications.Reminder1h {
		column = "reminder_1h_sent"
	}
	if err := db.Model(apt).Update(column, true).Error; err != nil {
		log.Printf("Failed to mark %s for appointment %d: %v", column, apt.ID, err)
		failed = true
	}
	if kind == notifications.Reminder1h {
		apt.Reminder1hSent = true
	} else {
		apt.Reminder24hSent = true
	}

	if failed {
		counter.Failed++
	} else {
		counter.Sent++
	}
}
