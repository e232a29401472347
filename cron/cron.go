package cron

import (
	"log"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/randv/experience-api/db"
	"github.com/randv/experience-api/notifications"
	"github.com/randv/experience-api/reminders"
)

// StartReminderJobs starts the in-process fallback trigger for the reminder
// scan. Production deployments call /cron/send-reminders from a platform
// scheduler instead; this loop exists for environments without one and is
// off unless REMINDER_CRON_ENABLED=true. The scan itself is idempotent, so
// running both triggers at once only wastes a query.
func StartReminderJobs() {
	if os.Getenv("REMINDER_CRON_ENABLED") != "true" {
		log.Println("In-process reminder cron disabled; expecting an external trigger")
		return
	}

	spec := os.Getenv("REMINDER_CRON_SPEC")
	if spec == "" {
		spec = "*/15 * * * *"
	}

	notifier := notifications.NewService()
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		summary, err := reminders.Scan(db.DB, notifier, time.Now())
		if err != nil {
			log.Printf("Reminder scan failed: %v", err)
			return
		}
		log.Printf("Reminder scan: checked=%d 24h=%+v 1h=%+v",
			summary.Checked, summary.Reminders24h, summary.Reminders1h)
	})
	if err != nil {
		log.Fatalf("Failed to add reminder cron job: %v", err)
	}
	c.Start()
	log.Printf("Reminder cron started with spec %q", spec)
}
