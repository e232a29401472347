package notifications

import "fmt"

// ReminderKind selects the message copy for a reminder threshold.
type ReminderKind string

const (
	Reminder24h ReminderKind = "24h"
	Reminder1h  ReminderKind = "1h"
)

// ConfirmationEmail builds the booking confirmation message.
func ConfirmationEmail(clientName, service, date, timeStr string) (subject, body string) {
	subject = "Your Seat is Secured | The Rand V Experience"
	body = fmt.Sprintf(`
		<h2>Your Seat is Secured</h2>
		<p>The experience awaits, %s.</p>
		<ul>
			<li><strong>Service:</strong> %s</li>
			<li><strong>Date:</strong> %s</li>
			<li><strong>Time:</strong> %s</li>
		</ul>
		<p><strong>Arrive 5 minutes early.</strong> Bring your vision, and we'll bring the craft.</p>
		<p>Rand V operates by appointment only.</p>
		<p>The Rand V Experience</p>
	`, clientName, service, date, timeStr)
	return subject, body
}

// ReminderEmail builds the 24-hour or 1-hour reminder message.
func ReminderEmail(clientName, service, date, timeStr string, kind ReminderKind) (subject, body string) {
	urgency := "Your appointment is tomorrow"
	if kind == Reminder1h {
		urgency = "Your appointment is in 1 hour"
	}

	subject = fmt.Sprintf("%s | The Rand V Experience", urgency)
	body = fmt.Sprintf(`
		<h2>%s</h2>
		<p>%s, your session is coming up.</p>
		<ul>
			<li><strong>Service:</strong> %s</li>
			<li><strong>Date:</strong> %s</li>
			<li><strong>Time:</strong> %s</li>
		</ul>
		<p>See you soon.</p>
		<p>- Rand V</p>
	`, urgency, clientName, service, date, timeStr)
	return subject, body
}

// ConfirmationSMS builds the booking confirmation text.
func ConfirmationSMS(clientName, service, date, timeStr string) string {
	return fmt.Sprintf(
		"%s, your seat has been secured.\n\nService: %s\nDate: %s\nTime: %s\n\nRand V operates by appointment only. We look forward to crafting your experience.\n\n- The Rand V Experience",
		clientName, service, date, timeStr)
}

// ReminderSMS builds the reminder text; the 1-hour copy is more urgent.
func ReminderSMS(clientName, date, timeStr string, kind ReminderKind) string {
	if kind == Reminder1h {
		return fmt.Sprintf("%s, your Rand V appointment is in 1 hour! %s today. See you soon. - Rand V", clientName, timeStr)
	}
	return fmt.Sprintf(
		"The Rand V Experience awaits, %s.\n\nYour session is confirmed for %s at %s.\n\nArrive 5 minutes early. Bring your vision.\n\n- Rand V",
		clientName, date, timeStr)
}
