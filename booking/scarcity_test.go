package booking

import (
	"testing"
	"time"

	"github.com/randv/experience-api/models"
)

func TestRemainingSlotsMatchesListing(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)
	user := makeUser(t, db, "c1")

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.Local)

	// Five slots across the week, one blocked, one booked, one beyond the
	// 7-day window.
	day1 := time.Date(2025, 6, 2, 0, 0, 0, 0, time.Local)
	day2 := time.Date(2025, 6, 5, 0, 0, 0, 0, time.Local)
	farDay := time.Date(2025, 6, 20, 0, 0, 0, 0, time.Local)

	makeSlot(t, db, day1, "10:00", "10:45")
	makeSlot(t, db, day1, "11:00", "11:45")
	booked := makeSlot(t, db, day2, "10:00", "10:45")
	blocked := makeSlot(t, db, day2, "11:00", "11:45")
	makeSlot(t, db, farDay, "10:00", "10:45")

	db.Model(&models.TimeSlot{}).Where("id = ?", blocked.ID).Update("is_blocked", true)

	if _, err := engine.Reserve(now, ReserveRequest{
		SlotID:       booked.ID,
		UserID:       user.ID,
		ServiceType:  "signature-cut",
		ContactEmail: "c1@example.com",
	}); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}

	remaining, err := engine.RemainingSlots(now)
	if err != nil {
		t.Fatalf("RemainingSlots failed: %v", err)
	}
	if remaining != 2 {
		t.Fatalf("expected 2 remaining slots, got %d", remaining)
	}

	// The count is a pure function of the listing, whatever the state.
	slots, err := engine.ListBookable(now, now, now.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("ListBookable failed: %v", err)
	}
	if remaining != len(slots) {
		t.Fatalf("remaining=%d diverged from listing length %d", remaining, len(slots))
	}

	// Cancelling the booking frees the slot and moves the count.
	var appointment models.Appointment
	if err := db.Where("availability_id = ?", booked.ID).First(&appointment).Error; err != nil {
		t.Fatalf("appointment lookup failed: %v", err)
	}
	if _, err := engine.Cancel(appointment.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	remaining, err = engine.RemainingSlots(now)
	if err != nil {
		t.Fatalf("RemainingSlots failed: %v", err)
	}
	if remaining != 3 {
		t.Fatalf("expected 3 remaining slots after cancel, got %d", remaining)
	}
}
