package booking

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/randv/experience-api/models"
)

var testDBCounter int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:booking_test_%d?mode=memory&cache=shared&_busy_timeout=5000",
		atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	// Serialize writers so concurrent reservations contend inside the
	// engine's transaction instead of on sqlite's file lock.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Service{},
		&models.TimeSlot{},
		&models.Appointment{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func makeUser(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()
	user := models.User{Name: name, Email: name + "@example.com"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func makeSlot(t *testing.T, db *gorm.DB, date time.Time, start, end string) models.TimeSlot {
	t.Helper()
	slot := models.TimeSlot{Date: date, StartTime: start, EndTime: end}
	if err := db.Create(&slot).Error; err != nil {
		t.Fatalf("failed to create slot: %v", err)
	}
	return slot
}

func TestListBookableExcludesBlockedBookedAndPast(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)
	user := makeUser(t, db, "c1")

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)
	now := time.Date(2025, 6, 1, 9, 30, 0, 0, time.Local)

	open := makeSlot(t, db, day, "10:00", "10:45")
	makeSlot(t, db, day, "08:00", "08:45") // already started by 09:30
	blocked := makeSlot(t, db, day, "11:00", "11:45")
	booked := makeSlot(t, db, day, "12:00", "12:45")

	reason := "family day"
	db.Model(&models.TimeSlot{}).Where("id = ?", blocked.ID).
		Updates(map[string]interface{}{"is_blocked": true, "block_reason": reason})

	_, err := engine.Reserve(now, ReserveRequest{
		SlotID:       booked.ID,
		UserID:       user.ID,
		ServiceType:  "signature-cut",
		ContactEmail: "c1@example.com",
	})
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}

	slots, err := engine.ListBookable(now, now, now.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("ListBookable failed: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("expected 1 bookable slot, got %d", len(slots))
	}
	if slots[0].ID != open.ID {
		t.Fatalf("expected slot %d, got %d", open.ID, slots[0].ID)
	}
}

func TestListBookableOrdering(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	day1 := time.Date(2025, 6, 2, 0, 0, 0, 0, time.Local)
	day2 := time.Date(2025, 6, 3, 0, 0, 0, 0, time.Local)
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.Local)

	// Created out of order on purpose.
	makeSlot(t, db, day2, "09:00", "09:45")
	makeSlot(t, db, day1, "14:00", "14:45")
	makeSlot(t, db, day1, "10:00", "10:45")

	slots, err := engine.ListBookable(now, now, now.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("ListBookable failed: %v", err)
	}
	if len(slots) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(slots))
	}

	got := make([]string, 0, len(slots))
	for _, slot := range slots {
		got = append(got, slot.Date.Format("2006-01-02")+" "+slot.StartTime)
	}
	want := []string{"2025-06-02 10:00", "2025-06-02 14:00", "2025-06-03 09:00"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("slot %d: expected %q, got %q (all: %v)", i, want[i], got[i], got)
		}
	}
}

func TestReserveEndToEnd(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)
	c1 := makeUser(t, db, "c1")
	c2 := makeUser(t, db, "c2")

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)
	now := time.Date(2025, 5, 30, 12, 0, 0, 0, time.Local)
	slot := makeSlot(t, db, day, "10:00", "10:45")

	appointment, err := engine.Reserve(now, ReserveRequest{
		SlotID:       slot.ID,
		UserID:       c1.ID,
		ServiceType:  "signature-cut",
		ContactEmail: "c1@example.com",
	})
	if err != nil {
		t.Fatalf("first reserve failed: %v", err)
	}
	if appointment.Status != models.StatusConfirmed {
		t.Fatalf("expected confirmed, got %s", appointment.Status)
	}

	_, err = engine.Reserve(now, ReserveRequest{
		SlotID:       slot.ID,
		UserID:       c2.ID,
		ServiceType:  "beard-sculpt",
		ContactEmail: "c2@example.com",
	})
	if !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable, got %v", err)
	}

	slots, err := engine.ListBookable(now, now, now.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("ListBookable failed: %v", err)
	}
	for _, s := range slots {
		if s.ID == slot.ID {
			t.Fatalf("booked slot %d still listed as bookable", slot.ID)
		}
	}
}

func TestReserveValidation(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)
	user := makeUser(t, db, "c1")

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)
	now := time.Date(2025, 5, 30, 12, 0, 0, 0, time.Local)
	slot := makeSlot(t, db, day, "10:00", "10:45")

	cases := []struct {
		name string
		req  ReserveRequest
	}{
		{"no contact method", ReserveRequest{SlotID: slot.ID, UserID: user.ID, ServiceType: "signature-cut"}},
		{"malformed email", ReserveRequest{SlotID: slot.ID, UserID: user.ID, ServiceType: "signature-cut", ContactEmail: "not-an-email"}},
		{"no service", ReserveRequest{SlotID: slot.ID, UserID: user.ID, ContactEmail: "c1@example.com"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.Reserve(now, tc.req)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}

	var count int64
	db.Model(&models.Appointment{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no appointments after rejected input, got %d", count)
	}
}

func TestReserveRequiresIdentity(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)
	now := time.Date(2025, 5, 30, 12, 0, 0, 0, time.Local)
	slot := makeSlot(t, db, day, "10:00", "10:45")

	_, err := engine.Reserve(now, ReserveRequest{
		SlotID:       slot.ID,
		ServiceType:  "signature-cut",
		ContactEmail: "c1@example.com",
	})
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestReserveRejectsBlockedPastAndMissing(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)
	user := makeUser(t, db, "c1")

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)
	now := time.Date(2025, 6, 1, 9, 30, 0, 0, time.Local)

	blocked := makeSlot(t, db, day, "11:00", "11:45")
	db.Model(&models.TimeSlot{}).Where("id = ?", blocked.ID).Update("is_blocked", true)

	past := makeSlot(t, db, day, "08:00", "08:45")

	base := ReserveRequest{UserID: user.ID, ServiceType: "signature-cut", ContactEmail: "c1@example.com"}

	req := base
	req.SlotID = blocked.ID
	if _, err := engine.Reserve(now, req); !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("blocked slot: expected ErrSlotUnavailable, got %v", err)
	}

	req = base
	req.SlotID = past.ID
	if _, err := engine.Reserve(now, req); !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("past slot: expected ErrSlotUnavailable, got %v", err)
	}

	req = base
	req.SlotID = 9999
	if _, err := engine.Reserve(now, req); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing slot: expected ErrNotFound, got %v", err)
	}
}

func TestCancelFreesSlot(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)
	c1 := makeUser(t, db, "c1")
	c2 := makeUser(t, db, "c2")

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)
	now := time.Date(2025, 5, 30, 12, 0, 0, 0, time.Local)
	slot := makeSlot(t, db, day, "10:00", "10:45")

	appointment, err := engine.Reserve(now, ReserveRequest{
		SlotID:       slot.ID,
		UserID:       c1.ID,
		ServiceType:  "signature-cut",
		ContactEmail: "c1@example.com",
	})
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}

	cancelled, err := engine.Cancel(appointment.ID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != models.StatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}

	slots, err := engine.ListBookable(now, now, now.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("ListBookable failed: %v", err)
	}
	found := false
	for _, s := range slots {
		if s.ID == slot.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("cancelled slot %d should be bookable again", slot.ID)
	}

	// The cancelled record persists; a new booking takes the slot.
	if _, err := engine.Reserve(now, ReserveRequest{
		SlotID:       slot.ID,
		UserID:       c2.ID,
		ServiceType:  "full-experience",
		ContactEmail: "c2@example.com",
	}); err != nil {
		t.Fatalf("rebooking after cancel failed: %v", err)
	}

	var total int64
	db.Model(&models.Appointment{}).Where("availability_id = ?", slot.ID).Count(&total)
	if total != 2 {
		t.Fatalf("expected 2 appointment records for the slot, got %d", total)
	}
}

func TestCancelTerminalStates(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)
	user := makeUser(t, db, "c1")

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)
	now := time.Date(2025, 5, 30, 12, 0, 0, 0, time.Local)
	slot := makeSlot(t, db, day, "10:00", "10:45")

	appointment, err := engine.Reserve(now, ReserveRequest{
		SlotID:       slot.ID,
		UserID:       user.ID,
		ServiceType:  "signature-cut",
		ContactEmail: "c1@example.com",
	})
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}

	if _, err := engine.Complete(appointment.ID); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if _, err := engine.Cancel(appointment.ID); err == nil {
		t.Fatal("expected cancel of completed appointment to fail")
	}
	if _, err := engine.Cancel(9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConcurrentReserveSingleWinner(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)
	now := time.Date(2025, 5, 30, 12, 0, 0, 0, time.Local)
	slot := makeSlot(t, db, day, "10:00", "10:45")

	const clients = 8
	users := make([]models.User, clients)
	for i := range users {
		users[i] = makeUser(t, db, fmt.Sprintf("client%d", i))
	}

	var wg sync.WaitGroup
	var successes int64
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func(user models.User) {
			defer wg.Done()
			_, err := engine.Reserve(now, ReserveRequest{
				SlotID:       slot.ID,
				UserID:       user.ID,
				ServiceType:  "signature-cut",
				ContactEmail: user.Email,
			})
			if err == nil {
				atomic.AddInt64(&successes, 1)
			} else if !errors.Is(err, ErrSlotUnavailable) {
				t.Errorf("unexpected reserve error: %v", err)
			}
		}(users[i])
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("expected exactly 1 successful reservation, got %d", successes)
	}

	var confirmed int64
	db.Model(&models.Appointment{}).
		Where("availability_id = ? AND status = ?", slot.ID, models.StatusConfirmed).
		Count(&confirmed)
	if confirmed != 1 {
		t.Fatalf("expected exactly 1 confirmed appointment, got %d", confirmed)
	}
}

func TestConfirmedUniqueIndexBackstop(t *testing.T) {
	db := newTestDB(t)
	user := makeUser(t, db, "c1")

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)
	slot := makeSlot(t, db, day, "10:00", "10:45")

	first := models.Appointment{
		UserID: user.ID, AvailabilityID: slot.ID,
		ServiceType: "signature-cut", Status: models.StatusConfirmed,
	}
	if err := db.Create(&first).Error; err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	// A raw second confirmed insert, bypassing the engine's pre-check, must
	// be rejected by the partial unique index.
	second := models.Appointment{
		UserID: user.ID, AvailabilityID: slot.ID,
		ServiceType: "signature-cut", Status: models.StatusConfirmed,
	}
	err := db.Create(&second).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected gorm.ErrDuplicatedKey, got %v", err)
	}

	// A cancelled row for the same slot is outside the index.
	cancelled := models.Appointment{
		UserID: user.ID, AvailabilityID: slot.ID,
		ServiceType: "signature-cut", Status: models.StatusCancelled,
	}
	if err := db.Create(&cancelled).Error; err != nil {
		t.Fatalf("cancelled insert should not hit the index: %v", err)
	}
}
