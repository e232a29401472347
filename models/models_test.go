package models

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestTimeSlotValidate(t *testing.T) {
	cases := []struct {
		name    string
		start   string
		end     string
		wantErr bool
	}{
		{"valid", "10:00", "10:45", false},
		{"start after end", "11:00", "10:00", true},
		{"start equals end", "10:00", "10:00", true},
		{"bad start format", "10am", "11:00", true},
		{"bad end format", "10:00", "noon", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			slot := TimeSlot{
				Date:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
				StartTime: tc.start,
				EndTime:   tc.end,
			}
			err := slot.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestTimeSlotStartAt(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}

	slot := TimeSlot{
		Date:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		StartTime: "14:30",
		EndTime:   "15:15",
	}
	got := slot.StartAt(loc)
	want := time.Date(2025, 6, 1, 14, 30, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("StartAt() = %v, want %v", got, want)
	}
}

// The reminder sweep and the scheduled-trigger summary address these columns
// by name in raw where/update clauses, so the migrated schema must keep the
// underscored spelling regardless of how the ORM would derive it.
func TestAppointmentReminderColumnNames(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:models_columns_test?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&Appointment{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	for _, column := range []string{"confirmation_sent", "reminder_24h_sent", "reminder_1h_sent"} {
		if !db.Migrator().HasColumn(&Appointment{}, column) {
			t.Errorf("appointments table is missing column %q", column)
		}
	}

	var pending int64
	err = db.Model(&Appointment{}).
		Where("reminder_24h_sent = ? OR reminder_1h_sent = ?", false, false).
		Count(&pending).Error
	if err != nil {
		t.Fatalf("raw column query failed: %v", err)
	}
}

func TestAppointmentStatusTransitions(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:models_test?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&Role{}, &User{}, &TimeSlot{}, &Appointment{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	user := User{Name: "Test Client", Email: "client@example.com"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	newAppointment := func() *Appointment {
		slot := TimeSlot{
			Date:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			StartTime: "10:00",
			EndTime:   "10:45",
		}
		if err := db.Create(&slot).Error; err != nil {
			t.Fatalf("failed to create slot: %v", err)
		}
		apt := Appointment{UserID: user.ID, AvailabilityID: slot.ID, ServiceType: "signature-cut"}
		if err := db.Create(&apt).Error; err != nil {
			t.Fatalf("failed to create appointment: %v", err)
		}
		return &apt
	}

	t.Run("defaults to confirmed", func(t *testing.T) {
		apt := newAppointment()
		if apt.Status != StatusConfirmed {
			t.Fatalf("new appointment status = %s, want confirmed", apt.Status)
		}
	})

	t.Run("confirmed can cancel and complete", func(t *testing.T) {
		apt := newAppointment()
		if err := apt.UpdateStatus(db, StatusCancelled); err != nil {
			t.Fatalf("cancel failed: %v", err)
		}

		apt = newAppointment()
		if err := apt.UpdateStatus(db, StatusCompleted); err != nil {
			t.Fatalf("complete failed: %v", err)
		}
	})

	t.Run("terminal states are final", func(t *testing.T) {
		apt := newAppointment()
		if err := apt.UpdateStatus(db, StatusCancelled); err != nil {
			t.Fatalf("cancel failed: %v", err)
		}
		if err := apt.UpdateStatus(db, StatusConfirmed); err == nil {
			t.Fatal("expected error re-confirming a cancelled appointment")
		}
		if err := apt.UpdateStatus(db, StatusCompleted); err == nil {
			t.Fatal("expected error completing a cancelled appointment")
		}
	})

	t.Run("confirmed cannot re-confirm", func(t *testing.T) {
		apt := newAppointment()
		if err := apt.UpdateStatus(db, StatusConfirmed); err == nil {
			t.Fatal("expected error on confirmed -> confirmed")
		}
	})
}
