package utils

import (
	"os"
	"time"
)

// ShopLocation returns the shop's local timezone, configured with
// SHOP_TIMEZONE (IANA name). Falls back to the process-local zone.
func ShopLocation() *time.Location {
	name := os.Getenv("SHOP_TIMEZONE")
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}

// DayStart truncates t to midnight in its own location.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
