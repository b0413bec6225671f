package timeutil

import (
	"time"
)

// Depot is the depot's local timezone. Trip dates and settlement stamps
// are always interpreted in depot time, whatever the server runs in.
var Depot *time.Location

func init() {
	var err error
	Depot, err = time.LoadLocation("Africa/Casablanca")
	if err != nil {
		Depot = time.FixedZone("WET", 0)
	}
}

// Now returns the current time in depot time.
func Now() time.Time {
	return time.Now().In(Depot)
}

// ToDepot converts any time to depot time.
func ToDepot(t time.Time) time.Time {
	return t.In(Depot)
}

// ParseInDepot parses a time string in depot time.
func ParseInDepot(layout, value string) (time.Time, error) {
	t, err := time.ParseInLocation(layout, value, Depot)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// StartOfDay returns 00:00:00 depot time for the given time's day.
func StartOfDay(t time.Time) time.Time {
	d := t.In(Depot)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, Depot)
}

// Common layouts
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)
