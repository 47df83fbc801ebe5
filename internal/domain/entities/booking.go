package entities

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the canonical calendar-day form, no timezone
	DateLayout = "2006-01-02"

	// TimeLayout is the canonical 24-hour clock form, minute resolution
	TimeLayout = "15:04"

	// SlotGranularityMinutes is the finest granularity the engine works at
	SlotGranularityMinutes = 15

	// MaxClientIDLen bounds the opaque client identifier
	MaxClientIDLen = 32

	// MaxServiceNameLen bounds the free-text service name
	MaxServiceNameLen = 100

	minutesPerDay = 24 * 60
)

// Booking represents a reserved time slot on the provider's calendar. It is
// immutable after creation; changing a booking is cancel-then-rebook.
type Booking struct {
	ID              int64     `json:"booking_id" db:"booking_id"`
	Date            string    `json:"date" db:"date"`
	StartTime       string    `json:"start_time" db:"start_time"`
	EndTime         string    `json:"end_time" db:"end_time"`
	DurationMinutes int       `json:"duration_minutes" db:"duration_minutes"`
	ClientID        string    `json:"client_id" db:"client_id"`
	ServiceName     string    `json:"service_name" db:"service_name"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// StartMinute returns the booking's start as minute-of-day
func (b *Booking) StartMinute() (int, error) {
	return ParseTimeOfDay(b.StartTime)
}

// EndMinute returns the booking's end as minute-of-day
func (b *Booking) EndMinute() (int, error) {
	start, err := ParseTimeOfDay(b.StartTime)
	if err != nil {
		return 0, err
	}
	return start + b.DurationMinutes, nil
}

// ParseDate validates a YYYY-MM-DD calendar day and returns it at midnight
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}
	return t, nil
}

// ParseTimeOfDay validates an HH:MM clock time and returns minute-of-day.
// "24:00" is accepted as the exclusive day-end bound so the end_time of a
// booking running to midnight round-trips.
func ParseTimeOfDay(clock string) (int, error) {
	if clock == "24:00" {
		return minutesPerDay, nil
	}
	t, err := time.Parse(TimeLayout, clock)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", clock)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatTimeOfDay renders a minute-of-day back to HH:MM
func FormatTimeOfDay(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// AddDays returns the calendar day n days after date
func AddDays(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(DateLayout), nil
}

// ValidDuration reports whether a slot duration is a positive multiple of
// the 15-minute granularity
func ValidDuration(durationMinutes int) bool {
	return durationMinutes > 0 && durationMinutes%SlotGranularityMinutes == 0
}

// FitsWithinDay reports whether a slot starting at minute-of-day start with
// the given duration ends on or before midnight. Slots never roll over.
func FitsWithinDay(start, durationMinutes int) bool {
	return start+durationMinutes <= minutesPerDay
}
