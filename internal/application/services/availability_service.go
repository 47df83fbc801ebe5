package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/ombati/slot-scheduler/internal/domain/entities"
	"github.com/ombati/slot-scheduler/internal/domain/repositories"
	"github.com/ombati/slot-scheduler/pkg/config"
	apperrors "github.com/ombati/slot-scheduler/pkg/errors"
)

const (
	offerGridMinutes = 30
	scanStepMinutes  = entities.SlotGranularityMinutes
)

// AvailabilityService answers free/busy queries over the booking store.
// It never mutates anything.
type AvailabilityService struct {
	repo        repositories.BookingRepository
	dayStart    int
	dayEnd      int
	horizonDays int
}

// NewAvailabilityService creates a new availability service from the
// configured working-day bounds
func NewAvailabilityService(repo repositories.BookingRepository, cfg *config.ScheduleConfig) (*AvailabilityService, error) {
	dayStart, err := entities.ParseTimeOfDay(cfg.DayStart)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule day start: %w", err)
	}
	dayEnd, err := entities.ParseTimeOfDay(cfg.DayEnd)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule day end: %w", err)
	}
	if dayStart >= dayEnd {
		return nil, fmt.Errorf("schedule day start %s must precede day end %s", cfg.DayStart, cfg.DayEnd)
	}

	horizonDays := cfg.SearchHorizonDays
	if horizonDays <= 0 {
		horizonDays = 365
	}

	return &AvailabilityService{
		repo:        repo,
		dayStart:    dayStart,
		dayEnd:      dayEnd,
		horizonDays: horizonDays,
	}, nil
}

// interval is a half-open [start, end) minute-of-day range
type interval struct {
	start int
	end   int
}

func (iv interval) overlaps(start, end int) bool {
	return start < iv.end && iv.start < end
}

// IsSlotAvailable reports whether [time, time+duration) on date intersects
// no live booking. This is the exact check: it operates at whatever minute
// the caller asks for and is not clamped to working hours.
func (s *AvailabilityService) IsSlotAvailable(ctx context.Context, date, clock string, durationMinutes int) (bool, error) {
	start, err := validateSlot(date, clock, durationMinutes)
	if err != nil {
		return false, err
	}

	intervals, err := s.dayIntervals(ctx, date)
	if err != nil {
		return false, err
	}
	return isFree(intervals, start, start+durationMinutes), nil
}

// SlotsAvailableOnDay enumerates offerable start times on date, each
// guaranteeing a free durationMinutes window. Candidates sit on the
// 30-minute grid across working hours; when the requested duration is an
// odd multiple of 15, a missed grid slot may be replaced by the 15-minute
// aligned end of the booking blocking it (snapping backward instead of
// forward), so gaps like 10:15 after a 09:30+45m booking stay bookable.
func (s *AvailabilityService) SlotsAvailableOnDay(ctx context.Context, date string, durationMinutes int) ([]string, error) {
	if !entities.ValidDuration(durationMinutes) {
		return nil, apperrors.NewValidationError("duration must be a positive multiple of 15 minutes")
	}
	if _, err := entities.ParseDate(date); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	intervals, err := s.dayIntervals(ctx, date)
	if err != nil {
		return nil, err
	}

	slots := []string{}
	for t := s.dayStart; t+durationMinutes <= s.dayEnd; t += offerGridMinutes {
		if isFree(intervals, t, t+durationMinutes) {
			slots = append(slots, entities.FormatTimeOfDay(t))
			continue
		}
		if durationMinutes%offerGridMinutes != scanStepMinutes {
			continue
		}
		// Override: a booking ending at t-15 leaves a sliver the grid
		// cannot see. Offer the booking's end itself when the run after it
		// fits the requested duration. Each grid point is evaluated
		// independently; the override never chains across gaps.
		snapped := t - scanStepMinutes
		if snapped < s.dayStart || !endsAt(intervals, snapped) {
			continue
		}
		if isFree(intervals, snapped, snapped+durationMinutes) {
			slots = append(slots, entities.FormatTimeOfDay(snapped))
		}
	}
	return slots, nil
}

// NextAvailableSlot finds the earliest free durationMinutes window at or
// after the given instant, scanning forward in 15-minute steps within
// working hours. It may return a time the day enumeration would not offer.
// horizonDays bounds the scan; 0 means the configured default.
func (s *AvailabilityService) NextAvailableSlot(ctx context.Context, afterDate, afterTime string, durationMinutes, horizonDays int) (string, string, error) {
	if !entities.ValidDuration(durationMinutes) {
		return "", "", apperrors.NewValidationError("duration must be a positive multiple of 15 minutes")
	}
	if _, err := entities.ParseDate(afterDate); err != nil {
		return "", "", apperrors.NewValidationError(err.Error())
	}
	afterMinute, err := entities.ParseTimeOfDay(afterTime)
	if err != nil {
		return "", "", apperrors.NewValidationError(err.Error())
	}
	if horizonDays <= 0 {
		horizonDays = s.horizonDays
	}

	// One forward query from the start of the after-day; same-day bookings
	// that began before the instant still matter for overlap.
	bookings, err := s.repo.ListFrom(ctx, afterDate, "00:00")
	if err != nil {
		return "", "", err
	}
	byDay, err := groupIntervals(bookings)
	if err != nil {
		return "", "", err
	}

	// Candidates align to the 15-minute grid, rounding the instant up.
	first := roundUpToStep(afterMinute)

	for dayOffset := 0; dayOffset <= horizonDays; dayOffset++ {
		date, err := entities.AddDays(afterDate, dayOffset)
		if err != nil {
			return "", "", apperrors.NewValidationError(err.Error())
		}

		t := s.dayStart
		if dayOffset == 0 && first > t {
			t = first
		}
		intervals := byDay[date]
		for ; t+durationMinutes <= s.dayEnd; t += scanStepMinutes {
			if isFree(intervals, t, t+durationMinutes) {
				return date, entities.FormatTimeOfDay(t), nil
			}
		}
	}

	return "", "", apperrors.NewNotFoundError(
		fmt.Sprintf("no available slot of %d minutes within %d days", durationMinutes, horizonDays))
}

func (s *AvailabilityService) dayIntervals(ctx context.Context, date string) ([]interval, error) {
	bookings, err := s.repo.ListByDay(ctx, date)
	if err != nil {
		return nil, err
	}
	return toIntervals(bookings)
}

func validateSlot(date, clock string, durationMinutes int) (int, error) {
	if !entities.ValidDuration(durationMinutes) {
		return 0, apperrors.NewValidationError("duration must be a positive multiple of 15 minutes")
	}
	if _, err := entities.ParseDate(date); err != nil {
		return 0, apperrors.NewValidationError(err.Error())
	}
	start, err := entities.ParseTimeOfDay(clock)
	if err != nil {
		return 0, apperrors.NewValidationError(err.Error())
	}
	if !entities.FitsWithinDay(start, durationMinutes) {
		return 0, apperrors.NewValidationError("slot must end within the same day")
	}
	return start, nil
}

func toIntervals(bookings []*entities.Booking) ([]interval, error) {
	intervals := make([]interval, 0, len(bookings))
	for _, b := range bookings {
		start, err := b.StartMinute()
		if err != nil {
			return nil, apperrors.NewInternalError("stored booking has malformed start time", err)
		}
		intervals = append(intervals, interval{start: start, end: start + b.DurationMinutes})
	}
	sort.Slice(intervals, func(i, j int) bool { return intervals[i].start < intervals[j].start })
	return intervals, nil
}

func groupIntervals(bookings []*entities.Booking) (map[string][]interval, error) {
	byDay := make(map[string][]interval)
	for _, b := range bookings {
		start, err := b.StartMinute()
		if err != nil {
			return nil, apperrors.NewInternalError("stored booking has malformed start time", err)
		}
		byDay[b.Date] = append(byDay[b.Date], interval{start: start, end: start + b.DurationMinutes})
	}
	return byDay, nil
}

func isFree(intervals []interval, start, end int) bool {
	for _, iv := range intervals {
		if iv.overlaps(start, end) {
			return false
		}
	}
	return true
}

func endsAt(intervals []interval, minute int) bool {
	for _, iv := range intervals {
		if iv.end == minute {
			return true
		}
	}
	return false
}

func roundUpToStep(minute int) int {
	if rem := minute % scanStepMinutes; rem != 0 {
		return minute + scanStepMinutes - rem
	}
	return minute
}
