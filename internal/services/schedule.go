package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandaclub/hub/internal/models"
)

// MinutesOfDay parses an HH:MM string into minutes since midnight.
func MinutesOfDay(hhmm string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(hhmm), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: start time %q is not HH:MM", ErrInvalidInput, hhmm)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: start time %q is not HH:MM", ErrInvalidInput, hhmm)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: start time %q is not HH:MM", ErrInvalidInput, hhmm)
	}
	return h*60 + m, nil
}

// SlotConflicts reports whether the candidate (dayOfWeek, startTime, duration)
// overlaps any existing slot on the same day. Intervals are half-open
// [start, start+duration): a slot starting exactly when another ends does not
// conflict. excludeID skips one slot for edit-in-place; pass 0 for new slots.
//
// A true result is information, not an error — the caller decides whether to
// ask for confirmation before writing anyway.
func SlotConflicts(dayOfWeek, startTime string, durationMinutes int, existing []models.ScheduleSlot, excludeID uint) (bool, error) {
	if durationMinutes <= 0 {
		return false, fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidInput, durationMinutes)
	}
	start, err := MinutesOfDay(startTime)
	if err != nil {
		return false, err
	}
	end := start + durationMinutes
	day := strings.ToLower(strings.TrimSpace(dayOfWeek))

	for _, s := range existing {
		if s.ID == excludeID && excludeID != 0 {
			continue
		}
		if strings.ToLower(strings.TrimSpace(s.DayOfWeek)) != day {
			continue
		}
		sStart, err := MinutesOfDay(s.StartTime)
		if err != nil {
			// A stored slot with a malformed time is a data bug; surface it.
			return false, err
		}
		sEnd := sStart + s.DurationMinutes
		if start < sEnd && sStart < end {
			return true, nil
		}
	}
	return false, nil
}
