package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/optcourse/allocation-portal/internal/config"
)

// ErrNoSchedule is returned when allocationSchedule is not configured
var ErrNoSchedule = errors.New("allocationSchedule is not configured")

// NextAllocationWindow returns the first occurrence of the configured schedule after the given time.
// The zero time is returned when the schedule has no further occurrences.
// A schedule without DTSTART is anchored at the start of after's year.
func NextAllocationWindow(cfg *config.Config, after time.Time) (time.Time, error) {
	if cfg.AllocationSchedule == "" {
		return time.Time{}, ErrNoSchedule
	}

	option, err := rrule.StrToROption(cfg.AllocationSchedule)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid rrule in allocationSchedule: %w", err)
	}

	if option.Dtstart.IsZero() {
		option.Dtstart = time.Date(after.Year(), time.January, 1, 0, 0, 0, 0, after.Location())
	}

	rule, err := rrule.NewRRule(*option)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid rrule in allocationSchedule: %w", err)
	}

	return rule.After(after, false), nil
}
