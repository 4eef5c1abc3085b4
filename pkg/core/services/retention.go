package services

import (
	"fmt"
	"time"

	"github.com/clinicshift/shift-scheduler/pkg/core/calendar"
	"github.com/clinicshift/shift-scheduler/pkg/core/schedule"
)

// PruneSchedule drops entries dated more than retentionDays before now. Entries
// whose date cannot be parsed are kept. The input is not modified.
func PruneSchedule(sc schedule.Schedule, retentionDays int, now time.Time) (schedule.Schedule, int, error) {
	if retentionDays < 0 {
		return sc, 0, fmt.Errorf("retention days must not be negative, got %d", retentionDays)
	}

	cutoff := calendar.DateOnly(now).AddDate(0, 0, -retentionDays)
	pruned := make(schedule.Schedule, len(sc))
	removed := 0
	for k, v := range sc {
		date, err := calendar.ParseDate(k.Date)
		if err == nil && date.Before(cutoff) {
			removed++
			continue
		}
		pruned[k] = v
	}

	if removed == 0 {
		return sc, 0, nil
	}
	return pruned, removed, nil
}
