package scheduler

import (
	"errors"

	"github.com/noah-isme/routine-api/internal/models"
)

var (
	// ErrEntryNotFound is returned when a preview key does not exist.
	ErrEntryNotFound = errors.New("preview entry not found")
	// ErrInvalidSlot is returned for a day or start time outside the grid.
	ErrInvalidSlot = errors.New("invalid day or start time")
)

// ValidSlot reports whether (day, start) is a cell of the generation grid.
func ValidSlot(day models.DayOfWeek, start string) bool {
	return IsGenerationDay(day) && ValidStartTime(start)
}

// MoveEntry drags the preview entry identified by key to (day, start). When
// another preview entry blocks the target the list is left untouched and the
// conflict is returned with its key. Targets are limited to the generation
// grid; FRIDAY and SATURDAY classes can only be added manually.
func MoveEntry(entries []models.PreviewEntry, key string, day models.DayOfWeek, start string) (*models.ScheduleConflict, error) {
	if !ValidSlot(day, start) {
		return nil, ErrInvalidSlot
	}

	target := -1
	for i := range entries {
		if entries[i].Key == key {
			target = i
			break
		}
	}
	if target < 0 {
		return nil, ErrEntryNotFound
	}

	others := make([]models.ScheduleEntry, 0, len(entries)-1)
	keys := make([]string, 0, len(entries)-1)
	for i := range entries {
		if i == target {
			continue
		}
		others = append(others, entries[i].ScheduleEntry)
		keys = append(keys, entries[i].Key)
	}

	idx, dim := findConflict(entries[target].ScheduleEntry, day, start, others, true)
	if idx >= 0 {
		conflict := conflictFor(others[idx], dim)
		conflict.EntryKey = keys[idx]
		return conflict, nil
	}

	end, err := EndTime(start)
	if err != nil {
		return nil, err
	}
	entries[target].DayOfWeek = day
	entries[target].StartTime = start
	entries[target].EndTime = end
	return nil, nil
}
