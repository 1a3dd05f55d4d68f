// Package scheduler holds the routine generation engine and the conflict
// rules shared by manual inserts and preview edits. Nothing in here performs
// I/O; callers load inputs and persist results.
package scheduler

import (
	"fmt"
	"time"

	"github.com/noah-isme/routine-api/internal/models"
)

const clockLayout = "15:04"

// GenerationDays are the weekdays the engine fills, in the order it tries them.
var GenerationDays = []models.DayOfWeek{
	models.Sunday,
	models.Monday,
	models.Tuesday,
	models.Wednesday,
	models.Thursday,
}

// TimeSlots are the hourly class start times, in the order the engine tries them.
var TimeSlots = []string{"08:00", "09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00"}

// SlotCount is the size of the generation grid.
func SlotCount() int {
	return len(GenerationDays) * len(TimeSlots)
}

// IsGenerationDay reports whether day belongs to the generation grid.
func IsGenerationDay(day models.DayOfWeek) bool {
	for _, d := range GenerationDays {
		if d == day {
			return true
		}
	}
	return false
}

// ValidStartTime reports whether start is one of the fixed hourly slots.
func ValidStartTime(start string) bool {
	for _, slot := range TimeSlots {
		if slot == start {
			return true
		}
	}
	return false
}

// EndTime returns start plus one hour.
func EndTime(start string) (string, error) {
	t, err := time.Parse(clockLayout, start)
	if err != nil {
		return "", fmt.Errorf("parse start time %q: %w", start, err)
	}
	return t.Add(time.Hour).Format(clockLayout), nil
}

func mustEndTime(start string) string {
	end, err := EndTime(start)
	if err != nil {
		panic(err)
	}
	return end
}
