package scheduler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/noah-isme/routine-api/internal/models"
)

// ErrInvalidEntry wraps every shape violation reported by NormalizeEntry.
var ErrInvalidEntry = errors.New("invalid schedule entry")

// NormalizeEntry checks the structural rules of a class or break and fills
// EndTime from StartTime. A class needs a course, a teacher and exactly one of
// room or lab. A break needs a name and no course, teacher or location.
func NormalizeEntry(entry *models.ScheduleEntry) error {
	if entry.SemesterID <= 0 {
		return fmt.Errorf("%w: semester is required", ErrInvalidEntry)
	}
	day, ok := models.ParseDayOfWeek(string(entry.DayOfWeek))
	if !ok {
		return fmt.Errorf("%w: unknown day %q", ErrInvalidEntry, entry.DayOfWeek)
	}
	if !ValidStartTime(entry.StartTime) {
		return fmt.Errorf("%w: start time %q is not an hourly slot between %s and %s", ErrInvalidEntry, entry.StartTime, TimeSlots[0], TimeSlots[len(TimeSlots)-1])
	}
	entry.DayOfWeek = day
	entry.EndTime = mustEndTime(entry.StartTime)

	if entry.IsBreak {
		if entry.BreakName == nil || strings.TrimSpace(*entry.BreakName) == "" {
			return fmt.Errorf("%w: break name is required", ErrInvalidEntry)
		}
		if entry.CourseID != nil || entry.TeacherID != nil || entry.RoomID != nil || entry.LabID != nil {
			return fmt.Errorf("%w: a break cannot reference a course, teacher, room or lab", ErrInvalidEntry)
		}
		return nil
	}

	if entry.BreakName != nil {
		return fmt.Errorf("%w: break name is only allowed on breaks", ErrInvalidEntry)
	}
	if entry.CourseID == nil || entry.TeacherID == nil {
		return fmt.Errorf("%w: a class needs a course and a teacher", ErrInvalidEntry)
	}
	if (entry.RoomID == nil) == (entry.LabID == nil) {
		return fmt.Errorf("%w: a class needs exactly one of room or lab", ErrInvalidEntry)
	}
	return nil
}

// CheckLocation verifies a class sits in the kind of location its course type needs.
func CheckLocation(entry models.ScheduleEntry, courseType models.CourseType) error {
	if entry.IsBreak {
		return nil
	}
	if courseType.NeedsLab() && entry.LabID == nil {
		return fmt.Errorf("%w: %s courses must be held in a lab", ErrInvalidEntry, courseType)
	}
	if !courseType.NeedsLab() && entry.RoomID == nil {
		return fmt.Errorf("%w: %s courses must be held in a room", ErrInvalidEntry, courseType)
	}
	return nil
}
