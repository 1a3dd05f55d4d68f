package scheduler

import (
	"fmt"

	"github.com/noah-isme/routine-api/internal/models"
)

// CanPlace checks whether candidate may occupy (day, start) next to committed
// entries. It returns nil when the cell is free, otherwise the first conflict
// found in the order semester, teacher, room, lab. Breaks only compete on
// semester. Entries sharing the candidate's non-zero ID are ignored so an
// entry never conflicts with itself.
//
// Preview drags run the same probe through MoveEntry with the course
// dimension added last.
func CanPlace(candidate models.ScheduleEntry, day models.DayOfWeek, start string, existing []models.ScheduleEntry) *models.ScheduleConflict {
	idx, dim := findConflict(candidate, day, start, existing, false)
	if idx < 0 {
		return nil
	}
	return conflictFor(existing[idx], dim)
}

// ConflictMessage renders a human readable reason for c.
func ConflictMessage(c *models.ScheduleConflict) string {
	if c == nil {
		return ""
	}
	switch c.Dimension {
	case models.ConflictSemester:
		return fmt.Sprintf("semester already has an entry on %s at %s", c.DayOfWeek, c.StartTime)
	case models.ConflictTeacher:
		return fmt.Sprintf("teacher is already scheduled on %s at %s", c.DayOfWeek, c.StartTime)
	case models.ConflictRoom:
		return fmt.Sprintf("room is already booked on %s at %s", c.DayOfWeek, c.StartTime)
	case models.ConflictLab:
		return fmt.Sprintf("lab is already booked on %s at %s", c.DayOfWeek, c.StartTime)
	default:
		return fmt.Sprintf("course is already scheduled on %s at %s", c.DayOfWeek, c.StartTime)
	}
}

// FindInternalConflict reports the first pair in entries that double-books a
// semester, teacher, room or lab, checking each entry against those before it.
func FindInternalConflict(entries []models.ScheduleEntry) (int, *models.ScheduleConflict) {
	for i := 1; i < len(entries); i++ {
		candidate := entries[i]
		if conflict := CanPlace(candidate, candidate.DayOfWeek, candidate.StartTime, entries[:i]); conflict != nil {
			return i, conflict
		}
	}
	return -1, nil
}

type conflictCheck struct {
	dim   models.ConflictDimension
	match func(models.ScheduleEntry) bool
}

func findConflict(candidate models.ScheduleEntry, day models.DayOfWeek, start string, existing []models.ScheduleEntry, withCourse bool) (int, models.ConflictDimension) {
	checks := []conflictCheck{
		{models.ConflictSemester, func(e models.ScheduleEntry) bool { return e.SemesterID == candidate.SemesterID }},
		{models.ConflictTeacher, func(e models.ScheduleEntry) bool { return !candidate.IsBreak && sameRef(e.TeacherID, candidate.TeacherID) }},
		{models.ConflictRoom, func(e models.ScheduleEntry) bool { return !candidate.IsBreak && sameRef(e.RoomID, candidate.RoomID) }},
		{models.ConflictLab, func(e models.ScheduleEntry) bool { return !candidate.IsBreak && sameRef(e.LabID, candidate.LabID) }},
	}
	if withCourse {
		checks = append(checks, conflictCheck{models.ConflictCourse, func(e models.ScheduleEntry) bool {
			return !candidate.IsBreak && sameRef(e.CourseID, candidate.CourseID)
		}})
	}

	for _, check := range checks {
		for i, entry := range existing {
			if entry.DayOfWeek != day || entry.StartTime != start {
				continue
			}
			if candidate.ID != 0 && entry.ID == candidate.ID {
				continue
			}
			if check.match(entry) {
				return i, check.dim
			}
		}
	}
	return -1, ""
}

func sameRef(a, b *int64) bool {
	return a != nil && b != nil && *a == *b
}

func conflictFor(entry models.ScheduleEntry, dim models.ConflictDimension) *models.ScheduleConflict {
	return &models.ScheduleConflict{
		Dimension:  dim,
		EntryID:    entry.ID,
		SemesterID: entry.SemesterID,
		CourseID:   entry.CourseID,
		TeacherID:  entry.TeacherID,
		RoomID:     entry.RoomID,
		LabID:      entry.LabID,
		DayOfWeek:  entry.DayOfWeek,
		StartTime:  entry.StartTime,
	}
}
