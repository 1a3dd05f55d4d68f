package models

import (
	"strings"
	"time"
)

// DayOfWeek is the weekday a schedule entry occupies.
type DayOfWeek string

const (
	Sunday    DayOfWeek = "SUNDAY"
	Monday    DayOfWeek = "MONDAY"
	Tuesday   DayOfWeek = "TUESDAY"
	Wednesday DayOfWeek = "WEDNESDAY"
	Thursday  DayOfWeek = "THURSDAY"
	Friday    DayOfWeek = "FRIDAY"
	Saturday  DayOfWeek = "SATURDAY"
)

// Weekdays lists every day in display order.
var Weekdays = []DayOfWeek{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// ParseDayOfWeek normalises raw input; ok is false for unknown names.
func ParseDayOfWeek(raw string) (DayOfWeek, bool) {
	day := DayOfWeek(strings.ToUpper(strings.TrimSpace(raw)))
	return day, day.Index() >= 0
}

// Index returns the display position of d, or -1 when d is not a weekday.
func (d DayOfWeek) Index() int {
	for i, day := range Weekdays {
		if day == d {
			return i
		}
	}
	return -1
}

// ScheduleEntry is one placed class or break in a department routine.
// A class references a course, a teacher and exactly one of room or lab;
// a break carries only a name.
type ScheduleEntry struct {
	ID           int64     `db:"id" json:"id"`
	SemesterID   int64     `db:"semester_id" json:"semester_id"`
	DepartmentID int64     `db:"department_id" json:"department_id"`
	DayOfWeek    DayOfWeek `db:"day_of_week" json:"day_of_week"`
	StartTime    string    `db:"start_time" json:"start_time"`
	EndTime      string    `db:"end_time" json:"end_time"`
	CourseID     *int64    `db:"course_id" json:"course_id,omitempty"`
	TeacherID    *int64    `db:"teacher_id" json:"teacher_id,omitempty"`
	RoomID       *int64    `db:"room_id" json:"room_id,omitempty"`
	LabID        *int64    `db:"lab_id" json:"lab_id,omitempty"`
	IsBreak      bool      `db:"is_break" json:"is_break"`
	BreakName    *string   `db:"break_name" json:"break_name,omitempty"`
	IsCancelled  bool      `db:"is_cancelled" json:"is_cancelled"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// ScheduleEntryDetail joins display names onto an entry for read views.
type ScheduleEntryDetail struct {
	ScheduleEntry
	CourseCode   *string `db:"course_code" json:"course_code,omitempty"`
	CourseName   *string `db:"course_name" json:"course_name,omitempty"`
	TeacherName  *string `db:"teacher_name" json:"teacher_name,omitempty"`
	RoomName     *string `db:"room_name" json:"room_name,omitempty"`
	LabName      *string `db:"lab_name" json:"lab_name,omitempty"`
	SemesterName *string `db:"semester_name" json:"semester_name,omitempty"`
}

// PreviewEntry is a proposed entry inside a not yet committed routine.
// Key stays stable while the entry is dragged around the grid.
type PreviewEntry struct {
	Key string `json:"key"`
	ScheduleEntryDetail
}

// RoutineScope selects the (department, semesters) pair a routine covers.
type RoutineScope struct {
	DepartmentID int64   `json:"department_id"`
	SemesterIDs  []int64 `json:"semester_ids"`
}

// Contains reports whether semesterID belongs to the scope.
func (s RoutineScope) Contains(semesterID int64) bool {
	for _, id := range s.SemesterIDs {
		if id == semesterID {
			return true
		}
	}
	return false
}

// ProjectionKind names a read view over committed entries.
type ProjectionKind string

const (
	ProjectionDepartment ProjectionKind = "department"
	ProjectionSemester   ProjectionKind = "semester"
	ProjectionTeacher    ProjectionKind = "teacher"
	ProjectionRoom       ProjectionKind = "room"
	ProjectionLab        ProjectionKind = "lab"
	ProjectionCourse     ProjectionKind = "course"
	ProjectionStudent    ProjectionKind = "student"
)

// ConflictDimension identifies the resource two entries both claim.
type ConflictDimension string

const (
	ConflictSemester ConflictDimension = "SEMESTER"
	ConflictTeacher  ConflictDimension = "TEACHER"
	ConflictRoom     ConflictDimension = "ROOM"
	ConflictLab      ConflictDimension = "LAB"
	ConflictCourse   ConflictDimension = "COURSE"
)

// ScheduleConflict describes the existing entry a candidate collides with.
type ScheduleConflict struct {
	Dimension  ConflictDimension `json:"dimension"`
	EntryID    int64             `json:"entry_id,omitempty"`
	EntryKey   string            `json:"entry_key,omitempty"`
	SemesterID int64             `json:"semester_id"`
	CourseID   *int64            `json:"course_id,omitempty"`
	TeacherID  *int64            `json:"teacher_id,omitempty"`
	RoomID     *int64            `json:"room_id,omitempty"`
	LabID      *int64            `json:"lab_id,omitempty"`
	DayOfWeek  DayOfWeek         `json:"day_of_week"`
	StartTime  string            `json:"start_time"`
}

// ScheduleConflictError is returned when a placement collides with an existing entry.
type ScheduleConflictError struct {
	Message  string           `json:"message"`
	Conflict ScheduleConflict `json:"conflict"`
}

// Error implements the error interface for conflict errors.
func (e *ScheduleConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}
