package dto

import (
	"time"

	"github.com/noah-isme/routine-api/internal/models"
)

// GeneratePreviewRequest instructs the generator to build a routine for department semesters.
type GeneratePreviewRequest struct {
	DepartmentID int64   `json:"departmentId" validate:"required,min=1"`
	SemesterIDs  []int64 `json:"semesterIds" validate:"required,min=1,dive,min=1"`
	Seed         *int64  `json:"seed,omitempty"`
}

// UnassignedCourse is a course the generator could not fully place.
type UnassignedCourse struct {
	CourseID int64  `json:"courseId"`
	Code     string `json:"code"`
	Name     string `json:"name"`
}

// PreviewResponse returns a stored, not yet committed routine.
type PreviewResponse struct {
	PreviewID         string                `json:"previewId"`
	DepartmentID      int64                 `json:"departmentId"`
	SemesterIDs       []int64               `json:"semesterIds"`
	ProposedEntries   []models.PreviewEntry `json:"proposedEntries"`
	UnassignedCourses []UnassignedCourse    `json:"unassignedCourses"`
	ExpiresAt         time.Time             `json:"expiresAt"`
}

// MovePreviewEntryRequest drags a preview entry to a new cell.
type MovePreviewEntryRequest struct {
	DayOfWeek string `json:"dayOfWeek" validate:"required"`
	StartTime string `json:"startTime" validate:"required"`
}

// ScheduleEntryInput is a class or break supplied by the caller.
type ScheduleEntryInput struct {
	SemesterID  int64   `json:"semesterId" validate:"required,min=1"`
	DayOfWeek   string  `json:"dayOfWeek" validate:"required"`
	StartTime   string  `json:"startTime" validate:"required"`
	CourseID    *int64  `json:"courseId,omitempty" validate:"omitempty,min=1"`
	TeacherID   *int64  `json:"teacherId,omitempty" validate:"omitempty,min=1"`
	RoomID      *int64  `json:"roomId,omitempty" validate:"omitempty,min=1"`
	LabID       *int64  `json:"labId,omitempty" validate:"omitempty,min=1"`
	IsBreak     bool    `json:"isBreak"`
	BreakName   *string `json:"breakName,omitempty" validate:"omitempty,max=100"`
	IsCancelled bool    `json:"isCancelled"`
}

// ToModel converts the input into an entry of departmentID.
func (in ScheduleEntryInput) ToModel(departmentID int64) models.ScheduleEntry {
	return models.ScheduleEntry{
		SemesterID:   in.SemesterID,
		DepartmentID: departmentID,
		DayOfWeek:    models.DayOfWeek(in.DayOfWeek),
		StartTime:    in.StartTime,
		CourseID:     in.CourseID,
		TeacherID:    in.TeacherID,
		RoomID:       in.RoomID,
		LabID:        in.LabID,
		IsBreak:      in.IsBreak,
		BreakName:    in.BreakName,
		IsCancelled:  in.IsCancelled,
	}
}

// CommitRoutineRequest replaces the routine of department semesters. Entries
// come from a stored preview when PreviewID is set, otherwise from Entries;
// an empty Entries list clears the routine.
type CommitRoutineRequest struct {
	DepartmentID int64                `json:"departmentId" validate:"required,min=1"`
	SemesterIDs  []int64              `json:"semesterIds" validate:"required,min=1,dive,min=1"`
	PreviewID    string               `json:"previewId,omitempty" validate:"omitempty,uuid"`
	Entries      []ScheduleEntryInput `json:"entries" validate:"omitempty,dive"`
}

// CommitRoutineResponse reports how many entries were written.
type CommitRoutineResponse struct {
	SavedCount int `json:"savedCount"`
}

// CreateScheduleEntryRequest adds one entry to a committed routine.
type CreateScheduleEntryRequest struct {
	DepartmentID int64 `json:"departmentId" validate:"required,min=1"`
	ScheduleEntryInput
}

// ToggleCancellationRequest sets the cancellation flag of an entry.
type ToggleCancellationRequest struct {
	IsCancelled *bool `json:"isCancelled" validate:"required"`
}

// RoutineView is a read projection of committed entries.
type RoutineView struct {
	Kind    models.ProjectionKind        `json:"kind"`
	ID      int64                        `json:"id"`
	Entries []models.ScheduleEntryDetail `json:"entries"`
}

// RoutineExportQuery selects the committed routine to export.
type RoutineExportQuery struct {
	DepartmentID int64  `form:"departmentId" validate:"required,min=1"`
	SemesterID   int64  `form:"semesterId" validate:"omitempty,min=1"`
	Format       string `form:"format" validate:"omitempty,oneof=csv pdf"`
}

// AssignCourseTeacherRequest assigns or replaces the teacher of a semester course.
type AssignCourseTeacherRequest struct {
	CourseID  int64 `json:"courseId" validate:"required,min=1"`
	TeacherID int64 `json:"teacherId" validate:"required,min=1"`
}
