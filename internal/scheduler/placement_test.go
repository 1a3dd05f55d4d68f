package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/routine-api/internal/models"
)

func ref(v int64) *int64 {
	return &v
}

func classEntry(id, semesterID, teacherID, roomID int64, day models.DayOfWeek, start string) models.ScheduleEntry {
	return models.ScheduleEntry{
		ID:         id,
		SemesterID: semesterID,
		DayOfWeek:  day,
		StartTime:  start,
		EndTime:    mustEndTime(start),
		CourseID:   ref(1000 + id),
		TeacherID:  ref(teacherID),
		RoomID:     ref(roomID),
	}
}

func TestCanPlaceReportsSemesterFirst(t *testing.T) {
	existing := []models.ScheduleEntry{classEntry(1, 5, 99, 7, models.Monday, "09:00")}
	candidate := classEntry(0, 5, 99, 7, models.Monday, "09:00")
	candidate.CourseID = ref(1)

	conflict := CanPlace(candidate, models.Monday, "09:00", existing)
	require.NotNil(t, conflict)
	assert.Equal(t, models.ConflictSemester, conflict.Dimension)
	assert.Equal(t, int64(1), conflict.EntryID)
	assert.Equal(t, models.Monday, conflict.DayOfWeek)
}

func TestCanPlacePrecedence(t *testing.T) {
	lab := ref(3)
	cases := []struct {
		name      string
		existing  models.ScheduleEntry
		candidate models.ScheduleEntry
		want      models.ConflictDimension
	}{
		{
			name:      "teacher",
			existing:  classEntry(1, 1, 99, 7, models.Sunday, "08:00"),
			candidate: classEntry(0, 2, 99, 7, models.Sunday, "08:00"),
			want:      models.ConflictTeacher,
		},
		{
			name:      "room",
			existing:  classEntry(1, 1, 98, 7, models.Sunday, "08:00"),
			candidate: classEntry(0, 2, 99, 7, models.Sunday, "08:00"),
			want:      models.ConflictRoom,
		},
		{
			name:      "lab",
			existing:  models.ScheduleEntry{ID: 1, SemesterID: 1, DayOfWeek: models.Sunday, StartTime: "08:00", TeacherID: ref(98), LabID: lab},
			candidate: models.ScheduleEntry{SemesterID: 2, TeacherID: ref(99), LabID: lab, CourseID: ref(5)},
			want:      models.ConflictLab,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			conflict := CanPlace(tc.candidate, models.Sunday, "08:00", []models.ScheduleEntry{tc.existing})
			require.NotNil(t, conflict)
			assert.Equal(t, tc.want, conflict.Dimension)
		})
	}
}

func TestCanPlaceAcceptsSharedCourseOnly(t *testing.T) {
	existing := []models.ScheduleEntry{
		{ID: 1, SemesterID: 11, DayOfWeek: models.Monday, StartTime: "09:00", CourseID: ref(100), TeacherID: ref(8), RoomID: ref(2)},
	}
	candidate := models.ScheduleEntry{SemesterID: 10, CourseID: ref(100), TeacherID: ref(7), RoomID: ref(1)}

	assert.Nil(t, CanPlace(candidate, models.Monday, "09:00", existing))
}

func TestCanPlaceDimensionOrderAcrossEntries(t *testing.T) {
	existing := []models.ScheduleEntry{
		classEntry(1, 1, 99, 8, models.Sunday, "08:00"),
		classEntry(2, 5, 50, 9, models.Sunday, "08:00"),
	}
	candidate := classEntry(0, 5, 99, 7, models.Sunday, "08:00")

	conflict := CanPlace(candidate, models.Sunday, "08:00", existing)
	require.NotNil(t, conflict)
	assert.Equal(t, models.ConflictSemester, conflict.Dimension)
	assert.Equal(t, int64(2), conflict.EntryID)
}

func TestCanPlaceFreeCell(t *testing.T) {
	existing := []models.ScheduleEntry{
		classEntry(1, 5, 99, 7, models.Monday, "09:00"),
		classEntry(2, 5, 99, 7, models.Sunday, "10:00"),
	}
	assert.Nil(t, CanPlace(classEntry(0, 5, 99, 7, models.Sunday, "09:00"), models.Monday, "10:00", existing))
	assert.Nil(t, CanPlace(classEntry(0, 6, 98, 8, models.Monday, "09:00"), models.Monday, "09:00", existing))
}

func TestCanPlaceIgnoresNilReferencesAndSelf(t *testing.T) {
	existing := []models.ScheduleEntry{
		{ID: 1, SemesterID: 1, DayOfWeek: models.Sunday, StartTime: "08:00"},
		classEntry(2, 2, 99, 7, models.Sunday, "08:00"),
	}
	candidate := models.ScheduleEntry{SemesterID: 3}
	assert.Nil(t, CanPlace(candidate, models.Sunday, "08:00", existing))

	self := existing[1]
	assert.Nil(t, CanPlace(self, models.Sunday, "08:00", existing))
}

func TestCanPlaceBreakChecksSemesterOnly(t *testing.T) {
	name := "Lunch"
	existing := []models.ScheduleEntry{classEntry(1, 1, 99, 7, models.Sunday, "12:00")}

	otherSemester := models.ScheduleEntry{SemesterID: 2, IsBreak: true, BreakName: &name, TeacherID: ref(99), RoomID: ref(7)}
	assert.Nil(t, CanPlace(otherSemester, models.Sunday, "12:00", existing))

	sameSemester := models.ScheduleEntry{SemesterID: 1, IsBreak: true, BreakName: &name}
	conflict := CanPlace(sameSemester, models.Sunday, "12:00", existing)
	require.NotNil(t, conflict)
	assert.Equal(t, models.ConflictSemester, conflict.Dimension)
}

func TestFindInternalConflict(t *testing.T) {
	entries := []models.ScheduleEntry{
		classEntry(0, 1, 99, 7, models.Sunday, "08:00"),
		classEntry(0, 2, 98, 8, models.Sunday, "08:00"),
		classEntry(0, 3, 97, 7, models.Sunday, "08:00"),
	}
	idx, conflict := FindInternalConflict(entries)
	assert.Equal(t, 2, idx)
	require.NotNil(t, conflict)
	assert.Equal(t, models.ConflictRoom, conflict.Dimension)

	idx, conflict = FindInternalConflict(entries[:2])
	assert.Equal(t, -1, idx)
	assert.Nil(t, conflict)
}

func TestConflictMessage(t *testing.T) {
	assert.Empty(t, ConflictMessage(nil))
	msg := ConflictMessage(&models.ScheduleConflict{Dimension: models.ConflictTeacher, DayOfWeek: models.Monday, StartTime: "09:00"})
	assert.Contains(t, msg, "teacher")
	assert.Contains(t, msg, "MONDAY")
}
