package scheduler

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/routine-api/internal/models"
)

func assignment(semesterID, courseID, teacherID int64, credits float64, courseType models.CourseType) models.CourseTeacherDetail {
	return models.CourseTeacherDetail{
		CourseTeacher: models.CourseTeacher{
			SemesterID: semesterID,
			CourseID:   courseID,
			TeacherID:  teacherID,
		},
		CourseCode:    fmt.Sprintf("CSE-%d", courseID),
		CourseName:    fmt.Sprintf("Course %d", courseID),
		CourseCredits: credits,
		CourseType:    courseType,
		IsMajor:       true,
		TeacherName:   fmt.Sprintf("Teacher %d", teacherID),
	}
}

func rooms(ids ...int64) []models.Room {
	out := make([]models.Room, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Room{ID: id, DepartmentID: 1, Name: fmt.Sprintf("Room %d", id), Status: models.ResourceAvailable})
	}
	return out
}

func labs(ids ...int64) []models.Lab {
	out := make([]models.Lab, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Lab{ID: id, DepartmentID: 1, Name: fmt.Sprintf("Lab %d", id), Status: models.ResourceAvailable})
	}
	return out
}

func seeded(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func countByCourse(entries []models.ScheduleEntryDetail) map[int64]int {
	counts := make(map[int64]int)
	for _, entry := range entries {
		counts[*entry.CourseID]++
	}
	return counts
}

func TestInstanceCount(t *testing.T) {
	assert.Equal(t, 3, InstanceCount(3))
	assert.Equal(t, 3, InstanceCount(2.5))
	assert.Equal(t, 1, InstanceCount(0.5))
	assert.Equal(t, 0, InstanceCount(0))
}

func TestGeneratePlacesCeilCreditsInstances(t *testing.T) {
	res, err := Generate(Input{
		DepartmentID: 1,
		Assignments: []models.CourseTeacherDetail{
			assignment(1, 10, 100, 3, models.CourseTypeTheory),
			assignment(1, 11, 101, 2.5, models.CourseTypeTheory),
		},
		Rooms: rooms(7),
	}, seeded(1))
	require.NoError(t, err)

	assert.Equal(t, 6, res.Instances)
	assert.Empty(t, res.Unassigned)
	counts := countByCourse(res.Entries)
	assert.Equal(t, 3, counts[10])
	assert.Equal(t, 3, counts[11])
	for _, entry := range res.Entries {
		assert.Equal(t, int64(1), entry.DepartmentID)
		assert.Equal(t, mustEndTime(entry.StartTime), entry.EndTime)
		require.NotNil(t, entry.CourseCode)
		require.NotNil(t, entry.TeacherName)
		require.NotNil(t, entry.RoomName)
	}
}

func TestGenerateSkipsNonMajorCourses(t *testing.T) {
	minor := assignment(1, 12, 100, 3, models.CourseTypeTheory)
	minor.IsMajor = false

	_, err := Generate(Input{Assignments: []models.CourseTeacherDetail{minor}, Rooms: rooms(7)}, seeded(1))
	assert.ErrorIs(t, err, ErrNoAssignments)
}

func TestGenerateFailureSignals(t *testing.T) {
	_, err := Generate(Input{Rooms: rooms(7)}, seeded(1))
	assert.ErrorIs(t, err, ErrNoAssignments)

	unavailable := rooms(7)
	unavailable[0].Status = models.ResourceUnavailable
	_, err = Generate(Input{
		Assignments: []models.CourseTeacherDetail{assignment(1, 10, 100, 3, models.CourseTypeTheory)},
		Rooms:       unavailable,
	}, seeded(1))
	assert.ErrorIs(t, err, ErrNoResources)

	// assignments are checked before resources
	_, err = Generate(Input{}, seeded(1))
	assert.ErrorIs(t, err, ErrNoAssignments)
}

func TestGenerateIsReproducibleForSeed(t *testing.T) {
	in := Input{
		DepartmentID: 1,
		Assignments: []models.CourseTeacherDetail{
			assignment(1, 10, 100, 3, models.CourseTypeTheory),
			assignment(1, 11, 100, 3, models.CourseTypeLab),
			assignment(2, 20, 101, 2, models.CourseTypeTheory),
			assignment(2, 21, 100, 4, models.CourseTypeProject),
		},
		Rooms: rooms(7, 8),
		Labs:  labs(3),
	}

	first, err := Generate(in, seeded(42))
	require.NoError(t, err)
	second, err := Generate(in, seeded(42))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerateNeverDoubleBooks(t *testing.T) {
	var assignments []models.CourseTeacherDetail
	courseID := int64(1)
	for semester := int64(1); semester <= 4; semester++ {
		for i := int64(0); i < 6; i++ {
			courseType := models.CourseTypeTheory
			if i%3 == 0 {
				courseType = models.CourseTypeLab
			}
			assignments = append(assignments, assignment(semester, courseID, 100+(courseID%5), 3, courseType))
			courseID++
		}
	}

	for seed := int64(0); seed < 20; seed++ {
		res, err := Generate(Input{DepartmentID: 1, Assignments: assignments, Rooms: rooms(7, 8), Labs: labs(3)}, seeded(seed))
		require.NoError(t, err)

		entries := make([]models.ScheduleEntry, 0, len(res.Entries))
		for _, entry := range res.Entries {
			entries = append(entries, entry.ScheduleEntry)
		}
		idx, conflict := FindInternalConflict(entries)
		assert.Equal(t, -1, idx, "seed %d produced conflict %+v", seed, conflict)
	}
}

func TestGenerateAccountsForEveryAssignment(t *testing.T) {
	var assignments []models.CourseTeacherDetail
	for course := int64(1); course <= 20; course++ {
		assignments = append(assignments, assignment(1+course%2, course, 100+course%3, 3, models.CourseTypeTheory))
	}

	res, err := Generate(Input{Assignments: assignments, Rooms: rooms(7)}, seeded(7))
	require.NoError(t, err)

	placed := countByCourse(res.Entries)
	unassigned := make(map[int64]bool)
	for _, course := range res.Unassigned {
		assert.False(t, unassigned[course.CourseID], "course %d reported twice", course.CourseID)
		unassigned[course.CourseID] = true
	}
	for _, a := range assignments {
		assert.True(t, placed[a.CourseID] > 0 || unassigned[a.CourseID], "course %d vanished", a.CourseID)
	}
}

func TestGenerateSingleTeacherOversubscribed(t *testing.T) {
	var assignments []models.CourseTeacherDetail
	for course := int64(1); course <= 10; course++ {
		assignments = append(assignments, assignment(course, course, 99, 5, models.CourseTypeTheory))
	}

	res, err := Generate(Input{Assignments: assignments, Rooms: rooms(1, 2, 3)}, seeded(3))
	require.NoError(t, err)

	assert.Equal(t, 50, res.Instances)
	assert.Len(t, res.Entries, SlotCount())
	assert.GreaterOrEqual(t, res.Instances-len(res.Entries), 5)
	assert.NotEmpty(t, res.Unassigned)
}

func TestGenerateSingleRoomCapsPlacements(t *testing.T) {
	var assignments []models.CourseTeacherDetail
	for course := int64(1); course <= 10; course++ {
		assignments = append(assignments, assignment(course, course, 100+course, 5, models.CourseTypeTheory))
	}

	res, err := Generate(Input{Assignments: assignments, Rooms: rooms(7)}, seeded(5))
	require.NoError(t, err)
	assert.Len(t, res.Entries, SlotCount())
	assert.NotEmpty(t, res.Unassigned)
}

func TestGenerateRoutesLabCoursesToLabs(t *testing.T) {
	res, err := Generate(Input{
		Assignments: []models.CourseTeacherDetail{
			assignment(1, 10, 100, 2, models.CourseTypeLab),
			assignment(1, 11, 101, 2, models.CourseTypeThesis),
		},
		Rooms: rooms(7),
		Labs:  labs(3),
	}, seeded(1))
	require.NoError(t, err)
	require.Len(t, res.Entries, 4)

	for _, entry := range res.Entries {
		if *entry.CourseID == 10 {
			require.NotNil(t, entry.LabID)
			assert.Equal(t, int64(3), *entry.LabID)
			assert.Nil(t, entry.RoomID)
		} else {
			require.NotNil(t, entry.RoomID)
			assert.Equal(t, int64(7), *entry.RoomID)
			assert.Nil(t, entry.LabID)
		}
	}
}

func TestGenerateLabCourseWithoutLabIsUnassigned(t *testing.T) {
	res, err := Generate(Input{
		Assignments: []models.CourseTeacherDetail{assignment(1, 10, 100, 2, models.CourseTypeLab)},
		Rooms:       rooms(7),
	}, seeded(1))
	require.NoError(t, err)
	assert.Empty(t, res.Entries)
	require.Len(t, res.Unassigned, 1)
	assert.Equal(t, UnassignedCourse{CourseID: 10, Code: "CSE-10", Name: "Course 10"}, res.Unassigned[0])
}

func TestGeneratePicksFirstFreeResourceAndSlot(t *testing.T) {
	res, err := Generate(Input{
		Assignments: []models.CourseTeacherDetail{
			assignment(1, 10, 100, 1, models.CourseTypeTheory),
			assignment(2, 20, 200, 1, models.CourseTypeTheory),
		},
		Rooms: rooms(9, 4),
	}, seeded(1))
	require.NoError(t, err)
	require.Len(t, res.Entries, 2)

	roomsUsed := map[int64]bool{}
	for _, entry := range res.Entries {
		assert.Equal(t, models.Sunday, entry.DayOfWeek)
		assert.Equal(t, "08:00", entry.StartTime)
		roomsUsed[*entry.RoomID] = true
	}
	assert.True(t, roomsUsed[9])
	assert.True(t, roomsUsed[4])
}

func TestGenerateRespectsBaseline(t *testing.T) {
	teacher := int64(100)
	room := int64(7)
	baseline := []models.ScheduleEntry{
		{SemesterID: 5, DayOfWeek: models.Sunday, StartTime: "08:00", TeacherID: &teacher},
		{SemesterID: 6, DayOfWeek: models.Sunday, StartTime: "09:00", RoomID: &room},
	}

	res, err := Generate(Input{
		Assignments: []models.CourseTeacherDetail{assignment(1, 10, teacher, 1, models.CourseTypeTheory)},
		Rooms:       rooms(room),
		Baseline:    baseline,
	}, seeded(1))
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, models.Sunday, res.Entries[0].DayOfWeek)
	assert.Equal(t, "10:00", res.Entries[0].StartTime)
}

func TestBusySet(t *testing.T) {
	busy := NewBusySet()
	assert.False(t, busy.IsBusy(KindTeacher, 1, models.Sunday, "08:00"))

	teacher := int64(1)
	lab := int64(2)
	busy.OccupyEntry(models.ScheduleEntry{SemesterID: 3, DayOfWeek: models.Sunday, StartTime: "08:00", TeacherID: &teacher, LabID: &lab})
	assert.Equal(t, 3, busy.Len())
	assert.True(t, busy.IsBusy(KindTeacher, 1, models.Sunday, "08:00"))
	assert.True(t, busy.IsBusy(KindLab, 2, models.Sunday, "08:00"))
	assert.True(t, busy.IsBusy(KindSemester, 3, models.Sunday, "08:00"))
	assert.False(t, busy.IsBusy(KindRoom, 2, models.Sunday, "08:00"))
	assert.False(t, busy.IsBusy(KindTeacher, 1, models.Sunday, "09:00"))

	busy.Release(KindTeacher, 1, models.Sunday, "08:00")
	assert.False(t, busy.IsBusy(KindTeacher, 1, models.Sunday, "08:00"))
	assert.Equal(t, 2, busy.Len())
}

func TestGridHelpers(t *testing.T) {
	assert.Equal(t, 45, SlotCount())
	assert.True(t, ValidStartTime("16:00"))
	assert.False(t, ValidStartTime("17:00"))
	assert.False(t, ValidStartTime("08:30"))

	end, err := EndTime("15:00")
	require.NoError(t, err)
	assert.Equal(t, "16:00", end)

	_, err = EndTime("noon")
	assert.Error(t, err)
}
