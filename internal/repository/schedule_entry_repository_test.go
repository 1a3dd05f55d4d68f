package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/routine-api/internal/models"
)

var scheduleEntryRowColumns = []string{"id", "semester_id", "department_id", "day_of_week", "start_time", "end_time", "course_id", "teacher_id", "room_id", "lab_id", "is_break", "break_name", "is_cancelled", "created_at", "updated_at"}

func int64Ref(v int64) *int64 {
	return &v
}

func sampleEntries() []models.ScheduleEntry {
	return []models.ScheduleEntry{
		{SemesterID: 3, DepartmentID: 1, DayOfWeek: models.Sunday, StartTime: "08:00", EndTime: "09:00", CourseID: int64Ref(10), TeacherID: int64Ref(100), RoomID: int64Ref(7)},
		{SemesterID: 3, DepartmentID: 1, DayOfWeek: models.Sunday, StartTime: "09:00", EndTime: "10:00", CourseID: int64Ref(11), TeacherID: int64Ref(101), LabID: int64Ref(2)},
	}
}

func TestScheduleEntryRepositoryReplaceScopeCommits(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScheduleEntryRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedule_entries WHERE department_id = $1 AND semester_id = ANY($2)")).
		WithArgs(int64(1), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 4))
	prep := mock.ExpectPrepare("INSERT INTO schedule_entries")
	prep.ExpectQuery().WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(21)))
	prep.ExpectQuery().WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(22)))
	mock.ExpectCommit()

	entries := sampleEntries()
	entries[0].ID = 5
	require.NoError(t, repo.ReplaceScope(context.Background(), 1, []int64{3}, entries))
	assert.Equal(t, int64(21), entries[0].ID)
	assert.Equal(t, int64(22), entries[1].ID)
	assert.False(t, entries[1].CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleEntryRepositoryReplaceScopeEmptyClears(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScheduleEntryRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM schedule_entries").WillReturnResult(sqlmock.NewResult(0, 9))
	mock.ExpectCommit()

	require.NoError(t, repo.ReplaceScope(context.Background(), 1, []int64{3, 4}, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleEntryRepositoryReplaceScopeRollsBack(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScheduleEntryRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM schedule_entries").WillReturnResult(sqlmock.NewResult(0, 2))
	prep := mock.ExpectPrepare("INSERT INTO schedule_entries")
	prep.ExpectQuery().WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(21)))
	prep.ExpectQuery().WillReturnError(errors.New("unique violation"))
	mock.ExpectRollback()

	err := repo.ReplaceScope(context.Background(), 1, []int64{3}, sampleEntries())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert schedule entry")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleEntryRepositoryReplaceScopeDeleteFailure(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScheduleEntryRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM schedule_entries").WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.ReplaceScope(context.Background(), 1, []int64{3}, sampleEntries())
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleEntryRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScheduleEntryRepository(db)

	prep := mock.ExpectPrepare("INSERT INTO schedule_entries")
	prep.ExpectQuery().WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(40)))

	entry := sampleEntries()[0]
	require.NoError(t, repo.Create(context.Background(), &entry))
	assert.Equal(t, int64(40), entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleEntryRepositoryFindConflicts(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScheduleEntryRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(scheduleEntryRowColumns).
		AddRow(int64(1), int64(5), int64(1), "MONDAY", "09:00", "10:00", int64(10), int64(99), int64(7), nil, false, nil, false, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM schedule_entries WHERE day_of_week = $1 AND start_time = $2")).
		WithArgs("MONDAY", "09:00").
		WillReturnRows(rows)

	entries, err := repo.FindConflicts(context.Background(), models.Monday, "09:00")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(99), *entries[0].TeacherID)
	assert.Nil(t, entries[0].LabID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleEntryRepositoryListBaseline(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScheduleEntryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE NOT (department_id = $1 AND semester_id = ANY($2))")).
		WithArgs(int64(1), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(scheduleEntryRowColumns))

	entries, err := repo.ListBaseline(context.Background(), 1, []int64{3}, []int64{100, 101})
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleEntryRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScheduleEntryRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedule_entries WHERE id = $1")).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedule_entries WHERE id = $1")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), 4))
	assert.ErrorIs(t, repo.Delete(context.Background(), 5), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleEntryRepositorySetCancelled(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScheduleEntryRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE schedule_entries SET is_cancelled = $2")).
		WithArgs(int64(4), true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetCancelled(context.Background(), 4, true))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleEntryRepositoryListProjection(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScheduleEntryRepository(db)

	now := time.Now()
	columns := append(append([]string{}, scheduleEntryRowColumns...), "course_code", "course_name", "teacher_name", "room_name", "lab_name", "semester_name")
	rows := sqlmock.NewRows(columns).
		AddRow(int64(1), int64(5), int64(1), "SUNDAY", "08:00", "09:00", int64(10), int64(99), int64(7), nil, false, nil, false, now, now,
			"CSE-101", "Algorithms", "Dr. Rahman", "Room 301", nil, "1st Year 1st Semester")
	mock.ExpectQuery(`WHERE se.teacher_id = \$1\s+ORDER BY CASE se.day_of_week`).
		WithArgs(int64(99)).
		WillReturnRows(rows)

	entries, err := repo.ListProjection(context.Background(), models.ProjectionTeacher, 99)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Algorithms", *entries[0].CourseName)
	assert.Equal(t, "Room 301", *entries[0].RoomName)
	assert.Nil(t, entries[0].LabName)
	assert.NoError(t, mock.ExpectationsWereMet())

	_, err = repo.ListProjection(context.Background(), models.ProjectionStudent, 1)
	assert.Error(t, err)
}

func TestScheduleEntryRepositoryListForStudent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScheduleEntryRepository(db)

	mock.ExpectQuery(`se.is_break OR se.course_id IN \(SELECT course_id FROM enrollments WHERE student_id = \$2\)`).
		WithArgs(int64(3), int64(42)).
		WillReturnRows(sqlmock.NewRows(scheduleEntryRowColumns))

	entries, err := repo.ListForStudent(context.Background(), 3, 42)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}
