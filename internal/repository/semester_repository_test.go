package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var semesterRowColumns = []string{"id", "department_id", "name", "session", "is_active"}

func TestSemesterRepositoryFindBySessionDepartment(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSemesterRepository(db)

	rows := sqlmock.NewRows(semesterRowColumns).AddRow(int64(3), int64(1), "4th Year 1st Semester", "2019-20", true)
	mock.ExpectQuery(regexp.QuoteMeta("FROM semesters WHERE session = $1 AND department_id = $2")).
		WithArgs("2019-20", int64(1)).
		WillReturnRows(rows)

	semester, err := repo.FindBySessionDepartment(context.Background(), "2019-20", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), semester.ID)
	assert.True(t, semester.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSemesterRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSemesterRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM semesters WHERE id = $1")).
		WithArgs(int64(77)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), 77)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSemesterRepositoryListByIDs(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSemesterRepository(db)

	rows := sqlmock.NewRows(semesterRowColumns).
		AddRow(int64(3), int64(1), "A", "2019-20", true).
		AddRow(int64(4), int64(2), "B", "2020-21", true)
	mock.ExpectQuery(regexp.QuoteMeta("FROM semesters WHERE id = ANY($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(rows)

	semesters, err := repo.ListByIDs(context.Background(), []int64{3, 4})
	require.NoError(t, err)
	require.Len(t, semesters, 2)
	assert.Equal(t, int64(2), semesters[1].DepartmentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
